package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vitrin/catalog"
	"vitrin/models"
	"vitrin/store"
	"vitrin/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createOrderRequest struct {
	CartID          string                 `json:"cartId"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.CartID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart ID is required")
		return
	}
	if req.ShippingAddress.FullName == "" || req.ShippingAddress.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping address is incomplete")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	order, err := h.svc.Create(r.Context(), userID, req.CartID, req.ShippingAddress)
	if err != nil {
		respondOrderError(w, err, "Failed to create order")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.svc.GetByID(r.Context(), ps.ByName("orderid"))
	if err != nil {
		respondOrderError(w, err, "Failed to fetch order")
		return
	}

	// Orders are private to their owner.
	if order.UserID != utils.GetUserIDFromRequest(r) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.RespondWithData(w, http.StatusOK, order)
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	out, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("ListMyOrders error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithData(w, http.StatusOK, out)
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out, err := h.svc.ListAll(r.Context())
	if err != nil {
		log.Printf("ListAllOrders error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithData(w, http.StatusOK, out)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}
	if !req.Status.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	order, err := h.svc.UpdateStatus(r.Context(), ps.ByName("orderid"), req.Status)
	if err != nil {
		respondOrderError(w, err, "Failed to update order status")
		return
	}

	utils.RespondWithData(w, http.StatusOK, order)
}

func respondOrderError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *store.InsufficientStockError
	var transitionErr *InvalidTransitionError
	switch {
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
	case errors.As(err, &stockErr):
		utils.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
	case errors.As(err, &transitionErr):
		utils.RespondWithError(w, http.StatusBadRequest, transitionErr.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
	default:
		log.Printf("orders handler error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
