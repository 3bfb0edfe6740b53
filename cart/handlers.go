package cart

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vitrin/catalog"
	"vitrin/store"
	"vitrin/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetCart fetches the cart, creating an empty one under the requested id
// when it does not exist yet (fetch-with-create).
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cartID := r.URL.Query().Get("cartId")
	if cartID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart ID is required")
		return
	}

	c, err := h.svc.Get(r.Context(), cartID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("GetCart error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}
		c, err = h.svc.Create(r.Context(), utils.GetUserIDFromRequest(r), cartID)
		if err != nil {
			log.Printf("GetCart create error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create cart")
			return
		}
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

type addItemRequest struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.CartID == "" {
		c, err := h.svc.Create(r.Context(), utils.GetUserIDFromRequest(r), "")
		if err != nil {
			log.Printf("AddItem create cart error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create cart")
			return
		}
		req.CartID = c.CartID
	}

	c, err := h.svc.AddItem(r.Context(), req.CartID, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(w, err, "Failed to add item to cart")
		return
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

type updateQuantityRequest struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.CartID == "" || req.ProductID == "" || req.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart ID, Product ID and quantity are required")
		return
	}

	c, err := h.svc.UpdateQuantity(r.Context(), req.CartID, req.ProductID, *req.Quantity)
	if err != nil {
		respondCartError(w, err, "Failed to update cart item")
		return
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cartID := r.URL.Query().Get("cartId")
	productID := r.URL.Query().Get("productId")
	if cartID == "" || productID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart ID and Product ID are required")
		return
	}

	c, err := h.svc.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		respondCartError(w, err, "Failed to remove item from cart")
		return
	}

	utils.RespondWithData(w, http.StatusOK, c)
}

// respondCartError maps domain failures onto the status codes of the API
// contract: absences are 404, stock violations 400.
func respondCartError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *store.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		utils.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Cart or item not found")
	default:
		log.Printf("cart handler error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
