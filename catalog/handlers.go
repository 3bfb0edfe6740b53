package catalog

import (
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vitrin/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListProducts serves the catalog, optionally filtered by ?category=,
// ?search= or ?featured=true. Filters are mutually exclusive; category wins
// over search, search over featured.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := r.URL.Query()

	var err error
	var products any
	switch {
	case q.Get("category") != "":
		products, err = h.svc.ByCategory(ctx, q.Get("category"))
	case q.Get("search") != "":
		products, err = h.svc.Search(ctx, q.Get("search"))
	case q.Get("featured") == "true":
		products, err = h.svc.Featured(ctx)
	default:
		products, err = h.svc.List(ctx)
	}
	if err != nil {
		log.Printf("ListProducts error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	utils.RespondWithData(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.svc.GetByID(r.Context(), ps.ByName("productid"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("GetProduct error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	utils.RespondWithData(w, http.StatusOK, p)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		log.Printf("ListCategories error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	utils.RespondWithData(w, http.StatusOK, categories)
}

// UploadImage accepts a multipart product image, stores a resized copy and
// records the new image reference.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	imagePath, err := SaveProductImage(file, header)
	if err != nil {
		log.Printf("UploadImage save error: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Could not process image")
		return
	}

	p, err := h.svc.SetImage(r.Context(), productID, imagePath)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("UploadImage error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}
