package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
	"github.com/cloudcar/shopcache/internal/usecase"
)

type ProductListResponse struct {
	Products []model.ProductWithVideo `json:"products"`
	Cached   bool                     `json:"cached"`
	Source   string                   `json:"source"`
}

// ProductHandler handles the video-enriched catalog listing.
type ProductHandler struct {
	svc usecase.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc usecase.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, cached, err := h.svc.ListWithVideos(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	source := "database"
	if cached {
		source = "cache"
	}
	JSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Cached:   cached,
		Source:   source,
	})
}

// Get handles GET /products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "productId must be a number")
		return
	}

	product, err := h.svc.GetWithVideo(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			Error(w, http.StatusNotFound, "Product not found")
			return
		}
		Error(w, http.StatusInternalServerError, "Failed to load product")
		return
	}

	JSON(w, http.StatusOK, product)
}
