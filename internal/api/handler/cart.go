package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
	"github.com/cloudcar/shopcache/internal/usecase"
)

// Request/Response types

type CartMutationRequest struct {
	ProductID json.Number `json:"productId"`
	SessionID string      `json:"sessionId"`
}

type CartUpdateRequest struct {
	ProductID json.Number `json:"productId"`
	Action    string      `json:"action"`
	SessionID string      `json:"sessionId"`
}

type CartAddResponse struct {
	Success           bool        `json:"success"`
	ProductID         json.Number `json:"productId"`
	TotalCartQuantity int64       `json:"totalCartQuantity"`
	ItemsCount        int         `json:"itemsCount"`
}

type CartContentsResponse struct {
	Items         []model.CartItem `json:"items"`
	TotalQuantity int64            `json:"totalQuantity"`
	ItemsCount    int              `json:"itemsCount"`
}

type CartRemoveResponse struct {
	Success          bool        `json:"success"`
	RemovedProductID json.Number `json:"removedProductId"`
	TotalQuantity    int64       `json:"totalQuantity"`
	ItemsCount       int         `json:"itemsCount"`
}

type CartUpdateResponse struct {
	Success         bool        `json:"success"`
	ProductID       json.Number `json:"productId"`
	UpdatedQuantity int64       `json:"updatedQuantity"`
	TotalQuantity   int64       `json:"totalQuantity"`
	ItemsCount      int         `json:"itemsCount"`
}

type CartNotFoundResponse struct {
	Error          string      `json:"error"`
	ProductRemoved bool        `json:"productRemoved"`
	ProductID      json.Number `json:"productId"`
	TotalQuantity  int64       `json:"totalQuantity"`
	ItemsCount     int         `json:"itemsCount"`
}

// CartHandler handles session cart requests.
type CartHandler struct {
	svc usecase.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(svc usecase.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req CartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "productId and sessionId are required")
		return
	}

	summary, err := h.svc.Add(r.Context(), req.SessionID, req.ProductID.String())
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to add product to cart")
		return
	}

	JSON(w, http.StatusOK, CartAddResponse{
		Success:           true,
		ProductID:         req.ProductID,
		TotalCartQuantity: summary.TotalQuantity,
		ItemsCount:        summary.ItemsCount,
	})
}

// Get handles GET /cart/{sessionId}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	summary, err := h.svc.Get(r.Context(), sessionID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to get cart items")
		return
	}

	JSON(w, http.StatusOK, CartContentsResponse{
		Items:         summary.Items,
		TotalQuantity: summary.TotalQuantity,
		ItemsCount:    summary.ItemsCount,
	})
}

// Remove handles POST /cart/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req CartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "productId and sessionId are required")
		return
	}

	summary, err := h.svc.Remove(r.Context(), req.SessionID, req.ProductID.String())
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to remove product from cart")
		return
	}

	JSON(w, http.StatusOK, CartRemoveResponse{
		Success:          true,
		RemovedProductID: req.ProductID,
		TotalQuantity:    summary.TotalQuantity,
		ItemsCount:       summary.ItemsCount,
	})
}

// Update handles POST /cart/update
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "productId, action (increase/decrease), and sessionId are required")
		return
	}

	action := model.UpdateAction(req.Action)
	if !action.IsValid() {
		Error(w, http.StatusBadRequest, "productId, action (increase/decrease), and sessionId are required")
		return
	}

	output, err := h.svc.Update(r.Context(), req.SessionID, req.ProductID.String(), action)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotInCart) && output != nil {
			JSON(w, http.StatusNotFound, CartNotFoundResponse{
				Error:          "Product not found in cart",
				ProductRemoved: true,
				ProductID:      req.ProductID,
				TotalQuantity:  output.Summary.TotalQuantity,
				ItemsCount:     output.Summary.ItemsCount,
			})
			return
		}
		Error(w, http.StatusInternalServerError, "Failed to update cart quantity")
		return
	}

	JSON(w, http.StatusOK, CartUpdateResponse{
		Success:         true,
		ProductID:       req.ProductID,
		UpdatedQuantity: output.Quantity,
		TotalQuantity:   output.Summary.TotalQuantity,
		ItemsCount:      output.Summary.ItemsCount,
	})
}
