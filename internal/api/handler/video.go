package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudcar/shopcache/internal/usecase"
)

// Request/Response types

type VideoResponse struct {
	ProductID string  `json:"productId"`
	VideoURL  *string `json:"videoUrl"`
	Cached    bool    `json:"cached"`
	Source    string  `json:"source"`
}

type BatchVideosRequest struct {
	ProductIDs []json.Number `json:"productIds"`
}

type BatchVideosResponse struct {
	Videos map[string]*string `json:"videos"`
}

// VideoHandler handles video URL resolution requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Get handles GET /video/{productId}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		Error(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	res, err := h.svc.Resolve(r.Context(), productID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to load video URL")
		return
	}

	resp := VideoResponse{
		ProductID: res.ProductID,
		Cached:    res.Cached,
		Source:    res.Source.String(),
	}
	if res.HasURL() {
		url := res.URL
		resp.VideoURL = &url
	}
	JSON(w, http.StatusOK, resp)
}

// Batch handles POST /videos/batch
func (h *VideoHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchVideosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductIDs == nil {
		Error(w, http.StatusBadRequest, "productIds must be an array")
		return
	}

	ids := make([]string, len(req.ProductIDs))
	for i, id := range req.ProductIDs {
		ids[i] = id.String()
	}

	JSON(w, http.StatusOK, BatchVideosResponse{
		Videos: h.svc.ResolveBatch(r.Context(), ids),
	})
}
