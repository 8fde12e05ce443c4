package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudcar/shopcache/internal/usecase"
)

// Request/Response types

type StoreProductsRequest struct {
	Products json.RawMessage `json:"products"`
}

type StoreProductsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TTL     int64  `json:"ttl"`
}

type CachedProductsResponse struct {
	Products json.RawMessage `json:"products"`
	Cached   bool            `json:"cached"`
	Source   string          `json:"source"`
}

type ClearVideosRequest struct {
	ProductID ClearTarget `json:"productId"`
}

// ClearTarget is a product ID for cache clearing. Cached video keys are
// derived from path parameters, so targets may be arbitrary strings as well
// as the numeric IDs catalog clients send.
type ClearTarget string

func (t *ClearTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ClearTarget(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("productId must be a string or number")
	}
	*t = ClearTarget(n.String())
	return nil
}

type ClearVideosResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CacheHandler handles the cache administration endpoints.
type CacheHandler struct {
	products usecase.ProductService
	videos   usecase.VideoService
	listTTL  time.Duration
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(products usecase.ProductService, videos usecase.VideoService, listTTL time.Duration) *CacheHandler {
	return &CacheHandler{
		products: products,
		videos:   videos,
		listTTL:  listTTL,
	}
}

// StoreProducts handles POST /cache/products
func (h *CacheHandler) StoreProducts(w http.ResponseWriter, r *http.Request) {
	var req StoreProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !isJSONArray(req.Products) {
		Error(w, http.StatusBadRequest, "products must be an array")
		return
	}

	if err := h.products.StoreProductList(r.Context(), req.Products); err != nil {
		Error(w, http.StatusInternalServerError, "Failed to cache product list")
		return
	}

	JSON(w, http.StatusOK, StoreProductsResponse{
		Success: true,
		Message: "Product list cached successfully",
		TTL:     int64(h.listTTL.Seconds()),
	})
}

// GetProducts handles GET /cache/products
func (h *CacheHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	list, ok, err := h.products.CachedProductList(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to fetch cached product list")
		return
	}

	if !ok {
		JSON(w, http.StatusOK, CachedProductsResponse{
			Products: json.RawMessage("null"),
			Cached:   false,
			Source:   "not_cached",
		})
		return
	}

	JSON(w, http.StatusOK, CachedProductsResponse{
		Products: list,
		Cached:   true,
		Source:   "cache",
	})
}

// ClearVideos handles POST /cache/clear-videos
func (h *CacheHandler) ClearVideos(w http.ResponseWriter, r *http.Request) {
	// An empty body is allowed and clears everything. A malformed body is
	// rejected: it must never widen a targeted clear into a full wipe.
	var req ClearVideosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		Error(w, http.StatusBadRequest, "productId must be a string or number")
		return
	}
	productID := string(req.ProductID)

	if err := h.videos.ClearCache(r.Context(), productID); err != nil {
		Error(w, http.StatusInternalServerError, "Failed to clear video cache")
		return
	}

	message := "Cleared all video caches"
	if productID != "" {
		message = fmt.Sprintf("Cleared cache for product %s", productID)
	}
	JSON(w, http.StatusOK, ClearVideosResponse{
		Success: true,
		Message: message,
	})
}

// isJSONArray reports whether raw holds a JSON array.
func isJSONArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return c == '['
		}
	}
	return false
}
