package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
	"github.com/cloudcar/shopcache/internal/infrastructure/cache"
)

// productListKey holds the cached product list, enriched with video URLs.
// Shared between the opaque cache endpoints and the catalog listing.
const productListKey = "product_list_with_videos"

// ProductService defines the interface for product list caching and the
// video-enriched catalog listing.
type ProductService interface {
	// StoreProductList caches an opaque product list document.
	StoreProductList(ctx context.Context, list json.RawMessage) error

	// CachedProductList returns the cached product list document.
	// Returns ok=false when nothing is cached.
	CachedProductList(ctx context.Context) (list json.RawMessage, ok bool, err error)

	// ListWithVideos returns the catalog enriched with resolved video URLs,
	// served from cache when a valid copy exists. cached reports whether the
	// database was skipped.
	ListWithVideos(ctx context.Context) (products []model.ProductWithVideo, cached bool, err error)

	// GetWithVideo returns a single product with its resolved video URL.
	// Returns repository.ErrProductNotFound when the product does not exist.
	GetWithVideo(ctx context.Context, id int64) (*model.ProductWithVideo, error)
}

// ProductServiceConfig holds configuration for ProductService.
type ProductServiceConfig struct {
	// ListCacheTTL applies to the cached product list.
	ListCacheTTL time.Duration
}

// DefaultProductServiceConfig returns the default configuration.
func DefaultProductServiceConfig() ProductServiceConfig {
	return ProductServiceConfig{
		ListCacheTTL: 10 * time.Minute,
	}
}

type productService struct {
	kv       cache.KeyValue
	repo     repository.ProductRepository
	resolver VideoService

	listCacheTTL time.Duration
}

// NewProductService creates a new ProductService instance.
func NewProductService(kv cache.KeyValue, repo repository.ProductRepository, resolver VideoService, cfg ProductServiceConfig) ProductService {
	return &productService{
		kv:           kv,
		repo:         repo,
		resolver:     resolver,
		listCacheTTL: cfg.ListCacheTTL,
	}
}

func (s *productService) StoreProductList(ctx context.Context, list json.RawMessage) error {
	if err := s.kv.Set(ctx, productListKey, string(list), s.listCacheTTL); err != nil {
		return fmt.Errorf("cache product list: %w", err)
	}
	return nil
}

func (s *productService) CachedProductList(ctx context.Context) (json.RawMessage, bool, error) {
	value, hit, err := s.kv.Get(ctx, productListKey)
	if err != nil {
		return nil, false, fmt.Errorf("read cached product list: %w", err)
	}
	if !hit {
		return nil, false, nil
	}
	return json.RawMessage(value), true, nil
}

func (s *productService) ListWithVideos(ctx context.Context) ([]model.ProductWithVideo, bool, error) {
	value, hit, err := s.kv.Get(ctx, productListKey)
	if err != nil {
		slog.Warn("product list cache read failed, querying database", "error", err)
	}
	if hit {
		var products []model.ProductWithVideo
		if err := json.Unmarshal([]byte(value), &products); err != nil {
			slog.Warn("cached product list is corrupt, querying database", "error", err)
		} else {
			return products, true, nil
		}
	}

	catalog, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list products: %w", err)
	}

	ids := make([]string, len(catalog))
	for i, p := range catalog {
		ids[i] = strconv.FormatInt(p.ID, 10)
	}
	urls := s.resolver.ResolveBatch(ctx, ids)

	products := make([]model.ProductWithVideo, len(catalog))
	for i, p := range catalog {
		products[i] = model.ProductWithVideo{
			Product:  p,
			VideoURL: urls[ids[i]],
		}
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.kv.Set(ctx, productListKey, string(data), s.listCacheTTL); err != nil {
			slog.Warn("failed to cache product list", "error", err)
		}
	}

	return products, false, nil
}

func (s *productService) GetWithVideo(ctx context.Context, id int64) (*model.ProductWithVideo, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	// A failed resolution degrades to a product without a video, same as in
	// the enriched listing.
	enriched := &model.ProductWithVideo{Product: *product}
	res, err := s.resolver.Resolve(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		slog.Warn("video resolution failed for product detail",
			"product_id", id,
			"error", err,
		)
		return enriched, nil
	}
	if res.HasURL() {
		url := res.URL
		enriched.VideoURL = &url
	}
	return enriched, nil
}
