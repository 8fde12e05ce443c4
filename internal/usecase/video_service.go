package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
	"github.com/cloudcar/shopcache/internal/embedurl"
	"github.com/cloudcar/shopcache/internal/infrastructure/cache"
	"github.com/cloudcar/shopcache/internal/infrastructure/metrics"
)

const (
	// videoURLKeyPrefix is the prefix for per-product video URL cache keys.
	videoURLKeyPrefix = "video_url_"

	// mappingsKey holds the cached parse of the bulk videos.json document.
	mappingsKey = "videos_json_mappings"

	// nullSentinel marks a confirmed "no video" result in the cache,
	// distinguishing it from "never looked up".
	nullSentinel = "null"
)

// VideoService defines the interface for video URL resolution.
type VideoService interface {
	// Resolve looks up the embeddable video URL for a product, consulting the
	// cache first and falling back to the bulk mapping table and the
	// per-product file in object storage. Negative results are cached too.
	Resolve(ctx context.Context, productID string) (*model.Resolution, error)

	// ResolveBatch resolves several products with bounded concurrency.
	// Each entry is independent: a failed resolution yields a nil URL and
	// never fails the batch.
	ResolveBatch(ctx context.Context, productIDs []string) map[string]*string

	// ClearCache removes cached video data. With a product ID only that
	// product's key is removed; with an empty ID every per-product key plus
	// the bulk mapping table and cached product list are removed.
	ClearCache(ctx context.Context, productID string) error
}

// VideoServiceConfig holds configuration for the resolver.
type VideoServiceConfig struct {
	// URLCacheTTL applies to resolved URLs and confirmed-absent results.
	URLCacheTTL time.Duration
	// ErrorCacheTTL applies to negative results written after an unexpected
	// lookup error. Shorter than URLCacheTTL: errors are transient, absence
	// is stable.
	ErrorCacheTTL time.Duration
	// MappingsCacheTTL applies to the cached bulk mapping table.
	MappingsCacheTTL time.Duration
	// MappingsObject is the object storage key of the bulk mapping document.
	MappingsObject string
	// BatchConcurrency bounds the fan-out of ResolveBatch.
	BatchConcurrency int
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		URLCacheTTL:      6 * time.Hour,
		ErrorCacheTTL:    30 * time.Minute,
		MappingsCacheTTL: 10 * time.Minute,
		MappingsObject:   "videos.json",
		BatchConcurrency: 4,
	}
}

type videoService struct {
	kv      cache.KeyValue
	storage repository.ObjectStorage
	sfGroup singleflight.Group

	urlCacheTTL      time.Duration
	errorCacheTTL    time.Duration
	mappingsCacheTTL time.Duration
	mappingsObject   string
	batchConcurrency int
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(kv cache.KeyValue, storage repository.ObjectStorage, cfg VideoServiceConfig) VideoService {
	return &videoService{
		kv:               kv,
		storage:          storage,
		urlCacheTTL:      cfg.URLCacheTTL,
		errorCacheTTL:    cfg.ErrorCacheTTL,
		mappingsCacheTTL: cfg.MappingsCacheTTL,
		mappingsObject:   cfg.MappingsObject,
		batchConcurrency: cfg.BatchConcurrency,
	}
}

// Resolve implements the cache-aside resolution pipeline.
// Uses singleflight to coalesce concurrent resolutions of the same product.
func (s *videoService) Resolve(ctx context.Context, productID string) (*model.Resolution, error) {
	result, err, shared := s.sfGroup.Do(productID, func() (any, error) {
		return s.resolve(ctx, productID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.(*model.Resolution), nil
}

func (s *videoService) resolve(ctx context.Context, productID string) (*model.Resolution, error) {
	key := videoURLKeyPrefix + productID

	// Cache hit is the only branch reached on repeat queries within the TTL
	// window. The sentinel deserializes to "no video".
	value, hit, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("video url cache read failed, treating as miss",
			"product_id", productID,
			"error", err,
		)
	}
	if hit {
		res := &model.Resolution{ProductID: productID, Cached: true, Source: model.SourceCache}
		if value != nullSentinel {
			res.URL = value
		}
		metrics.VideoResolutionsTotal.WithLabelValues(model.SourceCache.String()).Inc()
		return res, nil
	}

	url, source, lookupErr := s.lookup(ctx, productID)

	// Write-back is always attempted, for negative results too, so a
	// permanently-absent product is looked up once per TTL window instead of
	// on every request. Unexpected lookup errors get the short TTL.
	cacheValue := url
	ttl := s.urlCacheTTL
	if url == "" {
		cacheValue = nullSentinel
		if lookupErr != nil {
			ttl = s.errorCacheTTL
		}
	}
	if err := s.kv.Set(ctx, key, cacheValue, ttl); err != nil {
		slog.Warn("failed to write video url cache",
			"product_id", productID,
			"error", err,
		)
	}

	if url == "" && lookupErr != nil {
		return nil, fmt.Errorf("resolve video url for product %s: %w", productID, lookupErr)
	}

	metrics.VideoResolutionsTotal.WithLabelValues(source.String()).Inc()
	return &model.Resolution{ProductID: productID, URL: url, Cached: false, Source: source}, nil
}

// lookup runs the bulk-table and per-product-file fallbacks, returning the
// normalized URL if one was found. lookupErr records any unexpected failure
// along the way; a clean "not found" leaves it nil.
func (s *videoService) lookup(ctx context.Context, productID string) (url string, source model.Source, lookupErr error) {
	table, err := s.mappingTable(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrObjectNotFound) {
			lookupErr = err
		}
		slog.Warn("bulk mapping table unavailable, falling back to per-product file",
			"product_id", productID,
			"error", err,
		)
	}
	if entry, ok := table[productID]; ok && entry.VideoURL != "" {
		if normalized, ok := embedurl.Normalize(entry.VideoURL); ok {
			return normalized, model.SourceBulkTable, lookupErr
		}
	}

	data, err := s.storage.Fetch(ctx, fallbackObjectKey(productID))
	if err != nil {
		if !errors.Is(err, repository.ErrObjectNotFound) {
			lookupErr = err
		}
		return "", model.SourceNotFound, lookupErr
	}
	if normalized, ok := embedurl.Normalize(strings.TrimSpace(string(data))); ok {
		return normalized, model.SourceSingleFile, lookupErr
	}

	return "", model.SourceNotFound, lookupErr
}

// mappingTable returns the bulk mapping table, cached for MappingsCacheTTL.
func (s *videoService) mappingTable(ctx context.Context) (model.VideoMappingTable, error) {
	cached, hit, err := s.kv.Get(ctx, mappingsKey)
	if err != nil {
		slog.Warn("mappings cache read failed, fetching from storage", "error", err)
	}
	if hit {
		var table model.VideoMappingTable
		if err := json.Unmarshal([]byte(cached), &table); err != nil {
			slog.Warn("cached mapping table is corrupt, refetching", "error", err)
		} else {
			return table, nil
		}
	}

	data, err := s.storage.Fetch(ctx, s.mappingsObject)
	if err != nil {
		return nil, fmt.Errorf("fetch mapping document: %w", err)
	}

	var table model.VideoMappingTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse mapping document: %w", err)
	}

	if err := s.kv.Set(ctx, mappingsKey, string(data), s.mappingsCacheTTL); err != nil {
		slog.Warn("failed to cache mapping table", "error", err)
	}

	return table, nil
}

// ResolveBatch fans out per-product resolutions with bounded concurrency.
func (s *videoService) ResolveBatch(ctx context.Context, productIDs []string) map[string]*string {
	results := make([]*string, len(productIDs))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)

	for i, productID := range productIDs {
		g.Go(func() error {
			res, err := s.Resolve(ctx, productID)
			if err != nil {
				slog.Warn("batch video resolution failed",
					"product_id", productID,
					"error", err,
				)
				return nil
			}
			if res.HasURL() {
				url := res.URL
				results[i] = &url
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]*string, len(productIDs))
	for i, productID := range productIDs {
		out[productID] = results[i]
	}
	return out
}

// ClearCache removes cached video data.
func (s *videoService) ClearCache(ctx context.Context, productID string) error {
	if productID != "" {
		if err := s.kv.Delete(ctx, videoURLKeyPrefix+productID); err != nil {
			return fmt.Errorf("clear video cache for product %s: %w", productID, err)
		}
		return nil
	}

	deleted, err := s.kv.DeleteByPrefix(ctx, videoURLKeyPrefix)
	if err != nil {
		return fmt.Errorf("clear video url cache: %w", err)
	}
	if err := s.kv.Delete(ctx, mappingsKey, productListKey); err != nil {
		return fmt.Errorf("clear video mapping cache: %w", err)
	}

	slog.Info("cleared video caches", "deleted_url_keys", deleted)
	return nil
}

// fallbackObjectKey names the per-product fallback document.
// Format: product{ID}.txt
func fallbackObjectKey(productID string) string {
	return "product" + productID + ".txt"
}
