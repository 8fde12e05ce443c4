package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
)

func TestProductService_StoreAndFetchList(t *testing.T) {
	kv := newMockKeyValue()
	svc := NewProductService(kv, &mockProductRepository{}, newTestVideoService(newMockKeyValue(), &mockObjectStorage{}), DefaultProductServiceConfig())
	ctx := context.Background()

	list := json.RawMessage(`[{"id":1,"name":"Widget"}]`)
	if err := svc.StoreProductList(ctx, list); err != nil {
		t.Fatalf("StoreProductList failed: %v", err)
	}

	if ttl, _ := kv.ttl("product_list_with_videos"); ttl != 10*time.Minute {
		t.Errorf("TTL = %v, want 10m", ttl)
	}

	got, ok, err := svc.CachedProductList(ctx)
	if err != nil {
		t.Fatalf("CachedProductList failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cached list")
	}
	if string(got) != string(list) {
		t.Errorf("cached list = %s, want %s", got, list)
	}
}

func TestProductService_CachedProductList_Empty(t *testing.T) {
	svc := NewProductService(newMockKeyValue(), &mockProductRepository{}, newTestVideoService(newMockKeyValue(), &mockObjectStorage{}), DefaultProductServiceConfig())

	_, ok, err := svc.CachedProductList(context.Background())
	if err != nil {
		t.Fatalf("CachedProductList failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false when nothing is cached")
	}
}

func TestProductService_ListWithVideos_EnrichesAndCaches(t *testing.T) {
	kv := newMockKeyValue()
	repo := &mockProductRepository{
		listFn: func(ctx context.Context) ([]model.Product, error) {
			return []model.Product{
				{ID: 1, Name: "Widget", Price: 9.99},
				{ID: 2, Name: "Gadget", Price: 19.99},
			}, nil
		},
	}

	videoKV := newMockKeyValue()
	videoKV.data["video_url_1"] = testEmbedURL
	videoKV.data["video_url_2"] = "null"
	resolver := newTestVideoService(videoKV, &mockObjectStorage{})

	svc := NewProductService(kv, repo, resolver, DefaultProductServiceConfig())
	ctx := context.Background()

	products, cached, err := svc.ListWithVideos(ctx)
	if err != nil {
		t.Fatalf("ListWithVideos failed: %v", err)
	}
	if cached {
		t.Error("first listing should not be served from cache")
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].VideoURL == nil || *products[0].VideoURL != testEmbedURL {
		t.Errorf("products[0].VideoURL = %v, want %q", products[0].VideoURL, testEmbedURL)
	}
	if products[1].VideoURL != nil {
		t.Errorf("products[1].VideoURL = %q, want nil", *products[1].VideoURL)
	}

	// Second listing is served from cache without another database query.
	queries := repo.listCount.Load()
	_, cached, err = svc.ListWithVideos(ctx)
	if err != nil {
		t.Fatalf("second ListWithVideos failed: %v", err)
	}
	if !cached {
		t.Error("second listing should be served from cache")
	}
	if n := repo.listCount.Load(); n != queries {
		t.Errorf("database queried again on cached listing (%d -> %d)", queries, n)
	}
}

func TestProductService_ListWithVideos_CorruptCacheFallsBack(t *testing.T) {
	kv := newMockKeyValue()
	kv.data["product_list_with_videos"] = "{not json"

	repo := &mockProductRepository{
		listFn: func(ctx context.Context) ([]model.Product, error) {
			return []model.Product{{ID: 1, Name: "Widget"}}, nil
		},
	}

	svc := NewProductService(kv, repo, newTestVideoService(newMockKeyValue(), &mockObjectStorage{}), DefaultProductServiceConfig())

	products, cached, err := svc.ListWithVideos(context.Background())
	if err != nil {
		t.Fatalf("ListWithVideos failed: %v", err)
	}
	if cached {
		t.Error("corrupt cache must not be served")
	}
	if len(products) != 1 {
		t.Errorf("got %d products, want 1", len(products))
	}
}

func TestProductService_GetWithVideo(t *testing.T) {
	repo := &mockProductRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Product, error) {
			if id != 7 {
				return nil, repository.ErrProductNotFound
			}
			return &model.Product{ID: 7, Name: "Webcam", Price: 89.0}, nil
		},
	}

	videoKV := newMockKeyValue()
	videoKV.data["video_url_7"] = testEmbedURL
	svc := NewProductService(newMockKeyValue(), repo, newTestVideoService(videoKV, &mockObjectStorage{}), DefaultProductServiceConfig())
	ctx := context.Background()

	product, err := svc.GetWithVideo(ctx, 7)
	if err != nil {
		t.Fatalf("GetWithVideo failed: %v", err)
	}
	if product.ID != 7 || product.Name != "Webcam" {
		t.Errorf("product = %+v", product)
	}
	if product.VideoURL == nil || *product.VideoURL != testEmbedURL {
		t.Errorf("VideoURL = %v, want %q", product.VideoURL, testEmbedURL)
	}

	if _, err := svc.GetWithVideo(ctx, 999); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}
}

func TestProductService_GetWithVideo_NoVideo(t *testing.T) {
	repo := &mockProductRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Product, error) {
			return &model.Product{ID: 8, Name: "Cable"}, nil
		},
	}

	// The resolver finds nothing in cache, bulk table, or per-product file.
	svc := NewProductService(newMockKeyValue(), repo, newTestVideoService(newMockKeyValue(), &mockObjectStorage{}), DefaultProductServiceConfig())

	product, err := svc.GetWithVideo(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetWithVideo failed: %v", err)
	}
	if product.VideoURL != nil {
		t.Errorf("VideoURL = %q, want nil", *product.VideoURL)
	}
}
