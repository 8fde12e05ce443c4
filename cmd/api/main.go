package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cloudcar/shopcache/internal/api/handler"
	"github.com/cloudcar/shopcache/internal/api/middleware"
	"github.com/cloudcar/shopcache/internal/config"
	"github.com/cloudcar/shopcache/internal/infrastructure/cache"
	"github.com/cloudcar/shopcache/internal/infrastructure/postgres"
	"github.com/cloudcar/shopcache/internal/infrastructure/storage"
	"github.com/cloudcar/shopcache/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	kv := cache.NewRedisKV(redisClient, cfg.Redis.OpTimeout)
	if err := kv.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connected", slog.String("addr", cfg.Redis.Addr()))

	objectStore, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
		OpTimeout: cfg.MinIO.OpTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to object storage: %w", err)
	}
	logger.Info("object storage connected", slog.String("bucket", cfg.MinIO.Bucket))

	db, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	videoSvc := usecase.NewVideoService(kv, objectStore, usecase.VideoServiceConfig{
		URLCacheTTL:      cfg.Cache.VideoURLTTL,
		ErrorCacheTTL:    cfg.Cache.VideoErrorTTL,
		MappingsCacheTTL: cfg.Cache.MappingsTTL,
		MappingsObject:   "videos.json",
		BatchConcurrency: cfg.Cache.BatchConcurrency,
	})

	cartSvc := usecase.NewCartService(cache.NewRedisCartStore(redisClient, cfg.Redis.OpTimeout))

	productSvc := usecase.NewProductService(kv, postgres.NewProductRepository(db.Pool()), videoSvc, usecase.ProductServiceConfig{
		ListCacheTTL: cfg.Cache.ProductListTTL,
	})

	r := setupRouter(logger, kv, objectStore, videoSvc, cartSvc, productSvc, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	kv *cache.RedisKV,
	objectStore *storage.Client,
	videoSvc usecase.VideoService,
	cartSvc usecase.CartService,
	productSvc usecase.ProductService,
	cfg *config.Config,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	healthHandler := handler.NewHealthHandler(kv, objectStore)
	videoHandler := handler.NewVideoHandler(videoSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	cacheHandler := handler.NewCacheHandler(productSvc, videoSvc, cfg.Cache.ProductListTTL)
	productHandler := handler.NewProductHandler(productSvc)

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/video/{productId}", videoHandler.Get)
	r.Post("/videos/batch", videoHandler.Batch)
	r.Get("/products", productHandler.List)
	r.Get("/products/{productId}", productHandler.Get)

	r.Route("/cache", func(r chi.Router) {
		r.Post("/products", cacheHandler.StoreProducts)
		r.Get("/products", cacheHandler.GetProducts)
		r.Post("/clear-videos", cacheHandler.ClearVideos)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/add", cartHandler.Add)
		r.Get("/{sessionId}", cartHandler.Get)
		r.Post("/remove", cartHandler.Remove)
		r.Post("/update", cartHandler.Update)
	})

	return r
}
