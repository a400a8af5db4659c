package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radeya/internal/article"
	"radeya/internal/auth"
	"radeya/internal/config"
	"radeya/internal/db"
	"radeya/internal/httpapi"
	"radeya/internal/kaspi"
	"radeya/internal/marketsync"
	"radeya/internal/moysklad"
	"radeya/internal/service"
	"radeya/internal/storage"
	"radeya/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	blobs, filesDir, err := newBlobStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	loc, err := time.LoadLocation(cfg.SyncTimezone)
	if err != nil {
		log.Fatalf("load timezone %q: %v", cfg.SyncTimezone, err)
	}

	kaspiClient := kaspi.NewClient(kaspi.Config{
		APIURL:     cfg.KaspiAPIURL,
		ShopAPIURL: cfg.KaspiShopAPIURL,
		Token:      cfg.KaspiAPIToken,
		HTTPClient: &http.Client{Timeout: cfg.KaspiTimeout},
	})
	moyskladClient := moysklad.NewClient(moysklad.Config{
		BaseURL:    cfg.MoySkladBaseURL,
		Login:      cfg.MoySkladLogin,
		Password:   cfg.MoySkladPassword,
		HTTPClient: &http.Client{Timeout: cfg.MoySkladTimeout},
	})

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	allocator := article.NewAllocator(st, cfg.ArticleMaxRejections, nil)

	svc := service.New(
		service.Deps{
			Users:      st,
			Products:   st,
			Orders:     st,
			Accounting: st,
			Importer:   kaspiClient,
			Articles:   allocator,
			Blobs:      blobs,
			Tokens:     tokens,
		},
		service.Config{
			Location:        loc,
			UploadKeyPrefix: cfg.S3KeyPrefix,
			MaxUploadBytes:  cfg.MaxUploadBytes,
		},
		log.Default(),
	)
	if cfg.BootstrapDefaults {
		if err := svc.EnsureAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	retry := marketsync.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	}
	runner := marketsync.NewRunner(
		marketsync.NewOrderSyncer(kaspiClient, st, marketsync.OrderSyncerConfig{
			PageSize:    cfg.SyncPageSize,
			Concurrency: cfg.SyncConcurrency,
			WindowSpan:  cfg.SyncWindowSpan,
			Retry:       retry,
		}, log.Default()),
		marketsync.NewCatalogSyncer(moyskladClient, st, marketsync.CatalogSyncerConfig{
			PageSize:           cfg.SyncPageSize,
			Concurrency:        cfg.SyncConcurrency,
			Retry:              retry,
			ImageFetchInterval: cfg.ImageFetchInterval,
		}, log.Default()),
		marketsync.NewCategorySyncer(kaspiClient, st, retry, log.Default()),
		marketsync.RunnerConfig{OrderLookback: cfg.SyncLookback},
		log.Default(),
	)

	worker := marketsync.NewWorker(runner, marketsync.WorkerConfig{
		Enabled:      cfg.SyncEnabled,
		StartupDelay: cfg.SyncDelay,
		Interval:     cfg.SyncInterval,
	}, log.Default())
	go worker.Run(ctx)

	syncTrigger := httpapi.NewSyncTrigger(runner, log.Default())

	api := httpapi.New(cfg, svc, tokens, syncTrigger, filesDir)
	echoServer := api.NewEcho()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      echoServer,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
		os.Exit(1)
	}
}

// newBlobStorage picks object storage when a bucket is configured, local disk
// otherwise. filesDir is non-empty only for the local store so the server
// knows to serve /files itself.
func newBlobStorage(ctx context.Context, cfg config.Config) (storage.BlobStorage, string, error) {
	if cfg.UseS3() {
		s3Store, err := storage.NewS3BlobStore(ctx, storage.S3Options{
			Endpoint:    cfg.S3Endpoint,
			Region:      cfg.S3Region,
			Bucket:      cfg.S3Bucket,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	}

	local, err := storage.NewLocalBlobStore(cfg.StorageRoot, "/files")
	if err != nil {
		return nil, "", err
	}
	return local, local.Root(), nil
}
