package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/VitaminP8/blogql/graph"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/config"
	"github.com/VitaminP8/blogql/internal/dataloader"
	"github.com/VitaminP8/blogql/internal/logging"
	"github.com/VitaminP8/blogql/internal/seed"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/VitaminP8/blogql/internal/storage/sqlite"
	"github.com/VitaminP8/blogql/internal/subscription"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := openStorage(cfg, log)
	if err != nil {
		log.Error("failed to open storage", zap.Error(err))
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info("storage ready", zap.String("storage", cfg.Storage))

	if err := seedStorage(ctx, cfg, store, log); err != nil {
		log.Error("failed to seed storage", zap.Error(err))
		return err
	}

	resolver := graph.NewResolver(
		store,
		subscription.NewSubscriptionManager[*model.Post](cfg.SubscriptionBuffer, log),
		subscription.NewSubscriptionManager[*model.Comment](cfg.SubscriptionBuffer, log),
		log,
	)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     newRouter(cfg, store, resolver, log),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", "http://localhost:"+cfg.Port+"/"))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
	}

	return nil
}

func openStorage(cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewMemoryStorage(log), nil
	case config.StorageSQLite:
		store, err := sqlite.Open(log, log.Core().Enabled(zap.DebugLevel))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage)
	}
}

func seedStorage(ctx context.Context, cfg *config.Config, store storage.Storage, log *zap.Logger) error {
	if !cfg.Seed {
		return nil
	}

	var fx *seed.Fixture
	var err error
	if cfg.SeedFile != "" {
		fx, err = seed.LoadFile(cfg.SeedFile)
	} else {
		fx, err = seed.Default()
	}
	if err != nil {
		return err
	}

	res, err := seed.Apply(ctx, store, fx)
	if err != nil {
		return err
	}

	log.Info("demo data loaded",
		zap.Int("users", len(res.Users)),
		zap.Int("posts", len(res.Posts)),
		zap.Int("comments", len(res.Comments)),
	)
	return nil
}

func newRouter(cfg *config.Config, store storage.Storage, resolver *graph.Resolver, log *zap.Logger) http.Handler {
	origins := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(log.Named("http")),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)
	router.Use(origins.Handler)

	router.Handle("/", playground.Handler("blogql", "/query"))
	router.Handle("/query", dataloader.Middleware(store, graph.NewHandler(resolver, origins)))

	return router
}
