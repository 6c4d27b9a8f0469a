package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/listline/engine/api/handler"
	"github.com/listline/engine/internal/config"
	"github.com/listline/engine/internal/router"
	"github.com/listline/engine/internal/search"
	"github.com/listline/engine/internal/services/lifecycle"
	"github.com/listline/engine/pkg/httpcontext"
	"github.com/listline/engine/pkg/logger"
	"github.com/listline/engine/repository"
	boltRepo "github.com/listline/engine/repository/bolt"
	memoryRepo "github.com/listline/engine/repository/memory"
	redisRepo "github.com/listline/engine/repository/redis"
	"github.com/listline/engine/usecase/tasklist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	store, err := openStore(cfg, manager)
	if err != nil {
		zapLogger.Fatal("store initialization failed",
			zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	zapLogger.Info("store ready", zap.String("identity", store.IdentityTag()))

	engine := search.New(search.Options{
		IndexThreshold: cfg.Search.IndexThreshold,
		CacheSize:      cfg.Search.CacheSize,
		Ranked:         cfg.Search.Ranked,
	})

	model := tasklist.New(store, engine, zapLogger, tasklist.Config{
		StorageKey: cfg.Storage.Key,
	})
	if err := model.Load(appCtx); err != nil {
		zapLogger.Fatal("collection load failed", zap.Error(err))
	}
	zapLogger.Info("collection loaded", zap.Int("tasks", model.Len()))

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(model, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(model, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore builds the persistence adapter selected by configuration
// and registers its shutdown hook.
func openStore(cfg *config.Config, manager *lifecycle.Manager) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memoryRepo.New(), nil
	case "bolt":
		store, err := boltRepo.Open(cfg.Storage.BoltPath, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return store.Close()
		})
		return store, nil
	case "redis":
		client, err := redisRepo.Connect(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		manager.Register("redis", func(ctx context.Context) error {
			return client.Close()
		})
		return redisRepo.NewStore(client, ""), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
