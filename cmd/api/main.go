package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fintrustai/compliance-copilot/internal/application"
	appanalysis "github.com/fintrustai/compliance-copilot/internal/application/analysis"
	"github.com/fintrustai/compliance-copilot/internal/config"
	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
	aiopenai "github.com/fintrustai/compliance-copilot/internal/infra/ai/openai"
	"github.com/fintrustai/compliance-copilot/internal/infra/httpserver"
	"github.com/fintrustai/compliance-copilot/internal/infra/oauthstate"
	minioStore "github.com/fintrustai/compliance-copilot/internal/infra/storage"
	"github.com/fintrustai/compliance-copilot/internal/infra/vanta"
	"github.com/fintrustai/compliance-copilot/internal/logger"
	"github.com/fintrustai/compliance-copilot/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.KMSKeyID,
		cfg.App.Name,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// oauth state store, redis when configured
	var states compliance.StateStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis connect error: %v", err)
		}
		states = oauthstate.NewRedis(rdb, cfg.StateTTL())
	} else {
		zlog.Warn("redis not configured, oauth state kept in memory")
		states = oauthstate.NewMemory(cfg.StateTTL())
	}

	// init vanta
	vantaClient := vanta.NewClient(
		cfg.Vanta.BaseURL,
		cfg.Vanta.ClientID,
		cfg.Vanta.ClientSecret,
		cfg.Vanta.RedirectURI,
		0,
	)
	var gate compliance.Gate
	if cfg.App.BypassCompliance {
		zlog.Warn("compliance gate bypassed, debug mode only")
		gate = compliance.BypassGate{}
	} else {
		gate = vanta.NewLiveGate(vantaClient)
	}

	// init model client
	model := aiopenai.NewClient(
		cfg.Model.APIKey,
		cfg.Model.Name,
		cfg.Model.MaxTokens,
		cfg.Model.Temperature,
		cfg.ModelTimeout(),
	)

	// init service
	svc := &appanalysis.Service{
		Gate:      gate,
		Model:     model,
		Artifacts: store,
		Audit:     store,
		Clock:     application.SystemClock{},
		Log:       zlog,
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis:    svc,
		Vanta:       vantaClient,
		States:      states,
		Artifacts:   store,
		Trail:       store,
		AuthSecret:  []byte(cfg.Auth.SecretKey),
		TokenTTL:    cfg.TokenTTL(),
		ModelName:   cfg.Model.Name,
		ServiceName: cfg.App.Name,
		Health: map[string]middleware.HealthChecker{
			"storage": middleware.CheckerFunc(store.Health),
		},
		Log: zlog,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zlog.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
