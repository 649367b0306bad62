package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inksign/inksign/internal/config"
	"github.com/inksign/inksign/internal/database"
	dochandler "github.com/inksign/inksign/internal/document/handler"
	"github.com/inksign/inksign/internal/document/repository"
	"github.com/inksign/inksign/internal/document/service"
	"github.com/inksign/inksign/internal/storage"
	"github.com/inksign/inksign/internal/tokens"
	"github.com/inksign/inksign/pkg/logger"
	"github.com/inksign/inksign/pkg/metrics"
	"github.com/inksign/inksign/pkg/middleware"
)

// Standalone document service. Serves only the document API; token issuance
// stays with the main binary, both sides share JWT_SECRET.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	var repo repository.Repository
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("failed to connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		repo = repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection("documents"))
	} else {
		repo = repository.NewMemoryRepo()
	}

	var store storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStore(&cfg.MinIO)
		if err != nil {
			logger.Fatalf("failed to initialize MinIO store: %v", err)
		}
		store = s
	} else {
		store = storage.NewMemoryStore()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	docSvc := service.New(repo, store)
	guard := middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret))
	dochandler.NewHandler(docSvc).Register(r, guard)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting document service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
