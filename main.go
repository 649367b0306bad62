package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inksign/inksign/handlers"
	"github.com/inksign/inksign/internal/config"
	"github.com/inksign/inksign/internal/database"
	"github.com/inksign/inksign/internal/document"
	dochandler "github.com/inksign/inksign/internal/document/handler"
	"github.com/inksign/inksign/internal/document/repository"
	"github.com/inksign/inksign/internal/document/service"
	"github.com/inksign/inksign/internal/sessions"
	"github.com/inksign/inksign/internal/storage"
	"github.com/inksign/inksign/internal/tokens"
	"github.com/inksign/inksign/internal/users"
	"github.com/inksign/inksign/pkg/logger"
	"github.com/inksign/inksign/pkg/metrics"
	"github.com/inksign/inksign/pkg/middleware"
)

var startTime = time.Now()

// guardedPages are the browser routes that require a token to be present.
var guardedPages = []string{"/dashboard", "/upload", "/sign"}

func main() {
	// log level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx := context.Background()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond
	// to OPTIONS. Production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter and the logout blacklist can
	// use it when configured.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			sessions.SetBlacklistClient(rdb)
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Page gate: unauthenticated visits to guarded pages bounce to /login.
	// Presence-only, verification happens on the API routes.
	r.Use(middleware.RouteGate(guardedPages, "/login"))

	// User directory: MongoDB when configured, otherwise the built-in demo
	// directory. Mongo connection retries with backoff to tolerate startup races.
	var mongoClient *mongo.Client
	var userRepo users.Repository
	var docRepo repository.Repository
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts, falling back to in-memory stores: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			userRepo = users.NewMongoRepository(db.Collection("users"))
			docRepo = repository.NewMongoRepo(db.Collection("documents"))
			logger.Infof("using MongoDB for users and documents: %s", cfg.MongoDB.Database)
		}
	}

	// Object storage: MinIO when configured, otherwise in-memory.
	var store storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStore(&cfg.MinIO)
		if err != nil {
			logger.Warnf("failed to initialize MinIO store, falling back to in-memory storage: %v", err)
		} else {
			store = s
			logger.Infof("using MinIO object storage: %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	if userRepo == nil {
		seed, err := users.SeedUsers()
		if err != nil {
			logger.Fatalf("failed to seed user directory: %v", err)
		}
		userRepo = users.NewMemoryRepository(seed)
		logger.Infof("using built-in demo user directory (%d users)", len(seed))
	}
	if docRepo == nil {
		mem := repository.NewMemoryRepo()
		seedDocuments(ctx, mem, store)
		docRepo = mem
	}

	userSvc := users.NewService(userRepo, users.BcryptVerifier{})
	docSvc := service.New(docRepo, store)
	verifier := tokens.NewVerifier(cfg.JWT.Secret)

	handlers.NewAuthHandler(cfg, userSvc).Register(&r.RouterGroup)
	dochandler.NewHandler(docSvc).Register(r, middleware.AuthMiddleware(verifier))
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the configured dependencies are reachable
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if cfg.MongoDB.URI != "" {
			ok := mongoClient != nil && mongoClient.Ping(c.Request.Context(), nil) == nil
			deps["mongodb"] = ok
			ready = ready && ok
		}
		if cfg.Redis.Host != "" {
			ok := rdb != nil && rdb.Ping(c.Request.Context()).Err() == nil
			deps["redis"] = ok
			ready = ready && ok
		}

		status := gin.H{"deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))}
		if !ready {
			status["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		c.JSON(http.StatusOK, status)
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting inksign on %s (env=%s)", addr, cfg.Server.Environment)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// seedDocuments provisions the demo documents and their placeholder PDF bytes.
func seedDocuments(ctx context.Context, repo repository.Repository, store storage.ObjectStore) {
	for _, d := range document.SeedDocuments() {
		content := []byte("%PDF-1.4\n% " + d.Filename + "\n%%EOF\n")
		d.Size = int64(len(content))
		if err := store.Upload(ctx, d.StorageKey, bytes.NewReader(content), d.Size, "application/pdf"); err != nil {
			logger.Warnf("failed to seed object %s: %v", d.StorageKey, err)
			continue
		}
		if _, err := repo.Create(ctx, d); err != nil {
			logger.Warnf("failed to seed document %s: %v", d.ID, err)
		}
	}
	logger.Infof("seeded demo documents")
}
