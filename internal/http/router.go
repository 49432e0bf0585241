// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, rate limiting, and the admin session gate.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Public feed reads stay anonymous; catalog writes sit behind the gate
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-bookfeed-backend/internal/config"
	"github.com/tbourn/go-bookfeed-backend/internal/domain"
	"github.com/tbourn/go-bookfeed-backend/internal/http/handlers"
	"github.com/tbourn/go-bookfeed-backend/internal/http/middleware"
	"github.com/tbourn/go-bookfeed-backend/internal/repo"
	"github.com/tbourn/go-bookfeed-backend/internal/services"
	"github.com/tbourn/go-bookfeed-backend/internal/session"
	"github.com/tbourn/go-bookfeed-backend/internal/widget"
)

// bookRepoShim adapts the repository free functions to the services.BookRepo
// interface expected by the BookService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type bookRepoShim struct{}

// CreateBook proxies repo.CreateBook.
func (bookRepoShim) CreateBook(ctx context.Context, db *gorm.DB, title, marketplaceURL, endorsementURL, catalogID string) (*domain.Book, error) {
	return repo.CreateBook(ctx, db, title, marketplaceURL, endorsementURL, catalogID)
}

// ListBooks proxies repo.ListBooks.
func (bookRepoShim) ListBooks(ctx context.Context, db *gorm.DB) ([]domain.Book, error) {
	return repo.ListBooks(ctx, db)
}

// GetBook proxies repo.GetBook.
func (bookRepoShim) GetBook(ctx context.Context, db *gorm.DB, id string) (*domain.Book, error) {
	return repo.GetBook(ctx, db, id)
}

// UpdateBook proxies repo.UpdateBook.
func (bookRepoShim) UpdateBook(ctx context.Context, db *gorm.DB, id, title, marketplaceURL, endorsementURL, catalogID string) error {
	return repo.UpdateBook(ctx, db, id, title, marketplaceURL, endorsementURL, catalogID)
}

// DeleteBook proxies repo.DeleteBook.
func (bookRepoShim) DeleteBook(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteBook(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLogger: structured logs with credential masking
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP)
//  8. CORS and security headers
//  9. Gzip compression for responses
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.AccessLogger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORS.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag"},
			// Credentials so the admin session cookie works cross-origin
			// against an explicit allowlist.
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 9) Compress responses (embed markup in particular benefits)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/widget/sessions
	bookSvc := services.NewBookService(db, bookRepoShim{})

	var cache *services.EmbedCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = services.NewEmbedCache(rdb, cfg.Redis.EmbedCacheTTL)
	}
	oembed := widget.NewOEmbedClient(cfg.Widget.OEmbedURL, cfg.Widget.HTTPTimeout)
	embedSvc := services.NewEmbedService(oembed, cache, cfg.Widget.PollInterval, cfg.Widget.ReadyTimeout)

	sessions := session.NewStore(cfg.SessionTTL)
	gateSvc := services.NewGateService(cfg.AdminPassword, sessions)

	h := handlers.New(bookSvc, embedSvc, gateSvc).
		WithBookStats(func(ctx context.Context) (int64, *time.Time, error) {
			return repo.BooksStats(ctx, db)
		})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Feed (anonymous)
		api.GET("/books", h.ListBooks)
		api.GET("/books/:id/embed", h.GetBookEmbed)

		// Gate
		api.POST("/auth/admin", h.AdminLogin)

		// Catalog administration (session required)
		admin := api.Group("", middleware.RequireSession(gateSvc))
		{
			admin.POST("/books", h.CreateBook)
			admin.PUT("/books/:id", h.UpdateBook)
			admin.DELETE("/books/:id", h.DeleteBook)
			admin.POST("/auth/logout", h.AdminLogout)
		}
	}

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
