// Package httpapi assembles the forge-site HTTP surface: the Gin middleware
// chain, the store backends behind the services, and the public, dashboard
// and sign-in routes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/cdforge/forge-site/docs" // registers the OpenAPI document
	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/config"
	"github.com/cdforge/forge-site/internal/http/handlers"
	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. db always holds sessions and idempotency records; stores selects
// where reviews and orders live.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting unless LOG_REDACT=false)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Sessions: resolve the cookie to a user
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/session/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, stores Stores, am *auth.Manager, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	ordersPath := joinPath(apiBase, "/orders")

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging, with redaction of PII and OAuth parameters
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskParams: []string{"q"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Session cookie → signed-in user
	cookie := middleware.SessionCookie{
		Name:   cfg.Auth.CookieName,
		TTL:    cfg.Auth.SessionTTL,
		Secure: cfg.Auth.CookieSecure,
	}
	r.Use(middleware.Sessions(cookie, am.CurrentUser))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	idem := idempotencyStore{db: db}
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == ordersPath {
					return services.OrderScope
				}
				return ""
			},
		},
		func(ctx context.Context, subject, scope, key string, now time.Time) (bool, error) {
			_, found, err := idem.Lookup(ctx, subject, scope, key, now)
			return found, err
		},
	))

	// 9) Token-bucket rate limiter per user/session/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
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
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: true, // the session cookie rides along from the site
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

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← stores
	reviewSvc := services.NewReviewService(stores.Reviews)
	orderSvc := services.NewOrderService(stores.Orders, idem, cfg.IdempotencyTTL)
	dashSvc := services.NewDashboardService(stores.Orders)
	dashSvc.Observe = func(s receipt.Shape) { middleware.CountReceiptShape(string(s)) }

	h := handlers.New(reviewSvc, orderSvc, dashSvc, am, handlers.Options{
		Cookie:       cookie,
		Location:     cfg.Location,
		ReviewsLimit: cfg.ReviewsLimit,
	})
	r.SetHTMLTemplate(handlers.Templates())

	// Public API
	api := groupWithPrefix(r, apiBase)
	{
		// Reviews
		api.GET("/reviews", h.ListReviews)
		api.POST("/reviews", h.CreateReview)

		// Order intake
		api.POST("/orders", h.CreateOrder)

		// Static content
		api.GET("/about", h.About)
		api.GET("/services", h.Services)
	}

	// Dashboard API (bearer token)
	dash := api.Group("/dashboard", middleware.DashboardAuth(cfg.DashboardToken))
	{
		dash.GET("/orders", h.ListReceipts)
		dash.POST("/orders/import", h.ImportOrder)
		dash.GET("/orders/:id", h.GetReceipt)
	}

	// Dashboard page (token as bearer or ?token=)
	r.GET("/dashboard",
		middleware.DashboardAuth(cfg.DashboardToken),
		middleware.SecurityHeaders(middleware.SecurityOptions{NoStore: true, CSP: middleware.DashboardCSP}),
		h.DashboardPage,
	)

	// Sign-in
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/"+am.Provider().Name()+"/login", h.Login)
		authGroup.GET("/"+am.Provider().Name()+"/callback", h.Callback)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.Me)
		authGroup.POST("/cancel", h.CancelSignIn)
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

// joinPath appends p to a base path the way groupWithPrefix mounts it.
func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
