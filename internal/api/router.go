package api

import (
	"net/http"

	"github.com/commt/commitments/internal/api/handler"
	"github.com/commt/commitments/internal/api/middleware"
	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/metrics"
	"github.com/commt/commitments/internal/service"
	"github.com/commt/commitments/internal/ws"
	"github.com/gin-gonic/gin"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	AuthSvc        *service.AuthService
	CommitmentSvc  *service.CommitmentService
	MarketplaceSvc *service.MarketplaceService
	WizardSvc      *service.WizardService
	Balances       service.BalanceProvider
	Hub            *ws.Hub            // optional
	Metrics        *metrics.Collector // optional
	Cfg            *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS, and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(deps.Metrics.Middleware())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil && deps.Cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(deps.Metrics.GetHandler()))
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	commitmentH := handler.NewCommitmentHandler(deps.CommitmentSvc)
	marketplaceH := handler.NewMarketplaceHandler(deps.MarketplaceSvc)
	wizardH := handler.NewWizardHandler(deps.WizardSvc)
	walletH := handler.NewWalletHandler(deps.Balances, deps.Cfg)

	// ── JWT middleware (shared) ───────────────────────────────────────────────
	jwtMW := middleware.JWTMiddleware(deps.AuthSvc)

	// ── Rate limiters ─────────────────────────────────────────────────────────
	publicRL := middleware.RateLimitMiddleware(20) // per IP
	wizardRL := middleware.RateLimitMiddleware(30) // per user; PATCH fires on every keystroke

	api := r.Group("/api")
	{
		// ── Commitments (public) ─────────────────────────────────────────────
		commitments := api.Group("/commitments")
		commitments.Use(publicRL)
		{
			commitments.GET("/types", commitmentH.Types)
			commitments.GET("/:id", commitmentH.Get)
			commitments.GET("/:id/share", commitmentH.Share)
		}

		// ── Marketplace (public) ─────────────────────────────────────────────
		api.GET("/marketplace", publicRL, marketplaceH.List)

		// ── Authenticated routes ──────────────────────────────────────────────
		authed := api.Group("")
		authed.Use(jwtMW)
		{
			authed.GET("/wallet/balance", walletH.GetBalance)

			wizard := authed.Group("/wizard")
			wizard.Use(wizardRL)
			{
				wizard.POST("", wizardH.Start)
				wizard.GET("/:id", wizardH.Get)
				wizard.PATCH("/:id", wizardH.Update)
				wizard.POST("/:id/next", wizardH.Next)
				wizard.POST("/:id/back", wizardH.Back)
				wizard.POST("/:id/submit", wizardH.Submit)
				wizard.DELETE("/:id", wizardH.Discard)
			}
		}
	}

	// ── WebSocket ─────────────────────────────────────────────────────────────
	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// Outside production all origins are allowed; in production only the
// configured ALLOWED_ORIGINS.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.AllowedOrigins))
	for _, o := range cfg.Server.AllowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			// Development: allow any origin
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
