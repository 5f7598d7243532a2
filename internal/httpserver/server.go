package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/nexcrm/lead-ingestion-service/internal/auth"
	"github.com/nexcrm/lead-ingestion-service/internal/config"
	"github.com/nexcrm/lead-ingestion-service/internal/handlers"
	"github.com/nexcrm/lead-ingestion-service/internal/leads"
	"github.com/nexcrm/lead-ingestion-service/internal/store"
)

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /webhook/whatsapp, /auth/google/callback
// Authenticated: /leads/:source, /auth/google
func NewRouter(
	cfg config.Config,
	st *store.PostgresStore,
	agg *leads.Aggregator,
	replier handlers.AutoReplier,
	oauthCfg *oauth2.Config,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Vendor-facing webhook endpoints authenticate via the handshake
	// token, not API keys.
	handlers.RegisterWebhookRoutes(r, cfg.WhatsAppVerifyToken, replier, st)

	// Auth group enforces tenant context via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterLeadRoutes(authGroup, agg, st)
	handlers.RegisterGoogleAuthRoutes(authGroup, r, oauthCfg)

	return r
}
