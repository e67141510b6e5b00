package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kuank/studychat-server/internal/auth"
	"github.com/kuank/studychat-server/internal/config"
	"github.com/kuank/studychat-server/internal/core"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Online int    `json:"online"`
}

// NewServer builds the HTTP server: auth endpoints, health check, websocket.
func NewServer(hub *core.Hub, resolver *core.Resolver, authService *auth.Service, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger), CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, HealthResponse{
			Status: "ok",
			Online: hub.Presence().Count(),
		})
	})

	authHandlers := NewAuthHandlers(authService, int(cfg.SessionTTL.Seconds()), logger)
	router.GET("/auth/github", authHandlers.GitHubLogin)
	router.GET("/auth/github/callback", authHandlers.GitHubCallback)
	router.GET("/auth/user", authHandlers.CurrentUser)
	router.POST("/auth/logout", authHandlers.Logout)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, resolver, cfg.AllowedOrigins, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
