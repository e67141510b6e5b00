package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/kuank/studychat-server/internal/auth"
	"github.com/kuank/studychat-server/internal/config"
	"github.com/kuank/studychat-server/internal/core"
	"github.com/kuank/studychat-server/internal/store"
	"github.com/kuank/studychat-server/internal/store/sqlite"
	transporthttp "github.com/kuank/studychat-server/internal/transport/http"
)

// sessionPurgeInterval is how often expired session rows are swept.
const sessionPurgeInterval = time.Hour

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	authService     *auth.Service
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("session store initialized")

	jwtConfig := &auth.JWTConfig{
		Secret: []byte(cfg.SessionSecret),
		Issuer: "studychat",
		TTL:    cfg.SessionTTL,
	}

	var oauthConfig *oauth2.Config
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubCallbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     githuboauth.Endpoint,
		}
		logger.Info().Msg("github login enabled")
	} else {
		logger.Info().Msg("github login not configured, guests only")
	}

	authService := auth.NewService(st, jwtConfig, oauthConfig)

	presence := core.NewPresence()
	history := core.NewHistory(cfg.HistoryCapacity)
	hub := core.NewHub(presence, history, logger)
	resolver := core.NewResolver(authService, logger)

	server := transporthttp.NewServer(hub, resolver, authService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		authService:     authService,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)
	go a.purgeSessions(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// purgeSessions periodically removes expired session rows.
func (a *App) purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.authService.PurgeExpired(ctx)
			if err != nil {
				a.log.Warn().Err(err).Msg("failed to purge expired sessions")
				continue
			}
			if n > 0 {
				a.log.Info().Int64("purged", n).Msg("expired sessions removed")
			}
		}
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
