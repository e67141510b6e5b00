package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuank/studychat-server/internal/auth"
	"github.com/kuank/studychat-server/internal/config"
	"github.com/kuank/studychat-server/internal/core"
	"github.com/kuank/studychat-server/internal/store/sqlite"
)

type testEnv struct {
	ts        *httptest.Server
	hub       *core.Hub
	auth      *auth.Service
	jwtConfig *auth.JWTConfig
	store     *sqlite.SQLiteStore
}

func startTestServer(t *testing.T, historyCapacity int) *testEnv {
	t.Helper()

	logger := zerolog.Nop()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret: []byte("test-secret"),
		Issuer: "studychat",
		TTL:    time.Hour,
	}
	authService := auth.NewService(st, jwtConfig, nil)

	hub := core.NewHub(core.NewPresence(), core.NewHistory(historyCapacity), &logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	resolver := core.NewResolver(authService, &logger)

	server := NewServer(hub, resolver, authService, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		SessionTTL:        time.Hour,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, hub: hub, auth: authService, jwtConfig: jwtConfig, store: st}
}
