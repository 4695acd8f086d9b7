package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VitaminP8/blogql/graph"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/config"
	"github.com/VitaminP8/blogql/internal/subscription"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Storage:            config.StorageMemory,
		LogLevel:           "info",
		Seed:               true,
		SubscriptionBuffer: 4,
		CORSOrigins:        []string{"*"},
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cfg := testConfig()
	cmd := newRootCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--storage", "sqlite", "--seed=false", "--log-level", "debug"}))
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.StorageSQLite, cfg.Storage)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestOpenStorage(t *testing.T) {
	cfg := testConfig()

	for _, kind := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(kind, func(t *testing.T) {
			cfg.Storage = kind
			store, err := openStorage(cfg, zap.NewNop())
			require.NoError(t, err)
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			require.NoError(t, seedStorage(context.Background(), cfg, store, zap.NewNop()))
			users, err := store.GetUsers(context.Background(), "")
			require.NoError(t, err)
			assert.Len(t, users, 4)
		})
	}

	cfg.Storage = "postgres"
	_, err := openStorage(cfg, zap.NewNop())
	assert.EqualError(t, err, "unknown storage type: postgres")
}

func TestRouter(t *testing.T) {
	cfg := testConfig()
	store, err := openStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, seedStorage(context.Background(), cfg, store, zap.NewNop()))

	resolver := graph.NewResolver(
		store,
		subscription.NewSubscriptionManager[*model.Post](cfg.SubscriptionBuffer, nil),
		subscription.NewSubscriptionManager[*model.Comment](cfg.SubscriptionBuffer, nil),
		nil,
	)
	router := newRouter(cfg, store, resolver, zap.NewNop())

	t.Run("Query", func(t *testing.T) {
		body := strings.NewReader(`{"query":"{ posts(query: \"graphql\") { title author { name } } }"}`)
		req := httptest.NewRequest(http.MethodPost, "/query", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "GraphQL 101")
		assert.Contains(t, rec.Body.String(), "GraphQL 201")
		assert.Contains(t, rec.Body.String(), "Blake")
	})

	t.Run("Playground", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "blogql")
	})

	t.Run("CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/query", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouter_WebsocketOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = false
	cfg.CORSOrigins = []string{"https://good.example"}

	store, err := openStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	resolver := graph.NewResolver(
		store,
		subscription.NewSubscriptionManager[*model.Post](cfg.SubscriptionBuffer, nil),
		subscription.NewSubscriptionManager[*model.Comment](cfg.SubscriptionBuffer, nil),
		nil,
	)

	srv := httptest.NewServer(newRouter(cfg, store, resolver, zap.NewNop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/query"
	dialer := websocket.Dialer{Subprotocols: []string{"graphql-transport-ws"}}

	dial := func(origin string) (*websocket.Conn, *http.Response, error) {
		header := http.Header{}
		if origin != "" {
			header.Set("Origin", origin)
		}
		return dialer.Dial(url, header)
	}

	t.Run("Allowed origin", func(t *testing.T) {
		conn, resp, err := dial("https://good.example")
		require.NoError(t, err)
		defer conn.Close()
		assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	})

	t.Run("Foreign origin", func(t *testing.T) {
		conn, resp, err := dial("https://evil.example")
		if conn != nil {
			conn.Close()
		}
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("No origin", func(t *testing.T) {
		conn, _, err := dial("")
		require.NoError(t, err)
		conn.Close()
	})

	t.Run("Plain HTTP from a foreign origin gets no CORS grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/query", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		newRouter(cfg, store, resolver, zap.NewNop()).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
