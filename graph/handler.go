package graph

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/VitaminP8/blogql/graph/generated"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
)

// KeepAlivePingInterval is how often idle subscription sockets are pinged.
const KeepAlivePingInterval = 10 * time.Second

// NewHandler builds the GraphQL server for resolver: queries and mutations
// over GET and POST, subscriptions over websocket. Websocket upgrades are
// checked against origins; with nil origins only same-host upgrades pass.
func NewHandler(resolver *Resolver, origins *cors.Cors) *handler.Server {
	srv := handler.New(generated.NewExecutableSchema(generated.Config{Resolvers: resolver}))

	srv.AddTransport(transport.Websocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(origins),
		},
		KeepAlivePingInterval: KeepAlivePingInterval,
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))

	srv.Use(extension.Introspection{})
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New[string](100),
	})

	srv.AroundOperations(resolver.isolate)

	srv.SetErrorPresenter(ErrorPresenter)
	srv.SetRecoverFunc(func(ctx context.Context, p interface{}) error {
		resolver.log().Error("resolver panic", zap.Any("panic", p), zap.Stack("stack"))
		return errors.New("internal server error")
	})

	return srv
}

// checkOrigin applies the CORS origin rules to websocket upgrades. Clients
// that send no Origin header are not browsers and are let through.
func checkOrigin(origins *cors.Cors) func(r *http.Request) bool {
	if origins == nil {
		return nil
	}
	return func(r *http.Request) bool {
		if r.Header.Get("Origin") == "" {
			return true
		}
		return origins.OriginAllowed(r)
	}
}

// isolate runs queries under the read lock and mutations under the write
// lock, so every field of a query resolves against the same store state.
// Subscriptions are long lived and take no lock.
func (r *Resolver) isolate(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
	op := graphql.GetOperationContext(ctx).Operation
	if op == nil || op.Operation == ast.Subscription {
		return next(ctx)
	}

	lock, unlock := r.mu.RLock, r.mu.RUnlock
	if op.Operation == ast.Mutation {
		lock, unlock = r.mu.Lock, r.mu.Unlock
	}

	lock()
	responses := next(ctx)
	unlock()

	return func(ctx context.Context) *graphql.Response {
		lock()
		defer unlock()
		return responses(ctx)
	}
}
