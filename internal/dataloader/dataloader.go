package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/post"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Wait is how long a loader collects keys before running a batch.
const Wait = time.Millisecond

// Loaders holds the per-request batch loaders.
type Loaders struct {
	UserByID *dataloader.Loader
	PostByID *dataloader.Loader
}

// NewLoaders builds loaders over store. Results are not cached, so every
// lookup sees the store as it is when its batch runs.
func NewLoaders(store storage.Storage) *Loaders {
	return &Loaders{
		UserByID: dataloader.NewBatchedLoader(
			batch(storage.EntityUser, store.GetUsersByIDs),
			dataloader.WithWait(Wait),
			dataloader.WithCache(&dataloader.NoCache{}),
		),
		PostByID: dataloader.NewBatchedLoader(
			batch(storage.EntityPost, store.GetPostsByIDs),
			dataloader.WithWait(Wait),
			dataloader.WithCache(&dataloader.NoCache{}),
		),
	}
}

// Middleware puts fresh loaders into every request context.
func Middleware(store storage.Storage, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithLoaders(r.Context(), NewLoaders(store))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, key, loaders)
}

// For returns the loaders of the request, or nil outside of Middleware.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(key).(*Loaders)
	return loaders
}

// LoadUser resolves a user through the request loader when there is one and
// straight from the store otherwise.
func LoadUser(ctx context.Context, store user.UserStorage, id string) (*model.User, error) {
	loaders := For(ctx)
	if loaders == nil {
		return store.GetUserByID(ctx, id)
	}
	return load[*model.User](ctx, loaders.UserByID, id)
}

func LoadPost(ctx context.Context, store post.PostStorage, id string) (*model.Post, error) {
	loaders := For(ctx)
	if loaders == nil {
		return store.GetPostByID(ctx, id)
	}
	return load[*model.Post](ctx, loaders.PostByID, id)
}

func load[T any](ctx context.Context, loader *dataloader.Loader, id string) (T, error) {
	var zero T
	data, err := loader.Load(ctx, dataloader.StringKey(id))()
	if err != nil {
		return zero, err
	}
	return data.(T), nil
}

// batch adapts a bulk lookup to a batch function. Ids missing from the
// result get a NotFoundError, results follow the order of keys.
func batch[T any](entity string, fetch func(context.Context, []string) (map[string]T, error)) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := keys.Keys()
		results := make([]*dataloader.Result, len(keys))

		found, err := fetch(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		for i, id := range ids {
			if v, ok := found[id]; ok {
				results[i] = &dataloader.Result{Data: v}
			} else {
				results[i] = &dataloader.Result{Error: storage.NewNotFound(entity, id)}
			}
		}
		return results
	}
}
