package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes reported in extensions.code.
const (
	CodeNotFound = "NOT_FOUND"
	CodeConflict = "CONFLICT"
)

// ErrorPresenter adds a machine readable code and the offending record to
// storage errors.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	gqlErr := graphql.DefaultErrorPresenter(ctx, err)

	var notFound *storage.NotFoundError
	var conflict *storage.ConflictError
	switch {
	case errors.As(err, &notFound):
		setExtensions(gqlErr, map[string]interface{}{
			"code":   CodeNotFound,
			"entity": notFound.Entity,
			"id":     notFound.ID,
		})
	case errors.As(err, &conflict):
		setExtensions(gqlErr, map[string]interface{}{
			"code":   CodeConflict,
			"entity": conflict.Entity,
			"field":  conflict.Field,
			"value":  conflict.Value,
		})
	}

	return gqlErr
}

func setExtensions(gqlErr *gqlerror.Error, ext map[string]interface{}) {
	if gqlErr.Extensions == nil {
		gqlErr.Extensions = make(map[string]interface{}, len(ext))
	}
	for k, v := range ext {
		gqlErr.Extensions[k] = v
	}
}
