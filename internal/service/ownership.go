package service

import (
	"context"
	"fmt"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
)

// Owned is any resource with a single owning user.
type Owned interface {
	OwnerID() int64
}

// Loader fetches a resource by id. It returns an apperror.ErrNotFound
// error when the resource does not exist.
type Loader[T Owned] func(ctx context.Context, id int64) (T, error)

// Authorize loads the resource and checks that principal owns it.
//
// A missing resource is NotFound; a resource owned by someone else is
// Forbidden. The HTTP layer answers both with 404, so a non-owner cannot
// distinguish "exists" from "does not exist" by status alone.
func Authorize[T Owned](ctx context.Context, kind string, id int64, principal model.Principal, load Loader[T]) (T, error) {
	resource, err := load(ctx, id)
	if err != nil {
		var zero T
		if apperror.Is(err, apperror.ErrNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("service: loading %s %d: %w", kind, id, err)
	}

	if resource.OwnerID() != principal.UserID {
		var zero T
		return zero, apperror.Forbidden(fmt.Sprintf("you are not allowed to modify this %s", kind))
	}
	return resource, nil
}
