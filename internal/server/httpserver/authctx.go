package httpserver

import (
	"context"

	"github.com/akulikov/notehub/internal/model"
)

type ctxKey string

const userKey ctxKey = "nh.user"

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated user from context.
func UserFromCtx(ctx context.Context) (*model.User, bool) {
	v := ctx.Value(userKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}
