package httpserver

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/model"
)

func TestUserCtxRoundTrip(t *testing.T) {
	t.Parallel()

	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	ctx := WithUser(context.Background(), u)

	got, ok := UserFromCtx(ctx)
	if !ok {
		t.Fatalf("expected user in context")
	}
	if got.ID != u.ID || got.Username != "alice" {
		t.Fatalf("got %+v, want %+v", got, u)
	}
}

func TestUserFromCtx_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := UserFromCtx(context.Background()); ok {
		t.Fatalf("expected no user in empty context")
	}
}
