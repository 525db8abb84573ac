package ports

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// AuthService is the session provider: it turns credentials into users
// and signed tokens. The gate and the client-side guard only ever see
// the resulting Session value.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
