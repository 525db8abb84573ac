package ports

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// PostEventInput is the DTO handed from the API layer to the
// notification dispatcher when a post has been created.
type PostEventInput struct {
	ThemeID  string
	PostID   string
	AuthorID string
}

// NotifyService fans a post-created event out to the theme's subscribers.
type NotifyService interface {
	Process(ctx context.Context, event PostEventInput) error
}

// NotificationRepository persists per-user notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns the user's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}
