package ports

import (
	"context"
	"time"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// ThemeRepository defines persistence operations for themes and their
// embedded posts. Every write is a single atomic unit against the store:
// concurrent writes to different themes never interfere, and composite
// writes (CreateTheme's theme + initial post) either fully apply or not
// at all.
type ThemeRepository interface {
	// List returns theme summaries in creation order. Posts are not expanded.
	List(ctx context.Context) ([]*domain.Theme, error)
	// FindByID retrieves a theme with its full post sequence.
	// Returns domain.ErrThemeNotFound when id is unknown.
	FindByID(ctx context.Context, themeID string) (*domain.Theme, error)
	// Create inserts a theme document, posts included, in one write.
	Create(ctx context.Context, t *domain.Theme) error
	// AppendPost appends p to the theme's post sequence.
	AppendPost(ctx context.Context, themeID string, p *domain.Post) error
	// UpdatePost replaces the text and updated_at of one post.
	// Returns domain.ErrPostNotFound when the post is absent.
	UpdatePost(ctx context.Context, themeID, postID, text string, updatedAt time.Time) error
	// RemovePost removes one post from the theme's sequence.
	// Returns domain.ErrPostNotFound when the post is absent.
	RemovePost(ctx context.Context, themeID, postID string) error
	// AddSubscriber adds userID to the theme's subscriber set.
	// Adding an existing subscriber is a no-op (set semantics).
	AddSubscriber(ctx context.Context, themeID, userID string) error
	// ListPosts returns posts across all themes, newest first by
	// created_at with ties broken by insertion order. limit <= 0 means
	// no cap.
	ListPosts(ctx context.Context, limit int) ([]*domain.Post, error)
}
