package ports

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// CreateThemeInput carries the data for creating a theme together with
// its initial post. The pair is created atomically.
type CreateThemeInput struct {
	UserID    string
	ThemeName string
	PostText  string
}

// CreatePostInput carries the data for appending a post to a theme.
type CreatePostInput struct {
	UserID  string
	ThemeID string
	Text    string
}

// EditPostInput carries the data for replacing a post's text.
type EditPostInput struct {
	UserID  string
	ThemeID string
	PostID  string
	Text    string
}

// DeletePostInput identifies the post to remove.
type DeletePostInput struct {
	UserID  string
	ThemeID string
	PostID  string
}

// ThemeService defines the use-case operations on themes and posts.
// Callers are expected to have passed the authorization gate first;
// the service still re-checks post authorship defensively.
type ThemeService interface {
	ListThemes(ctx context.Context) ([]*domain.Theme, error)
	GetTheme(ctx context.Context, themeID string) (*domain.Theme, error)
	CreateTheme(ctx context.Context, input CreateThemeInput) (*domain.Theme, error)
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	EditPost(ctx context.Context, input EditPostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, input DeletePostInput) error
	Subscribe(ctx context.Context, userID, themeID string) (*domain.Theme, error)
	// ListPosts returns the global activity feed, newest first.
	// limit <= 0 returns all posts.
	ListPosts(ctx context.Context, limit int) ([]*domain.Post, error)
}
