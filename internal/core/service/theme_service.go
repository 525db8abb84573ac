package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// PostEventSink receives a post-created event after a successful
// CreatePost. The queue dispatcher implements it; failures to enqueue
// never fail the write itself.
type PostEventSink interface {
	Enqueue(event ports.PostEventInput)
}

type ThemeService struct {
	repo   ports.ThemeRepository
	events PostEventSink // optional
	logger zerolog.Logger
}

func NewThemeService(repo ports.ThemeRepository, events PostEventSink, logger zerolog.Logger) *ThemeService {
	return &ThemeService{repo: repo, events: events, logger: logger}
}

// ListThemes returns theme summaries in creation order, posts omitted.
func (s *ThemeService) ListThemes(ctx context.Context) ([]*domain.Theme, error) {
	themes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list themes")
		return nil, err
	}
	return themes, nil
}

// GetTheme returns a theme with its full post sequence.
func (s *ThemeService) GetTheme(ctx context.Context, themeID string) (*domain.Theme, error) {
	return s.repo.FindByID(ctx, themeID)
}

// CreateTheme creates a theme together with its initial post in a single
// write: either both exist afterwards or neither does. Validation runs
// before anything is persisted, so a bad post text cannot leave an
// orphan theme behind.
func (s *ThemeService) CreateTheme(ctx context.Context, input ports.CreateThemeInput) (*domain.Theme, error) {
	name := strings.TrimSpace(input.ThemeName)
	text := strings.TrimSpace(input.PostText)
	if name == "" || text == "" {
		return nil, fmt.Errorf("create theme: %w: theme name and post text must be non-empty", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	theme := &domain.Theme{
		Name:          name,
		CreatedAt:     now,
		SubscriberIDs: []string{},
		Posts: []domain.Post{{
			ID:        generatePostID(),
			AuthorID:  input.UserID,
			Text:      text,
			CreatedAt: now,
			UpdatedAt: now,
		}},
	}

	if err := s.repo.Create(ctx, theme); err != nil {
		s.logger.Error().Err(err).Msg("failed to create theme")
		return nil, err
	}
	for i := range theme.Posts {
		theme.Posts[i].ThemeID = theme.ID
	}

	s.logger.Info().Str("theme_id", theme.ID).Str("user_id", input.UserID).Msg("theme created")
	return theme, nil
}

// CreatePost appends a post to the theme's sequence and notifies the
// theme's subscribers asynchronously.
func (s *ThemeService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("create post: %w: text must be non-empty", domain.ErrInvalidInput)
	}

	// Reject unknown themes before writing.
	if _, err := s.repo.FindByID(ctx, input.ThemeID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        generatePostID(),
		ThemeID:   input.ThemeID,
		AuthorID:  input.UserID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.AppendPost(ctx, input.ThemeID, post); err != nil {
		s.logger.Error().Err(err).Str("theme_id", input.ThemeID).Msg("failed to append post")
		return nil, err
	}

	if s.events != nil {
		s.events.Enqueue(ports.PostEventInput{
			ThemeID:  input.ThemeID,
			PostID:   post.ID,
			AuthorID: input.UserID,
		})
	}

	s.logger.Info().Str("theme_id", input.ThemeID).Str("post_id", post.ID).Msg("post created")
	return post, nil
}

// EditPost replaces the post's text and refreshes updated_at. Authorship
// has already been checked by the gate; it is re-checked here so a gate
// bug cannot silently escalate into editing someone else's post.
func (s *ThemeService) EditPost(ctx context.Context, input ports.EditPostInput) (*domain.Post, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("edit post: %w: text must be non-empty", domain.ErrInvalidInput)
	}

	theme, err := s.repo.FindByID(ctx, input.ThemeID)
	if err != nil {
		return nil, err
	}
	post := theme.FindPost(input.PostID)
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	if post.AuthorID != input.UserID {
		s.logger.Warn().
			Str("theme_id", input.ThemeID).
			Str("post_id", input.PostID).
			Str("user_id", input.UserID).
			Msg("edit rejected: caller is not the author")
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if err := s.repo.UpdatePost(ctx, input.ThemeID, input.PostID, text, now); err != nil {
		return nil, err
	}

	updated := *post
	updated.ThemeID = input.ThemeID
	updated.Text = text
	updated.UpdatedAt = now
	return &updated, nil
}

// DeletePost removes the post from the theme's sequence, author only.
func (s *ThemeService) DeletePost(ctx context.Context, input ports.DeletePostInput) error {
	theme, err := s.repo.FindByID(ctx, input.ThemeID)
	if err != nil {
		return err
	}
	post := theme.FindPost(input.PostID)
	if post == nil {
		return domain.ErrPostNotFound
	}
	if post.AuthorID != input.UserID {
		s.logger.Warn().
			Str("theme_id", input.ThemeID).
			Str("post_id", input.PostID).
			Str("user_id", input.UserID).
			Msg("delete rejected: caller is not the author")
		return domain.ErrForbidden
	}

	return s.repo.RemovePost(ctx, input.ThemeID, input.PostID)
}

// Subscribe adds the user to the theme's subscriber set. Subscribing
// twice is an idempotent no-op.
func (s *ThemeService) Subscribe(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	theme, err := s.repo.FindByID(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if theme.HasSubscriber(userID) {
		return theme, nil
	}
	if err := s.repo.AddSubscriber(ctx, themeID, userID); err != nil {
		s.logger.Error().Err(err).Str("theme_id", themeID).Msg("failed to add subscriber")
		return nil, err
	}
	return s.repo.FindByID(ctx, themeID)
}

// ListPosts returns the global activity feed, newest first.
func (s *ThemeService) ListPosts(ctx context.Context, limit int) ([]*domain.Post, error) {
	return s.repo.ListPosts(ctx, limit)
}

// PostAuthor satisfies authz.AuthorResolver so the gate can check
// authorship before edit/delete requests reach the service.
func (s *ThemeService) PostAuthor(ctx context.Context, themeID, postID string) (string, error) {
	theme, err := s.repo.FindByID(ctx, themeID)
	if err != nil {
		return "", err
	}
	post := theme.FindPost(postID)
	if post == nil {
		return "", domain.ErrPostNotFound
	}
	return post.AuthorID, nil
}

// generatePostID returns a unique post identifier in the format P-XXXXXXXXXXXX.
func generatePostID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("P-%012X", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("P-%012X", b)
}
