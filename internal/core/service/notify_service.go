package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// DedupChecker abstracts the at-most-once store (Redis) that keeps a
// subscriber from being notified twice about the same post.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, themeID, postID, recipientID string) (bool, error)
	Mark(ctx context.Context, themeID, postID, recipientID string) error
}

type notifyService struct {
	themeRepo ports.ThemeRepository
	notifRepo ports.NotificationRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewNotifyService returns a NotifyService implementation.
func NewNotifyService(
	themeRepo ports.ThemeRepository,
	notifRepo ports.NotificationRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.NotifyService {
	return &notifyService{
		themeRepo: themeRepo,
		notifRepo: notifRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process fans a post-created event out to the theme's subscribers.
// The post author is never notified about their own post. A failed
// notification for one subscriber does not stop the others.
func (s *notifyService) Process(ctx context.Context, in ports.PostEventInput) error {
	theme, err := s.themeRepo.FindByID(ctx, in.ThemeID)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	now := time.Now().UTC()
	var failed int
	for _, recipientID := range theme.SubscriberIDs {
		if recipientID == in.AuthorID {
			continue
		}

		isDup, err := s.dedup.IsDuplicate(ctx, in.ThemeID, in.PostID, recipientID)
		if err != nil {
			s.log.Warn().Err(err).Str("theme_id", in.ThemeID).Msg("dedup check failed, notifying anyway")
		} else if isDup {
			s.log.Debug().Str("post_id", in.PostID).Str("recipient_id", recipientID).Msg("duplicate notification skipped")
			continue
		}

		// Mark before writing so a retried event cannot double-notify.
		if markErr := s.dedup.Mark(ctx, in.ThemeID, in.PostID, recipientID); markErr != nil {
			s.log.Warn().Err(markErr).Str("theme_id", in.ThemeID).Msg("failed to set dedup key")
		}

		n := &domain.Notification{
			ThemeID:     in.ThemeID,
			ThemeName:   theme.Name,
			PostID:      in.PostID,
			AuthorID:    in.AuthorID,
			RecipientID: recipientID,
			CreatedAt:   now,
		}
		if err := s.notifRepo.Insert(ctx, n); err != nil {
			s.log.Error().Err(err).
				Str("theme_id", in.ThemeID).
				Str("recipient_id", recipientID).
				Msg("failed to insert notification")
			failed++
			continue
		}
	}

	if failed > 0 {
		return fmt.Errorf("notify: %d of %d subscriber notifications failed", failed, len(theme.SubscriberIDs))
	}

	s.log.Debug().
		Str("theme_id", in.ThemeID).
		Str("post_id", in.PostID).
		Int("subscribers", len(theme.SubscriberIDs)).
		Msg("post event processed")

	return nil
}
