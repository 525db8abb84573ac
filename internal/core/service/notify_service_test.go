package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

type stubNotificationRepo struct {
	inserted  []*domain.Notification
	insertErr error
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	c := *n
	r.inserted = append(r.inserted, &c)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.inserted {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func dedupKey(themeID, postID, recipientID string) string {
	return themeID + "/" + postID + "/" + recipientID
}

func (d *stubDedup) IsDuplicate(_ context.Context, themeID, postID, recipientID string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[dedupKey(themeID, postID, recipientID)], nil
}

func (d *stubDedup) Mark(_ context.Context, themeID, postID, recipientID string) error {
	d.seen[dedupKey(themeID, postID, recipientID)] = true
	return nil
}

func notifyFixture(t *testing.T) (*stubThemeRepo, *domain.Theme) {
	t.Helper()
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "author", "Gophers", "first")
	for _, sub := range []string{"author", "sub1", "sub2"} {
		if _, err := svc.Subscribe(context.Background(), sub, theme.ID); err != nil {
			t.Fatalf("subscribe %s: %v", sub, err)
		}
	}
	return repo, theme
}

func TestNotifyService_Process_SkipsAuthor(t *testing.T) {
	themeRepo, theme := notifyFixture(t)
	notifRepo := &stubNotificationRepo{}
	svc := NewNotifyService(themeRepo, notifRepo, newStubDedup(), discardLogger)

	err := svc.Process(context.Background(), ports.PostEventInput{
		ThemeID:  theme.ID,
		PostID:   "p9",
		AuthorID: "author",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifRepo.inserted) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifRepo.inserted))
	}
	for _, n := range notifRepo.inserted {
		if n.RecipientID == "author" {
			t.Error("post author must never be notified about their own post")
		}
		if n.ThemeName != "Gophers" || n.PostID != "p9" {
			t.Errorf("unexpected notification: %+v", n)
		}
	}
}

func TestNotifyService_Process_Deduplicates(t *testing.T) {
	themeRepo, theme := notifyFixture(t)
	notifRepo := &stubNotificationRepo{}
	dedup := newStubDedup()
	svc := NewNotifyService(themeRepo, notifRepo, dedup, discardLogger)

	event := ports.PostEventInput{ThemeID: theme.ID, PostID: "p9", AuthorID: "author"}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("first process: %v", err)
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("second process: %v", err)
	}

	if len(notifRepo.inserted) != 2 {
		t.Errorf("redelivered event must not double-notify: got %d inserts", len(notifRepo.inserted))
	}
}

func TestNotifyService_Process_DedupErrorStillNotifies(t *testing.T) {
	themeRepo, theme := notifyFixture(t)
	notifRepo := &stubNotificationRepo{}
	dedup := newStubDedup()
	dedup.checkErr = errors.New("redis down")
	svc := NewNotifyService(themeRepo, notifRepo, dedup, discardLogger)

	err := svc.Process(context.Background(), ports.PostEventInput{
		ThemeID:  theme.ID,
		PostID:   "p9",
		AuthorID: "author",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifRepo.inserted) != 2 {
		t.Errorf("dedup outage must not drop notifications: got %d inserts", len(notifRepo.inserted))
	}
}

func TestNotifyService_Process_InsertFailureReported(t *testing.T) {
	themeRepo, theme := notifyFixture(t)
	notifRepo := &stubNotificationRepo{insertErr: errors.New("db down")}
	svc := NewNotifyService(themeRepo, notifRepo, newStubDedup(), discardLogger)

	err := svc.Process(context.Background(), ports.PostEventInput{
		ThemeID:  theme.ID,
		PostID:   "p9",
		AuthorID: "author",
	})
	if err == nil {
		t.Fatal("expected error when inserts fail")
	}
}

func TestNotifyService_Process_UnknownTheme(t *testing.T) {
	themeRepo := newStubThemeRepo()
	svc := NewNotifyService(themeRepo, &stubNotificationRepo{}, newStubDedup(), discardLogger)

	err := svc.Process(context.Background(), ports.PostEventInput{
		ThemeID:  "missing",
		PostID:   "p1",
		AuthorID: "author",
	})
	if !errors.Is(err, domain.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}
