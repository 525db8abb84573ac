package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubThemeRepo struct {
	themes    map[string]*domain.Theme
	order     []string // theme ids in creation order
	nextID    int
	createErr error // if set, Create returns this error
	writeErr  error // if set, all post/subscriber writes return this error
}

func newStubThemeRepo() *stubThemeRepo {
	return &stubThemeRepo{themes: make(map[string]*domain.Theme)}
}

func cloneTheme(t *domain.Theme) *domain.Theme {
	c := *t
	c.SubscriberIDs = append([]string{}, t.SubscriberIDs...)
	c.Posts = append([]domain.Post{}, t.Posts...)
	for i := range c.Posts {
		c.Posts[i].ThemeID = c.ID
	}
	return &c
}

func (r *stubThemeRepo) List(_ context.Context) ([]*domain.Theme, error) {
	out := make([]*domain.Theme, 0, len(r.order))
	for _, id := range r.order {
		c := cloneTheme(r.themes[id])
		c.Posts = nil
		out = append(out, c)
	}
	return out, nil
}

func (r *stubThemeRepo) FindByID(_ context.Context, themeID string) (*domain.Theme, error) {
	t, ok := r.themes[themeID]
	if !ok {
		return nil, domain.ErrThemeNotFound
	}
	return cloneTheme(t), nil
}

func (r *stubThemeRepo) Create(_ context.Context, t *domain.Theme) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	t.ID = themeID(r.nextID)
	r.themes[t.ID] = cloneTheme(t)
	r.order = append(r.order, t.ID)
	return nil
}

func themeID(n int) string {
	return "theme_" + string(rune('a'+n-1))
}

func (r *stubThemeRepo) AppendPost(_ context.Context, themeID string, p *domain.Post) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.themes[themeID]
	if !ok {
		return domain.ErrThemeNotFound
	}
	t.Posts = append(t.Posts, *p)
	return nil
}

func (r *stubThemeRepo) UpdatePost(_ context.Context, themeID, postID, text string, updatedAt time.Time) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.themes[themeID]
	if !ok {
		return domain.ErrThemeNotFound
	}
	for i := range t.Posts {
		if t.Posts[i].ID == postID {
			t.Posts[i].Text = text
			t.Posts[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (r *stubThemeRepo) RemovePost(_ context.Context, themeID, postID string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.themes[themeID]
	if !ok {
		return domain.ErrThemeNotFound
	}
	for i := range t.Posts {
		if t.Posts[i].ID == postID {
			t.Posts = append(t.Posts[:i], t.Posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (r *stubThemeRepo) AddSubscriber(_ context.Context, themeID, userID string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.themes[themeID]
	if !ok {
		return domain.ErrThemeNotFound
	}
	for _, id := range t.SubscriberIDs {
		if id == userID {
			return nil // set semantics, mirrors $addToSet
		}
	}
	t.SubscriberIDs = append(t.SubscriberIDs, userID)
	return nil
}

func (r *stubThemeRepo) ListPosts(_ context.Context, limit int) ([]*domain.Post, error) {
	var all []*domain.Post
	for _, id := range r.order {
		t := r.themes[id]
		for i := range t.Posts {
			p := t.Posts[i]
			p.ThemeID = t.ID
			all = append(all, &p)
		}
	}
	// Newest first; stable sort keeps insertion order on ties.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// postCount sums the posts stored across all themes.
func (r *stubThemeRepo) postCount() int {
	n := 0
	for _, t := range r.themes {
		n += len(t.Posts)
	}
	return n
}

// ---------------------------------------------------------------------------
// Event sink stub
// ---------------------------------------------------------------------------

type stubEventSink struct {
	events []ports.PostEventInput
}

func (s *stubEventSink) Enqueue(event ports.PostEventInput) {
	s.events = append(s.events, event)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newSvc(repo *stubThemeRepo) *ThemeService {
	return NewThemeService(repo, nil, discardLogger)
}

func seedTheme(t *testing.T, svc *ThemeService, userID, name, text string) *domain.Theme {
	t.Helper()
	theme, err := svc.CreateTheme(context.Background(), ports.CreateThemeInput{
		UserID:    userID,
		ThemeName: name,
		PostText:  text,
	})
	if err != nil {
		t.Fatalf("seed theme: %v", err)
	}
	return theme
}

// ---------------------------------------------------------------------------
// CreateTheme tests
// ---------------------------------------------------------------------------

func TestThemeService_CreateTheme_Success(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)

	theme, err := svc.CreateTheme(context.Background(), ports.CreateThemeInput{
		UserID:    "u1",
		ThemeName: "  Gophers  ",
		PostText:  " hello world ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if theme.ID == "" {
		t.Error("theme id must be assigned")
	}
	if theme.Name != "Gophers" {
		t.Errorf("expected trimmed name %q, got %q", "Gophers", theme.Name)
	}
	if theme.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if len(theme.Posts) != 1 {
		t.Fatalf("expected 1 initial post, got %d", len(theme.Posts))
	}
	if theme.Posts[0].Text != "hello world" {
		t.Errorf("expected trimmed post text %q, got %q", "hello world", theme.Posts[0].Text)
	}
	if theme.Posts[0].AuthorID != "u1" {
		t.Errorf("expected author u1, got %q", theme.Posts[0].AuthorID)
	}
}

func TestThemeService_CreateTheme_EmptyName(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)

	_, err := svc.CreateTheme(context.Background(), ports.CreateThemeInput{
		UserID:    "u1",
		ThemeName: "   ",
		PostText:  "hello",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.themes) != 0 {
		t.Error("nothing may be persisted on validation failure")
	}
}

// A failing initial post must not leave an orphan theme behind.
func TestThemeService_CreateTheme_Atomic(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)

	_, err := svc.CreateTheme(context.Background(), ports.CreateThemeInput{
		UserID:    "u1",
		ThemeName: "Gophers",
		PostText:  "   ",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.themes) != 0 {
		t.Error("expected no theme persisted when the initial post is invalid")
	}
	if repo.postCount() != 0 {
		t.Error("expected no post persisted when the initial post is invalid")
	}
}

func TestThemeService_CreateTheme_RepoError(t *testing.T) {
	repo := newStubThemeRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newSvc(repo)

	_, err := svc.CreateTheme(context.Background(), ports.CreateThemeInput{
		UserID:    "u1",
		ThemeName: "Gophers",
		PostText:  "hello",
	})
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// CreatePost tests
// ---------------------------------------------------------------------------

func TestThemeService_CreatePost_ReadYourWrites(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "first")

	before := time.Now().UTC()
	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID:  "u2",
		ThemeID: theme.ID,
		Text:    "second",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.CreatedAt.Before(before) || post.CreatedAt.After(time.Now().UTC()) {
		t.Errorf("CreatedAt %v outside expected window", post.CreatedAt)
	}

	got, err := svc.GetTheme(context.Background(), theme.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Posts) != 2 {
		t.Fatalf("expected 2 posts after create, got %d", len(got.Posts))
	}
	last := got.Posts[len(got.Posts)-1]
	if last.ID != post.ID || last.Text != "second" || last.AuthorID != "u2" {
		t.Errorf("new post not observable via GetTheme: %+v", last)
	}
}

func TestThemeService_CreatePost_UnknownTheme(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID:  "u1",
		ThemeID: "missing",
		Text:    "hello",
	})
	if !errors.Is(err, domain.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestThemeService_CreatePost_EmptyText(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "first")

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID:  "u1",
		ThemeID: theme.ID,
		Text:    "  ",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.postCount() != 1 {
		t.Error("store must be unchanged after rejected create")
	}
}

func TestThemeService_CreatePost_EnqueuesEvent(t *testing.T) {
	repo := newStubThemeRepo()
	sink := &stubEventSink{}
	svc := NewThemeService(repo, sink, discardLogger)
	theme := seedTheme(t, svc, "u1", "Gophers", "first")

	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID:  "u2",
		ThemeID: theme.ID,
		Text:    "second",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event enqueued, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.ThemeID != theme.ID || ev.PostID != post.ID || ev.AuthorID != "u2" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

// ---------------------------------------------------------------------------
// EditPost tests
// ---------------------------------------------------------------------------

func TestThemeService_EditPost_Author(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")
	postID := theme.Posts[0].ID
	createdAt := theme.Posts[0].CreatedAt

	post, err := svc.EditPost(context.Background(), ports.EditPostInput{
		UserID:  "u1",
		ThemeID: theme.ID,
		PostID:  postID,
		Text:    "edited",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "edited" {
		t.Errorf("expected text %q, got %q", "edited", post.Text)
	}
	if !post.UpdatedAt.After(createdAt) && !post.UpdatedAt.Equal(createdAt) {
		t.Errorf("UpdatedAt must be refreshed: %v vs created %v", post.UpdatedAt, createdAt)
	}

	got, _ := svc.GetTheme(context.Background(), theme.ID)
	if got.Posts[0].Text != "edited" {
		t.Error("edit not observable via GetTheme")
	}
}

func TestThemeService_EditPost_WrongAuthor(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")
	postID := theme.Posts[0].ID

	_, err := svc.EditPost(context.Background(), ports.EditPostInput{
		UserID:  "u2",
		ThemeID: theme.ID,
		PostID:  postID,
		Text:    "hijacked",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, _ := svc.GetTheme(context.Background(), theme.ID)
	if got.Posts[0].Text != "original" {
		t.Error("store must be unchanged after forbidden edit")
	}
}

func TestThemeService_EditPost_UnknownPost(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")

	_, err := svc.EditPost(context.Background(), ports.EditPostInput{
		UserID:  "u1",
		ThemeID: theme.ID,
		PostID:  "missing",
		Text:    "edited",
	})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeletePost tests
// ---------------------------------------------------------------------------

func TestThemeService_DeletePost_Author(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")
	postID := theme.Posts[0].ID

	if err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		UserID:  "u1",
		ThemeID: theme.ID,
		PostID:  postID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := svc.GetTheme(context.Background(), theme.ID)
	if len(got.Posts) != 0 {
		t.Errorf("expected 0 posts after delete, got %d", len(got.Posts))
	}
}

func TestThemeService_DeletePost_WrongAuthor(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")
	postID := theme.Posts[0].ID

	err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		UserID:  "u2",
		ThemeID: theme.ID,
		PostID:  postID,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, _ := svc.GetTheme(context.Background(), theme.ID)
	if len(got.Posts) != 1 {
		t.Error("store must be unchanged after forbidden delete")
	}
}

func TestThemeService_DeletePost_Unknown(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "original")

	err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		UserID:  "u1",
		ThemeID: theme.ID,
		PostID:  "missing",
	})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Subscribe tests
// ---------------------------------------------------------------------------

func TestThemeService_Subscribe_Idempotent(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "first")

	once, err := svc.Subscribe(context.Background(), "u2", theme.ID)
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	twice, err := svc.Subscribe(context.Background(), "u2", theme.ID)
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	if len(once.SubscriberIDs) != 1 || once.SubscriberIDs[0] != "u2" {
		t.Errorf("expected [u2], got %v", once.SubscriberIDs)
	}
	if len(twice.SubscriberIDs) != len(once.SubscriberIDs) {
		t.Errorf("subscribing twice must not grow the set: %v", twice.SubscriberIDs)
	}
}

func TestThemeService_Subscribe_UnknownTheme(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)

	_, err := svc.Subscribe(context.Background(), "u1", "missing")
	if !errors.Is(err, domain.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListThemes / ListPosts tests
// ---------------------------------------------------------------------------

func TestThemeService_ListThemes_OmitsPosts(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	seedTheme(t, svc, "u1", "First", "a")
	seedTheme(t, svc, "u1", "Second", "b")

	themes, err := svc.ListThemes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(themes) != 2 {
		t.Fatalf("expected 2 themes, got %d", len(themes))
	}
	if themes[0].Name != "First" || themes[1].Name != "Second" {
		t.Errorf("themes must come back in creation order: %q, %q", themes[0].Name, themes[1].Name)
	}
	for _, th := range themes {
		if len(th.Posts) != 0 {
			t.Errorf("summaries must not expand posts, got %d", len(th.Posts))
		}
	}
}

func TestThemeService_ListPosts_LimitNewestFirst(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "p0")

	// Backdate existing posts so each of the 5 has a distinct timestamp.
	base := time.Now().UTC().Add(-time.Hour)
	repo.themes[theme.ID].Posts[0].CreatedAt = base
	for i := 1; i < 5; i++ {
		repo.themes[theme.ID].Posts = append(repo.themes[theme.ID].Posts, domain.Post{
			ID:        "p" + string(rune('0'+i)),
			AuthorID:  "u1",
			Text:      "post",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	posts, err := svc.ListPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "p4" || posts[1].ID != "p3" {
		t.Errorf("expected [p4 p3] newest first, got [%s %s]", posts[0].ID, posts[1].ID)
	}
}

func TestThemeService_ListPosts_NoLimitReturnsAll(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	a := seedTheme(t, svc, "u1", "A", "first")
	seedTheme(t, svc, "u1", "B", "second")

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID: "u2", ThemeID: a.ID, Text: "third",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts, err := svc.ListPosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("expected all 3 posts, got %d", len(posts))
	}
}

// ---------------------------------------------------------------------------
// PostAuthor (gate resolver) tests
// ---------------------------------------------------------------------------

func TestThemeService_PostAuthor(t *testing.T) {
	repo := newStubThemeRepo()
	svc := newSvc(repo)
	theme := seedTheme(t, svc, "u1", "Gophers", "first")

	author, err := svc.PostAuthor(context.Background(), theme.ID, theme.Posts[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if author != "u1" {
		t.Errorf("expected author u1, got %q", author)
	}

	if _, err := svc.PostAuthor(context.Background(), theme.ID, "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.PostAuthor(context.Background(), "missing", "p1"); !errors.Is(err, domain.ErrThemeNotFound) {
		t.Errorf("expected ErrThemeNotFound, got %v", err)
	}
}
