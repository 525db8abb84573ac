// Package authz is the server-side authorization gate. Every mutating
// request must pass Authorize before it reaches the theme service; on a
// deny the caller returns immediately, so a denied request can never
// touch the resource store. The client-side navigation guard in
// pkg/forumclient mirrors only the coarse authenticated/unauthenticated
// half of these rules — this gate is the authority.
package authz

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// Operation identifies what the request wants to do to the forum.
type Operation int

const (
	OpListThemes Operation = iota
	OpReadTheme
	OpListPosts
	OpCreateTheme
	OpCreatePost
	OpSubscribe
	OpEditPost
	OpDeletePost
)

// String returns the metric/log label for the operation.
func (op Operation) String() string {
	switch op {
	case OpListThemes:
		return "list_themes"
	case OpReadTheme:
		return "read_theme"
	case OpListPosts:
		return "list_posts"
	case OpCreateTheme:
		return "create_theme"
	case OpCreatePost:
		return "create_post"
	case OpSubscribe:
		return "subscribe"
	case OpEditPost:
		return "edit_post"
	case OpDeletePost:
		return "delete_post"
	}
	return "unknown"
}

// RequiresAuth reports whether the operation mutates state and therefore
// needs an authenticated session. Reads never require authentication.
func (op Operation) RequiresAuth() bool {
	switch op {
	case OpCreateTheme, OpCreatePost, OpSubscribe, OpEditPost, OpDeletePost:
		return true
	}
	return false
}

// RequiresAuthor reports whether the operation additionally requires the
// session user to be the author of the target post.
func (op Operation) RequiresAuthor() bool {
	return op == OpEditPost || op == OpDeletePost
}

// ResourceRef identifies the target of an author-scoped operation.
// ThemeID/PostID are only consulted when the operation requires them.
type ResourceRef struct {
	ThemeID string
	PostID  string
}

// AuthorResolver resolves the author of a post. It is the only read the
// gate performs; the gate never writes.
type AuthorResolver interface {
	PostAuthor(ctx context.Context, themeID, postID string) (string, error)
}

// Gate decides whether a session may perform an operation.
type Gate struct {
	authors AuthorResolver
}

// NewGate builds a Gate. authors may be nil when the gate is only used
// for operations that never check authorship (e.g. in the tests of
// other packages).
func NewGate(authors AuthorResolver) *Gate {
	return &Gate{authors: authors}
}

// Authorize returns nil when the session may perform op on ref.
//
//	reads                        → always allowed
//	create/subscribe             → domain.ErrUnauthenticated unless logged in
//	edit/delete                  → additionally domain.ErrForbidden unless
//	                               the session user authored the post
//
// The resolver's not-found errors pass through unchanged so unknown
// targets surface as 404 rather than 403.
func (g *Gate) Authorize(ctx context.Context, session domain.Session, op Operation, ref ResourceRef) error {
	if !op.RequiresAuth() {
		return nil
	}
	if !session.Authenticated || session.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if !op.RequiresAuthor() {
		return nil
	}

	author, err := g.authors.PostAuthor(ctx, ref.ThemeID, ref.PostID)
	if err != nil {
		return err
	}
	if author != session.UserID {
		return domain.ErrForbidden
	}
	return nil
}
