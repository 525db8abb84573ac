package domain

import (
	"errors"
	"time"
)

var ErrThemeNotFound = errors.New("theme not found")
var ErrPostNotFound = errors.New("post not found")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("authentication required")
var ErrInvalidInput = errors.New("invalid input")

// Post is a single message authored by a user inside a Theme.
// ID is unique within the owning theme; Text is mutable by the author only.
type Post struct {
	ID        string    `json:"id" bson:"id"`
	ThemeID   string    `json:"theme_id" bson:"-"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Theme is the aggregate root: it owns its posts exclusively, and the
// posts slice preserves creation order.
type Theme struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	SubscriberIDs []string  `json:"subscriber_ids" bson:"subscriber_ids"`
	Posts         []Post    `json:"posts" bson:"posts"`
}

// HasSubscriber reports whether userID is already in the subscriber set.
func (t *Theme) HasSubscriber(userID string) bool {
	for _, id := range t.SubscriberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FindPost returns the post with the given id, or nil.
func (t *Theme) FindPost(postID string) *Post {
	for i := range t.Posts {
		if t.Posts[i].ID == postID {
			return &t.Posts[i]
		}
	}
	return nil
}
