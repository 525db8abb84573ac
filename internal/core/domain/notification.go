package domain

import "time"

// Notification tells a theme subscriber that a new post was created.
type Notification struct {
	ThemeID     string    `json:"theme_id"`
	ThemeName   string    `json:"theme_name"`
	PostID      string    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	RecipientID string    `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`
}
