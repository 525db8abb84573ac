package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---
// Field names follow the wire contract of the original client:
// themeName/postText on theme creation, text on post mutations.

type createThemeRequest struct {
	ThemeName string `json:"themeName" validate:"required"`
	PostText  string `json:"postText"  validate:"required"`
}

type createPostRequest struct {
	Text string `json:"text" validate:"required"`
}

type editPostRequest struct {
	Text string `json:"text" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type postResponse struct {
	ID        string    `json:"id"`
	ThemeID   string    `json:"theme_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type themeResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	CreatedAt     time.Time      `json:"created_at"`
	SubscriberIDs []string       `json:"subscriber_ids"`
	Posts         []postResponse `json:"posts"`
}

// themeSummaryResponse is the lightweight item used in list responses.
// It intentionally omits the posts to keep payloads small.
type themeSummaryResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	SubscriberIDs []string  `json:"subscriber_ids"`
}
