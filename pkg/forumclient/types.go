package forumclient

import "time"

// Post mirrors the API's post representation.
type Post struct {
	ID        string    `json:"id"`
	ThemeID   string    `json:"theme_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Theme mirrors the API's theme representation. Posts is empty on list
// responses and populated on single-theme responses.
type Theme struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	SubscriberIDs []string  `json:"subscriber_ids"`
	Posts         []Post    `json:"posts"`
}

// User mirrors the API's user representation.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the client-side view of the caller's authentication state.
// It feeds the navigation guard; it carries no security weight of its
// own — the server-side gate re-decides every mutation.
type Session struct {
	Authenticated bool
	UserID        string
	Username      string
}
