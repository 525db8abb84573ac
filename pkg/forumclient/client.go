// Package forumclient is a typed façade over the forum API. It issues
// the same requests the web client does and surfaces failures as typed
// errors so callers can tell "not logged in" from "not yours" from
// "doesn't exist" without inspecting status codes themselves.
package forumclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrUnauthenticated = errors.New("forumclient: authentication required")
var ErrForbidden = errors.New("forumclient: access forbidden")
var ErrNotFound = errors.New("forumclient: not found")
var ErrInvalidInput = errors.New("forumclient: invalid input")

// Client talks to a forum API server. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken attaches a bearer token to all subsequent requests.
// An empty token reverts the client to anonymous.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Session returns the session the client currently represents, for use
// with the navigation guard. The server remains the authority; this is
// only the client's local snapshot.
func (c *Client) Session(userID, username string) Session {
	if c.token == "" {
		return Session{}
	}
	return Session{Authenticated: true, UserID: userID, Username: username}
}

// --- Auth ---

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authEnvelope struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var env authEnvelope
	err := c.do(ctx, http.MethodPost, "/auth/register", registerPayload{
		Username: username,
		Email:    email,
		Password: password,
	}, &env)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var env authEnvelope
	err := c.do(ctx, http.MethodPost, "/auth/login", loginPayload{
		Username: username,
		Password: password,
	}, &env)
	if err != nil {
		return nil, err
	}
	c.token = env.Token
	return env.User, nil
}

// --- Themes / posts ---

// GetThemes lists all theme summaries.
func (c *Client) GetThemes(ctx context.Context) ([]Theme, error) {
	var themes []Theme
	if err := c.do(ctx, http.MethodGet, "/themes", nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// GetTheme fetches a single theme with its posts.
func (c *Client) GetTheme(ctx context.Context, themeID string) (*Theme, error) {
	var theme Theme
	if err := c.do(ctx, http.MethodGet, "/themes/"+url.PathEscape(themeID), nil, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// GetPosts fetches the global activity feed, newest first.
// limit <= 0 fetches all posts.
func (c *Client) GetPosts(ctx context.Context, limit int) ([]Post, error) {
	path := "/posts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var posts []Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type createThemePayload struct {
	ThemeName string `json:"themeName"`
	PostText  string `json:"postText"`
}

type textPayload struct {
	Text string `json:"text"`
}

// CreateTheme creates a theme and its initial post.
func (c *Client) CreateTheme(ctx context.Context, themeName, postText string) (*Theme, error) {
	var theme Theme
	err := c.do(ctx, http.MethodPost, "/themes", createThemePayload{
		ThemeName: themeName,
		PostText:  postText,
	}, &theme)
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

// CreatePost appends a post to a theme.
func (c *Client) CreatePost(ctx context.Context, themeID, text string) (*Post, error) {
	var post Post
	err := c.do(ctx, http.MethodPost, "/themes/"+url.PathEscape(themeID), textPayload{Text: text}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost replaces the post's text. Author only.
func (c *Client) EditPost(ctx context.Context, themeID, postID, text string) (*Post, error) {
	path := "/themes/" + url.PathEscape(themeID) + "/posts/" + url.PathEscape(postID)
	var post Post
	if err := c.do(ctx, http.MethodPut, path, textPayload{Text: text}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes the post. Author only.
func (c *Client) DeletePost(ctx context.Context, themeID, postID string) error {
	path := "/themes/" + url.PathEscape(themeID) + "/posts/" + url.PathEscape(postID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Subscribe adds the caller to the theme's subscriber set. Calling it
// again is a no-op server-side.
func (c *Client) Subscribe(ctx context.Context, themeID string) (*Theme, error) {
	var theme Theme
	if err := c.do(ctx, http.MethodPut, "/themes/"+url.PathEscape(themeID), nil, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// --- plumbing ---

type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var env errorEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return statusError(resp.StatusCode, env.Error)
}

// statusError maps a response status to the client's typed errors,
// preserving the server's message where it adds detail.
func statusError(status int, message string) error {
	var base error
	switch status {
	case http.StatusUnauthorized:
		base = ErrUnauthenticated
	case http.StatusForbidden:
		base = ErrForbidden
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = ErrInvalidInput
	default:
		return fmt.Errorf("forumclient: unexpected status %d: %s", status, message)
	}
	if message == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, message)
}
