package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/core/authz"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// ThemeHandler handles HTTP requests for themes and their posts.
type ThemeHandler struct {
	service ports.ThemeService
	gate    *authz.Gate
}

func NewThemeHandler(service ports.ThemeService, gate *authz.Gate) *ThemeHandler {
	return &ThemeHandler{service: service, gate: gate}
}

// List handles GET /themes.
//
// @Summary      List themes
// @Tags         themes
// @Produce      json
// @Success      200  {array}   themeSummaryResponse
// @Failure      500  {object}  errorResponse
// @Router       /themes [get]
func (h *ThemeHandler) List(c echo.Context) error {
	if _, err := gateCheck(c, h.gate, authz.OpListThemes, authz.ResourceRef{}); err != nil {
		return err
	}

	themes, err := h.service.ListThemes(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]themeSummaryResponse, 0, len(themes))
	for _, t := range themes {
		resp = append(resp, toThemeSummaryResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /themes/:themeId.
//
// @Summary      Get a theme with its posts
// @Tags         themes
// @Produce      json
// @Param        themeId  path      string  true  "Theme id"
// @Success      200      {object}  themeResponse
// @Failure      404      {object}  errorResponse
// @Router       /themes/{themeId} [get]
func (h *ThemeHandler) Get(c echo.Context) error {
	if _, err := gateCheck(c, h.gate, authz.OpReadTheme, authz.ResourceRef{ThemeID: c.Param("themeId")}); err != nil {
		return err
	}

	theme, err := h.service.GetTheme(c.Request().Context(), c.Param("themeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toThemeResponse(theme))
}

// Create handles POST /themes — creates a theme and its initial post.
//
// @Summary      Create a theme with an initial post
// @Tags         themes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createThemeRequest  true  "Theme name and initial post text"
// @Success      201   {object}  themeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /themes [post]
func (h *ThemeHandler) Create(c echo.Context) error {
	session, err := gateCheck(c, h.gate, authz.OpCreateTheme, authz.ResourceRef{})
	if err != nil {
		return err
	}

	var req createThemeRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	theme, err := h.service.CreateTheme(c.Request().Context(), ports.CreateThemeInput{
		UserID:    session.UserID,
		ThemeName: req.ThemeName,
		PostText:  req.PostText,
	})
	if err != nil {
		return err
	}

	metrics.ThemesCreatedTotal.Inc()
	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toThemeResponse(theme))
}

// CreatePost handles POST /themes/:themeId — appends a post.
//
// @Summary      Create a post in a theme
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        themeId  path      string             true  "Theme id"
// @Param        body     body      createPostRequest  true  "Post text"
// @Success      201      {object}  postResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /themes/{themeId} [post]
func (h *ThemeHandler) CreatePost(c echo.Context) error {
	session, err := gateCheck(c, h.gate, authz.OpCreatePost, authz.ResourceRef{ThemeID: c.Param("themeId")})
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		UserID:  session.UserID,
		ThemeID: c.Param("themeId"),
		Text:    req.Text,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Subscribe handles PUT /themes/:themeId — adds the caller to the
// theme's subscriber set. Subscribing twice is an idempotent no-op.
//
// @Summary      Subscribe to a theme
// @Tags         themes
// @Produce      json
// @Security     BearerAuth
// @Param        themeId  path      string  true  "Theme id"
// @Success      200      {object}  themeResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /themes/{themeId} [put]
func (h *ThemeHandler) Subscribe(c echo.Context) error {
	session, err := gateCheck(c, h.gate, authz.OpSubscribe, authz.ResourceRef{ThemeID: c.Param("themeId")})
	if err != nil {
		return err
	}

	theme, err := h.service.Subscribe(c.Request().Context(), session.UserID, c.Param("themeId"))
	if err != nil {
		return err
	}

	metrics.SubscriptionsTotal.Inc()
	return c.JSON(http.StatusOK, toThemeResponse(theme))
}

// EditPost handles PUT /themes/:themeId/posts/:postId — author only.
//
// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        themeId  path      string           true  "Theme id"
// @Param        postId   path      string           true  "Post id"
// @Param        body     body      editPostRequest  true  "New post text"
// @Success      200      {object}  postResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /themes/{themeId}/posts/{postId} [put]
func (h *ThemeHandler) EditPost(c echo.Context) error {
	ref := authz.ResourceRef{ThemeID: c.Param("themeId"), PostID: c.Param("postId")}
	session, err := gateCheck(c, h.gate, authz.OpEditPost, ref)
	if err != nil {
		return err
	}

	var req editPostRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.service.EditPost(c.Request().Context(), ports.EditPostInput{
		UserID:  session.UserID,
		ThemeID: ref.ThemeID,
		PostID:  ref.PostID,
		Text:    req.Text,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// DeletePost handles DELETE /themes/:themeId/posts/:postId — author only.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        themeId  path  string  true  "Theme id"
// @Param        postId   path  string  true  "Post id"
// @Success      204      "deleted"
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /themes/{themeId}/posts/{postId} [delete]
func (h *ThemeHandler) DeletePost(c echo.Context) error {
	ref := authz.ResourceRef{ThemeID: c.Param("themeId"), PostID: c.Param("postId")}
	session, err := gateCheck(c, h.gate, authz.OpDeletePost, ref)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), ports.DeletePostInput{
		UserID:  session.UserID,
		ThemeID: ref.ThemeID,
		PostID:  ref.PostID,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
