package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/authz"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// FeedHandler serves the global activity feed.
type FeedHandler struct {
	service ports.ThemeService
	gate    *authz.Gate
}

func NewFeedHandler(service ports.ThemeService, gate *authz.Gate) *FeedHandler {
	return &FeedHandler{service: service, gate: gate}
}

// ListPosts handles GET /posts?limit=n — newest posts across all themes.
//
// @Summary      List recent posts across all themes
// @Tags         posts
// @Produce      json
// @Param        limit  query     int  false  "Cap on the number of posts returned"
// @Success      200    {array}   postResponse
// @Failure      400    {object}  errorResponse
// @Router       /posts [get]
func (h *FeedHandler) ListPosts(c echo.Context) error {
	if _, err := gateCheck(c, h.gate, authz.OpListPosts, authz.ResourceRef{}); err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	posts, err := h.service.ListPosts(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}
