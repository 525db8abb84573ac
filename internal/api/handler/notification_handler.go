package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/api/middleware"
	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

const defaultNotificationLimit = 50

// NotificationHandler serves the caller's subscription notifications.
type NotificationHandler struct {
	repo ports.NotificationRepository
}

func NewNotificationHandler(repo ports.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

type notificationResponse struct {
	ThemeID   string    `json:"theme_id"`
	ThemeName string    `json:"theme_name"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// List handles GET /notifications — newest first, caller's own only.
//
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Cap on the number of notifications returned"
// @Success      200    {array}   notificationResponse
// @Failure      401    {object}  errorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated {
		return domain.ErrUnauthenticated
	}

	limit := defaultNotificationLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	notifications, err := h.repo.ListByRecipient(c.Request().Context(), session.UserID, limit)
	if err != nil {
		return err
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{
			ThemeID:   n.ThemeID,
			ThemeName: n.ThemeName,
			PostID:    n.PostID,
			AuthorID:  n.AuthorID,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
