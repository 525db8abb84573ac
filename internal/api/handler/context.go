package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/api/middleware"
	"github.com/forumhub/forum-api/internal/core/authz"
	"github.com/forumhub/forum-api/internal/core/domain"
)

// gateCheck runs the authorization gate for the current request and
// records denials. Handlers return immediately on a non-nil error, so a
// denied request never reaches the theme service.
func gateCheck(c echo.Context, gate *authz.Gate, op authz.Operation, ref authz.ResourceRef) (domain.Session, error) {
	session := middleware.SessionFromContext(c)
	if err := gate.Authorize(c.Request().Context(), session, op, ref); err != nil {
		switch err {
		case domain.ErrUnauthenticated:
			metrics.AuthzDeniedTotal.WithLabelValues(op.String(), "unauthenticated").Inc()
		case domain.ErrForbidden:
			metrics.AuthzDeniedTotal.WithLabelValues(op.String(), "forbidden").Inc()
		}
		return session, err
	}
	return session, nil
}
