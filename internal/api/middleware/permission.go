package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/api/metrics"
	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// deniedResponse is the body returned when the gate refuses access. It
// carries the permission the route required so clients can explain the
// refusal, plus an optional route-supplied message.
type deniedResponse struct {
	Error              string `json:"error"`
	RequiredPermission string `json:"required_permission"`
	Message            string `json:"message,omitempty"`
}

// GateOption customizes a RequirePermission gate.
type GateOption func(*gateConfig)

type gateConfig struct {
	message string
}

// WithDeniedMessage attaches an explanatory message to denied responses.
func WithDeniedMessage(msg string) GateOption {
	return func(g *gateConfig) { g.message = msg }
}

// RequirePermission gates a route behind one permission key. The request
// proceeds only when the authenticated user's permission set maps the key to
// true; an absent key reads as an explicit denial, not an error.
//
// Outcomes, in order of evaluation:
//   - no user identity in context (Auth missing or token invalid): 401
//   - permission lookup fails: propagated error (500 via error handler)
//   - key not granted: 403 with the required permission named
//   - granted: next handler
func RequirePermission(perms ports.PermissionService, permission string, opts ...GateOption) echo.MiddlewareFunc {
	cfg := gateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				metrics.PermissionChecksTotal.WithLabelValues(permission, "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			set, err := perms.PermissionsFor(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.PermissionChecksTotal.WithLabelValues(permission, "unauthenticated").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return err
			}

			if !set.Has(permission) {
				metrics.PermissionChecksTotal.WithLabelValues(permission, "denied").Inc()
				return c.JSON(http.StatusForbidden, deniedResponse{
					Error:              "forbidden",
					RequiredPermission: permission,
					Message:            cfg.message,
				})
			}

			metrics.PermissionChecksTotal.WithLabelValues(permission, "authorized").Inc()
			return next(c)
		}
	}
}
