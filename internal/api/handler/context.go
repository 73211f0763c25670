package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. Presence proves the middleware ran; without it the request
// never carried a valid token.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// queryZone returns the optional ?tz= query parameter, the caller's display
// timezone. Empty means "use the caller's stored preference, then the
// business default".
func queryZone(c echo.Context) string {
	return c.QueryParam("tz")
}

// callerZone returns the authenticated caller's stored timezone preference,
// or "" when none is set. Lookup failures fall through to the business
// default rather than failing the read.
func callerZone(c echo.Context, accounts ports.AuthService) string {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ""
	}
	user, err := accounts.User(c.Request().Context(), userID)
	if err != nil {
		return ""
	}
	return user.Timezone
}
