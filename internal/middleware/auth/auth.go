package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenshop/storefront/internal/session"
)

// RequireLogin rejects requests without a valid access token and stores the
// session on the echo context for the handlers.
func RequireLogin(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.FromRequest(c, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			setUserContext(c, s)
			return next(c)
		}
	}
}

func AdminOnly(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.FromRequest(c, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if s.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			setUserContext(c, s)
			return next(c)
		}
	}
}

func setUserContext(c echo.Context, s session.Session) {
	c.Set("userID", s.UserID)
	c.Set("role", s.Role)
}
