package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ErrUnauthenticated means the request carries no usable access token. The
// presence of a valid token is the sole authentication signal; sign-in
// itself is handled by the external auth service.
var ErrUnauthenticated = errors.New("unauthenticated")

type Session struct {
	UserID uint
	Role   string
}

// FromRequest extracts the session from the accessToken cookie.
func FromRequest(c echo.Context, jwtSecret []byte) (Session, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil || cookie.Value == "" {
		return Session{}, ErrUnauthenticated
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrUnauthenticated
	}
	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return Session{}, ErrUnauthenticated
	}

	s := Session{UserID: uint(subRaw)}
	if role, ok := claims["role"].(string); ok {
		s.Role = role
	}
	return s, nil
}

// Sign issues an HS256 access token. Used by tests and local tooling; the
// production token comes from the auth service with the same shape.
func Sign(userID uint, role string, jwtSecret []byte, expUnix int64) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  expUnix,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(jwtSecret)
}
