package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/models"
)

const userIDKey = "userID"

// JWTAuthMiddleware checks for a valid JWT and stores the resolved user id
// in the request context. Everything behind it can assume an identity.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperrors.Unauthenticated("Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return apperrors.Unauthenticated("Invalid token")
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id, or zero when the
// request is anonymous.
func CurrentUserID(c echo.Context) uint {
	if id, ok := c.Get(userIDKey).(uint); ok {
		return id
	}
	return 0
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades, so the
		// token may arrive as a query parameter instead.
		if t := c.QueryParam("token"); t != "" {
			return t, nil
		}
		return "", apperrors.Unauthenticated("Missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperrors.Unauthenticated("Invalid Authorization header format")
	}
	return parts[1], nil
}
