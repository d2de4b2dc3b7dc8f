package http

import (
	"fmt"
	"net/http"
	"strings"

	"golang-portfolio-advisor/internal/advisor/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

// JWTAuth resolves the caller from an HS256 bearer token. The subject claim is the user id.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing bearer token"})
			}

			token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid token"})
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid token subject"})
			}

			c.Set(userIDContextKey, subject)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller set by JWTAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
