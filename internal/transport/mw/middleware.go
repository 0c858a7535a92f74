package mw

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JWTAuth validates the HS256 session token and stores the student id in
// the echo context under "studentID".
//
// The token comes from the Authorization header; EventSource cannot set
// headers, so the SSE endpoint may pass it as a ?token= query parameter
// instead.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c)
			if tokenStr == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn().Err(err).Str("path", c.Path()).Msg("JWT verification failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			studentID := studentIDClaim(claims)
			if studentID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "token carries no student id")
			}

			c.Set("studentID", studentID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.QueryParam("token")
}

// studentIDClaim accepts both "studentId" and "sub"; JSON numbers decode
// as float64.
func studentIDClaim(claims jwt.MapClaims) int64 {
	for _, key := range []string{"studentId", "sub"} {
		switch v := claims[key].(type) {
		case float64:
			return int64(v)
		case string:
			var id int64
			if _, err := fmt.Sscan(v, &id); err == nil {
				return id
			}
		}
	}
	return 0
}
