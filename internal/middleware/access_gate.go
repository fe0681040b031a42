package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	// ブラウザ向けのセッションcookie名
	SessionCookieName = "session"

	ctxSessionKey = "session"
)

// 資格情報（Bearer or cookie）を解決してcontextに入れる。
// 無い・不正な場合は匿名のまま次へ進む（拒否はRequireUser/RequireAdminで行う）
func AccessGate(resolver session.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			s, err := resolver.Resolve(ctx, raw)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					logger.Warn(ctx, "session resolve failed", "error", err)
				}
				return next(c)
			}

			c.Set(ctxSessionKey, s)
			return next(c)
		}
	}
}

// currentUser()
func CurrentUser(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(ctxSessionKey).(session.Session)
	if !ok || s.UserID <= 0 {
		return session.Session{}, false
	}
	return s, true
}

// サインイン必須
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// requireAdmin()。一般ユーザーも未ログインと同じ401
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := CurrentUser(c)
			if !ok || !s.IsAdmin() {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// Authorization: Bearer を優先し、無ければcookie
func tokenFromRequest(c echo.Context) string {
	if authz := c.Request().Header.Get(echo.HeaderAuthorization); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
