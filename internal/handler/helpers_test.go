package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type routes interface {
	RegisterRoutes(e *echo.Echo)
}

// token -> session の固定表
type fakeResolver map[string]session.Session

func (f fakeResolver) Resolve(ctx context.Context, token string) (session.Session, error) {
	s, ok := f[token]
	if !ok {
		return session.Session{}, session.ErrNoSession
	}
	return s, nil
}

const (
	userToken  = "user-token"
	otherToken = "other-token"
	adminToken = "admin-token"
)

var sessions = fakeResolver{
	userToken:  {UserID: 2, Role: model.RoleUser, Email: "user@example.com"},
	otherToken: {UserID: 3, Role: model.RoleUser, Email: "other@example.com"},
	adminToken: {UserID: 1, Role: model.RoleAdmin, Email: "ahsan@example.com"},
}

func newEcho(resolver session.Resolver, hs ...routes) *echo.Echo {
	e := echo.New()
	e.Use(middleware.AccessGate(resolver))
	for _, h := range hs {
		h.RegisterRoutes(e)
	}
	return e
}

// bodyが空文字ならbody無し
func call(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
