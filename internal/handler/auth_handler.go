package handler

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// 認証まわりのHTTP
type AuthHandler struct {
	login        *auth.LoginUsecase
	magicLink    *auth.MagicLinkUsecase
	status       *auth.StatusUsecase
	setPassword  *auth.SetPasswordUsecase
	me           *auth.MeUsecase
	cookieSecure bool
}

// DI
func NewAuthHandler(
	login *auth.LoginUsecase,
	magicLink *auth.MagicLinkUsecase,
	status *auth.StatusUsecase,
	setPassword *auth.SetPasswordUsecase,
	me *auth.MeUsecase,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		login:        login,
		magicLink:    magicLink,
		status:       status,
		setPassword:  setPassword,
		me:           me,
		cookieSecure: cookieSecure,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// サインイン系の共通レスポンス
type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
	IsNewUser *bool      `json:"isNewUser,omitempty"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/magic-link", h.RequestMagicLink)
	g.GET("/magic-link/verify", h.VerifyMagicLink)
	g.POST("/status", h.Status)
	g.POST("/logout", h.Logout)
	g.POST("/set-password", h.SetPassword, middleware.RequireUser())
	g.GET("/me", h.Me, middleware.RequireUser())
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.login.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}

	h.setSessionCookie(c, out.Token)
	return c.JSON(http.StatusOK, authResponse{Token: out.Token.Token, ExpiresAt: out.Token.ExpiresAt, User: out.User})
}

// 登録済みかどうかに関係なく202
func (h *AuthHandler) RequestMagicLink(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.magicLink.Request(c.Request().Context(), req.Email); err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "magic link sent"})
}

func (h *AuthHandler) VerifyMagicLink(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return badRequest(c, "token is required")
	}

	out, isNew, err := h.magicLink.Verify(c.Request().Context(), token)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	h.setSessionCookie(c, out.Token)
	return c.JSON(http.StatusOK, authResponse{
		Token:     out.Token.Token,
		ExpiresAt: out.Token.ExpiresAt,
		User:      out.User,
		IsNewUser: &isNew,
	})
}

func (h *AuthHandler) Status(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.status.Execute(c.Request().Context(), req.Email)
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) SetPassword(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.setPassword.Execute(c.Request().Context(), s.UserID, req.Password)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	//古いトークンは使えなくなるので差し替える
	h.setSessionCookie(c, out.Token)
	return c.JSON(http.StatusOK, authResponse{Token: out.Token.Token, ExpiresAt: out.Token.ExpiresAt, User: out.User})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.me.Execute(c.Request().Context(), s.UserID)
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, t auth.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    t.Token,
		Path:     "/",
		Expires:  t.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// usecaseのエラー -> HTTPステータス
func (h *AuthHandler) writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidMagicLink):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired link"})
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return badRequest(c, "invalid email format")
	case errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, "password must be at least 6 characters")
	default:
		return writeError(c, err)
	}
}
