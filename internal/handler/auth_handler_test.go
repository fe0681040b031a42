package handler_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	user.ID = 42
	return args.Error(0)
}
func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}
func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}
func (m *UserRepoMock) SetPassword(ctx context.Context, userID int64, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}
func (m *UserRepoMock) MarkEmailVerified(ctx context.Context, userID int64, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}
func (m *UserRepoMock) UpsertByEmail(ctx context.Context, user *model.User) error {
	panic("not used in handler tests")
}

// 使用済みjtiをメモリで持つ
type usedLinks struct {
	mu   sync.Mutex
	jtis map[string]bool
}

func (l *usedLinks) Consume(ctx context.Context, link model.UsedMagicLink) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.jtis[link.JTI] {
		return repo.ErrDuplicate
	}
	l.jtis[link.JTI] = true
	return nil
}

func (l *usedLinks) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	panic("not used in handler tests")
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 送ったメールを貯める
type outbox struct {
	bodies []string
}

func (o *outbox) Send(ctx context.Context, to string, subject string, body string) error {
	o.bodies = append(o.bodies, body)
	return nil
}

type authFixture struct {
	users *UserRepoMock
	jwt   *session.JWTService
	mail  *outbox
	h     *handler.AuthHandler
}

func newAuthFixture() authFixture {
	users := new(UserRepoMock)
	jwtSvc := session.NewJWTService("test-secret", time.Hour, 15*time.Minute, users, &usedLinks{jtis: map[string]bool{}})
	clock := fixedClock{t: time.Now()}
	v := validator.NewAuthValidator()
	mail := &outbox{}

	h := handler.NewAuthHandler(
		auth.NewLoginUsecase(users, auth.NewBcryptPasswordVerifier(), jwtSvc, v, clock),
		auth.NewMagicLinkUsecase(users, jwtSvc, jwtSvc, mail, v, clock, "http://shop.test"),
		auth.NewStatusUsecase(users, v),
		auth.NewSetPasswordUsecase(users, auth.NewBcryptPasswordHasher(bcrypt.MinCost), jwtSvc, v, clock),
		auth.NewMeUsecase(users),
		false,
	)
	return authFixture{users: users, jwt: jwtSvc, mail: mail, h: h}
}

func hashOf(t *testing.T, plain string) *string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(b)
	return &s
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	f := newAuthFixture()
	e := newEcho(f.jwt, f.h)

	admin := model.User{ID: 1, Name: "Ahsan", Email: "ahsan@example.com", Role: model.RoleAdmin, PasswordHash: hashOf(t, "123456")}
	f.users.On("FindByEmail", mock.Anything, "ahsan@example.com").Return(admin, nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(admin, nil)

	rec := call(e, http.MethodPost, "/auth/login", "", `{"email":"ahsan@example.com","password":"wrong1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = call(e, http.MethodPost, "/auth/login", "", `{"email":"ahsan@example.com","password":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}](t, rec)
	require.NotEmpty(t, got.Token)
	assert.Equal(t, "ahsan@example.com", got.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Equal(t, got.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = call(e, http.MethodGet, "/auth/me", got.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", decode[map[string]any](t, rec)["role"])

	rec = call(e, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_MagicLink(t *testing.T) {
	f := newAuthFixture()
	e := newEcho(f.jwt, f.h)

	rec := call(e, http.MethodPost, "/auth/magic-link", "", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e, http.MethodPost, "/auth/magic-link", "", `{"email":"Taro@Example.com"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, f.mail.bodies, 1)

	token, _, err := f.jwt.IssueMagicLink("taro@example.com", time.Now())
	require.NoError(t, err)

	f.users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{}, repo.ErrNotFound).Once()
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" && u.Role == model.RoleUser && u.Name == "taro"
	})).Return(nil).Once()
	f.users.On("MarkEmailVerified", mock.Anything, int64(42), mock.Anything).Return(nil).Once()

	rec = call(e, http.MethodGet, "/auth/magic-link/verify?token="+token, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]any](t, rec)
	assert.Equal(t, true, got["isNewUser"])
	assert.NotEmpty(t, got["token"])
	assert.Len(t, rec.Result().Cookies(), 1)

	// 同じリンクでもう一度サインインはできない
	rec = call(e, http.MethodGet, "/auth/magic-link/verify?token="+token, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = call(e, http.MethodGet, "/auth/magic-link/verify?token=garbage", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodGet, "/auth/magic-link/verify", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.users.AssertExpectations(t)
}

func TestAuthHandler_StatusSetPasswordLogout(t *testing.T) {
	f := newAuthFixture()
	e := newEcho(f.jwt, f.h)

	user := model.User{ID: 5, Email: "a@example.com", Role: model.RoleUser}
	f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()

	rec := call(e, http.MethodPost, "/auth/status", "", `{"email":"a@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true,"hasPassword":false}`, rec.Body.String())

	token, _, err := f.jwt.Issue(user, time.Now())
	require.NoError(t, err)

	f.users.On("FindByID", mock.Anything, int64(5)).Return(user, nil).Once()
	rec = call(e, http.MethodPost, "/auth/set-password", token, `{"password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bumped := user
	bumped.TokenVersion = 1
	f.users.On("FindByID", mock.Anything, int64(5)).Return(user, nil).Once()
	f.users.On("SetPassword", mock.Anything, int64(5), mock.AnythingOfType("string")).Return(nil).Once()
	// token_versionが上がった後
	f.users.On("FindByID", mock.Anything, int64(5)).Return(bumped, nil).Once()

	rec = call(e, http.MethodPost, "/auth/set-password", token, `{"password":"s3cret!"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decode[map[string]any](t, rec)["token"]
	assert.NotEqual(t, token, fresh)

	rec = call(e, http.MethodPost, "/auth/set-password", "", `{"password":"s3cret!"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
