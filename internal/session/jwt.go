package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	tokenTypeSession   = "session"
	tokenTypeMagicLink = "magic_link"
)

type claims struct {
	Role  string `json:"role,omitempty"`
	TV    int    `json:"tv"`
	Type  string `json:"typ"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HS256のセッショントークンとmagic linkトークンを扱う
type JWTService struct {
	secret       []byte
	sessionTTL   time.Duration
	magicLinkTTL time.Duration
	users        repository.UserRepository
	links        repository.MagicLinkRepository
}

// DI
func NewJWTService(
	secret string,
	sessionTTL, magicLinkTTL time.Duration,
	users repository.UserRepository,
	links repository.MagicLinkRepository,
) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		sessionTTL:   sessionTTL,
		magicLinkTTL: magicLinkTTL,
		users:        users,
		links:        links,
	}
}

// セッショントークン発行（sub/role/tv）
func (s *JWTService) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.sessionTTL)

	c := claims{
		Role: string(user.Role),
		TV:   user.TokenVersion,
		Type: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := s.sign(c)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Resolve トークンを検証し、DBの最新ユーザーでセッションを作る。
// ロールはDBの値を使い、token_versionが違えば無効。
func (s *JWTService) Resolve(ctx context.Context, token string) (Session, error) {
	c, err := s.parse(token, tokenTypeSession)
	if err != nil {
		return Session{}, err
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, ErrNoSession
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("resolve session: %w", err)
	}

	//token_version が一致しなければ強制ログアウト扱い
	if user.TokenVersion != c.TV {
		return Session{}, ErrNoSession
	}

	return Session{UserID: user.ID, Role: user.Role, Email: user.Email}, nil
}

// magic link用の短命トークン。jtiで1回だけ使える
func (s *JWTService) IssueMagicLink(email string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.magicLinkTTL)

	c := claims{
		Type:  tokenTypeMagicLink,
		Email: strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := s.sign(c)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// magic linkトークンを検証し、使用済みにしてemailを返す。
// 2回目以降はErrMagicLinkUsed
func (s *JWTService) VerifyMagicLink(ctx context.Context, token string) (string, error) {
	c, err := s.parse(token, tokenTypeMagicLink)
	if err != nil {
		return "", err
	}
	if c.Email == "" || c.ID == "" || c.ExpiresAt == nil {
		return "", ErrNoSession
	}

	err = s.links.Consume(ctx, model.UsedMagicLink{
		JTI:       c.ID,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
		UsedAt:    time.Now(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return "", ErrMagicLinkUsed
	}
	if err != nil {
		return "", fmt.Errorf("consume magic link: %w", err)
	}
	return c.Email, nil
}

func (s *JWTService) sign(c claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

func (s *JWTService) parse(raw string, wantType string) (*claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoSession
	}

	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrNoSession
	}

	//セッション用とmagic link用を取り違えない
	if c.Type != wantType {
		return nil, ErrNoSession
	}
	return &c, nil
}
