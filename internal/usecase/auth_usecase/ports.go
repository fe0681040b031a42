package auth

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
)

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")

	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	// magic linkが不正・期限切れ・使用済み
	ErrInvalidMagicLink = errors.New("invalid magic link")
)

// パスワードの最低文字数
const MinPasswordLength = 6

// セッショントークンを発行する約束
type TokenIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

// magic link用トークンの約束
type MagicLinkTokens interface {
	IssueMagicLink(email string, now time.Time) (token string, expiresAt time.Time, err error)
	VerifyMagicLink(ctx context.Context, token string) (email string, err error)
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// メール送信の約束
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// 入力チェックの約束（validatorパッケージが実装）
type Validator interface {
	ValidateEmail(email string) error
	ValidatePassword(password string) error
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// handlerがJSONにして返すトークン
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ログイン系の共通出力
type SignInOutput struct {
	User  model.User   `json:"user"`
	Token SessionToken `json:"session"`
}
