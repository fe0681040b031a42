// Package session はリクエストの資格情報からユーザーとロールを解決する。
package session

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// 資格情報が無い・不正・期限切れ
var ErrNoSession = errors.New("no session")

// 使用済みのmagic link
var ErrMagicLinkUsed = errors.New("magic link already used")

type Session struct {
	UserID int64
	Role   model.Role
	Email  string
}

func (s Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// Resolver トークンからセッションを解決する約束。
// アクセスゲートはこれだけに依存する（実装はJWTでも外部プロバイダでもよい）
type Resolver interface {
	Resolve(ctx context.Context, token string) (Session, error)
}
