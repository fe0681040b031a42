package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	//無ければErrNotFound
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//emailは小文字で検索。無ければErrNotFound
	FindByEmail(ctx context.Context, email string) (model.User, error)

	//パスワード更新。token_versionを+1して古いセッションを無効にする
	SetPassword(ctx context.Context, userID int64, passwordHash string) error
	MarkEmailVerified(ctx context.Context, userID int64, at time.Time) error

	//seed用（emailが既にあれば何もしない）
	UpsertByEmail(ctx context.Context, user *model.User) error
}
