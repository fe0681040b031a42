package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// magic linkの使用済み記録
type MagicLinkRepository interface {
	//初回だけ成功。同じjtiが既にあればErrDuplicate
	Consume(ctx context.Context, link model.UsedMagicLink) error
	//期限切れの記録を消す
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
