package repository

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type magicLinkGormRepository struct {
	db *gorm.DB
}

// DI
func NewMagicLinkGormRepository(db *gorm.DB) repo.MagicLinkRepository {
	return &magicLinkGormRepository{db: db}
}

// INSERT ... ON CONFLICT (jti) DO NOTHING。
// 0行なら既に使われている
func (r *magicLinkGormRepository) Consume(ctx context.Context, link model.UsedMagicLink) error {
	link.Email = strings.ToLower(strings.TrimSpace(link.Email))

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&link)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrDuplicate
	}
	return nil
}

func (r *magicLinkGormRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.UsedMagicLink{})
	return res.RowsAffected, res.Error
}
