package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 200
)

type auditLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// カテゴリ・商品・注文の変更を1件残す
func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if !log.ResourceType.Valid() {
		return fmt.Errorf("unknown audit resource type %q", log.ResourceType)
	}
	if !log.Action.Valid() {
		return fmt.Errorf("unknown audit action %q", log.Action)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return translateError(r.db.WithContext(ctx).Create(&log).Error)
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(auditActor(f.ActorUserID), auditAction(f.Action), auditResource(f.ResourceType, f.ResourceID)).
		Scopes(auditCreatedBetween(f.CreatedFrom, f.CreatedTo), auditPage(f.Limit, f.Offset)).
		Order("created_at desc, id desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func auditActor(id *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where("actor_user_id = ?", *id)
	}
}

func auditAction(a *model.AuditAction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if a == nil {
			return db
		}
		return db.Where("action = ?", *a)
	}
}

// 商品5番の履歴なら resource_type='product' AND resource_id=5
func auditResource(rt *model.AuditResourceType, id *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if rt != nil {
			db = db.Where("resource_type = ?", *rt)
		}
		if id != nil {
			db = db.Where("resource_id = ?", *id)
		}
		return db
	}
}

func auditCreatedBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}

func auditPage(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case limit <= 0:
			limit = defaultAuditLogLimit
		case limit > maxAuditLogLimit:
			limit = maxAuditLogLimit
		}
		if offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}
