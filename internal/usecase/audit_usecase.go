package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, badRequest("invalid paging")
	}
	if f.ResourceType != nil && !f.ResourceType.Valid() {
		return nil, badRequest("invalid resourceType")
	}
	if f.Action != nil && !f.Action.Valid() {
		return nil, badRequest("invalid action")
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, dbError(ctx, "list audit logs", err)
	}
	return logs, nil
}
