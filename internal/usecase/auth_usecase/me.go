package auth

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// ログイン中のユーザー情報
type MeUsecase struct {
	userRepo repository.UserRepository
}

// DI
func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

// 消えたユーザーはErrInvalidCredentials（401）
func (u *MeUsecase) Execute(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
