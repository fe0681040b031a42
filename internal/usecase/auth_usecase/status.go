package auth

import (
	"context"
	"errors"

	"storefront/internal/repository"
)

// サインイン画面でパスワード入力を出すかの判定に使う
type StatusOutput struct {
	Exists      bool `json:"exists"`
	HasPassword bool `json:"hasPassword"`
}

type StatusUsecase struct {
	userRepo  repository.UserRepository
	validator Validator
}

// DI
func NewStatusUsecase(userRepo repository.UserRepository, validator Validator) *StatusUsecase {
	return &StatusUsecase{userRepo: userRepo, validator: validator}
}

func (u *StatusUsecase) Execute(ctx context.Context, email string) (StatusOutput, error) {
	if err := u.validator.ValidateEmail(email); err != nil {
		return StatusOutput{}, ErrInvalidEmailFormat
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return StatusOutput{Exists: false, HasPassword: false}, nil
	}
	if err != nil {
		return StatusOutput{}, err
	}
	return StatusOutput{Exists: true, HasPassword: user.HasPassword()}, nil
}
