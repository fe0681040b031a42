package auth

import (
	"context"

	"storefront/internal/repository"
)

// ログイン中のユーザーがパスワードを設定・変更する
type SetPasswordUsecase struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator Validator
	clock     Clock
}

// DI
func NewSetPasswordUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	validator Validator,
	clock Clock,
) *SetPasswordUsecase {
	return &SetPasswordUsecase{
		userRepo:  userRepo,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
		clock:     clock,
	}
}

// token_versionが上がるので新しいトークンを返す
func (u *SetPasswordUsecase) Execute(ctx context.Context, userID int64, password string) (SignInOutput, error) {
	if err := u.validator.ValidatePassword(password); err != nil {
		return SignInOutput{}, ErrPasswordTooShort
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return SignInOutput{}, err
	}

	if err := u.userRepo.SetPassword(ctx, userID, hashed); err != nil {
		return SignInOutput{}, err
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return SignInOutput{}, err
	}
	return issueFor(u.issuer, user, u.clock)
}
