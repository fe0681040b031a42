package auth

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	verifier  PasswordVerifier
	issuer    TokenIssuer
	validator Validator
	clock     Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	validator Validator,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		verifier:  verifier,
		issuer:    issuer,
		validator: validator,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (SignInOutput, error) {
	if err := u.validator.ValidateEmail(in.Email); err != nil {
		return SignInOutput{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return SignInOutput{}, ErrInvalidCredentials
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SignInOutput{}, ErrInvalidCredentials
		}
		return SignInOutput{}, err
	}

	//magic linkだけのユーザーはパスワードログイン不可
	if !user.HasPassword() {
		return SignInOutput{}, ErrInvalidCredentials
	}
	if ok := u.verifier.Verify(in.Password, *user.PasswordHash); !ok {
		return SignInOutput{}, ErrInvalidCredentials
	}

	return issueFor(u.issuer, user, u.clock)
}

func issueFor(issuer TokenIssuer, user model.User, clock Clock) (SignInOutput, error) {
	token, exp, err := issuer.Issue(user, clock.Now())
	if err != nil {
		return SignInOutput{}, err
	}
	return SignInOutput{
		User:  user,
		Token: SessionToken{Token: token, ExpiresAt: exp},
	}, nil
}
