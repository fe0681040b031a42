package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// メールのリンクで初回サインイン（ユーザー作成）もログインもする
type MagicLinkUsecase struct {
	userRepo  repository.UserRepository
	tokens    MagicLinkTokens
	issuer    TokenIssuer
	mailer    Mailer
	validator Validator
	clock     Clock
	appURL    string
}

// DI
func NewMagicLinkUsecase(
	userRepo repository.UserRepository,
	tokens MagicLinkTokens,
	issuer TokenIssuer,
	mailer Mailer,
	validator Validator,
	clock Clock,
	appURL string,
) *MagicLinkUsecase {
	return &MagicLinkUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		issuer:    issuer,
		mailer:    mailer,
		validator: validator,
		clock:     clock,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

// リンク付きメールを送る
func (u *MagicLinkUsecase) Request(ctx context.Context, email string) error {
	if err := u.validator.ValidateEmail(email); err != nil {
		return ErrInvalidEmailFormat
	}
	email = strings.ToLower(strings.TrimSpace(email))

	token, exp, err := u.tokens.IssueMagicLink(email, u.clock.Now())
	if err != nil {
		return err
	}

	link := u.appURL + "/auth/verify?token=" + url.QueryEscape(token)
	body := fmt.Sprintf(
		"Click the link below to sign in:\n\n%s\n\nThis link expires at %s.\nIf you did not request this email you can ignore it.\n",
		link, exp.UTC().Format("2006-01-02 15:04 MST"),
	)

	if err := u.mailer.Send(ctx, email, "Sign in to Storefront", body); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

// リンクのトークンを検証してサインイン。
// 初回はUSERとして作成し、isNewUser=trueを返す
func (u *MagicLinkUsecase) Verify(ctx context.Context, token string) (SignInOutput, bool, error) {
	email, err := u.tokens.VerifyMagicLink(ctx, token)
	if err != nil {
		return SignInOutput{}, false, ErrInvalidMagicLink
	}

	isNew := false
	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = u.createUser(ctx, email)
		isNew = err == nil
	}
	if err != nil {
		return SignInOutput{}, false, err
	}

	//メール確認済みにする
	if user.EmailVerifiedAt == nil {
		now := u.clock.Now()
		if err := u.userRepo.MarkEmailVerified(ctx, user.ID, now); err != nil {
			return SignInOutput{}, false, err
		}
		user.EmailVerifiedAt = &now
	}

	out, err := issueFor(u.issuer, user, u.clock)
	if err != nil {
		return SignInOutput{}, false, err
	}
	return out, isNew, nil
}

func (u *MagicLinkUsecase) createUser(ctx context.Context, email string) (model.User, error) {
	user := model.User{
		Name:  displayNameFromEmail(email),
		Email: email,
		Role:  model.RoleUser,
	}
	err := u.userRepo.Create(ctx, &user)
	if errors.Is(err, repository.ErrDuplicate) {
		//同時に作られた
		return u.userRepo.FindByEmail(ctx, email)
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// "taro.yamada@example.com" -> "taro.yamada"
func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
