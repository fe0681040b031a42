package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"

	auth "storefront/internal/usecase/auth_usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct {
	minPasswordLength int
}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.Validator {
	return &authValidator{minPasswordLength: auth.MinPasswordLength}
}

// email形式チェック
func (v *authValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidInput
	}
	if !isEmailLike(email) {
		return ErrInvalidInput
	}
	return nil
}

// パスワード最低文字数
func (v *authValidator) ValidatePassword(password string) error {
	if len(password) < v.minPasswordLength {
		return ErrInvalidInput
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	if !emailLike.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}
