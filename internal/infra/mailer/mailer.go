package mailer

import (
	"context"
	"fmt"

	"storefront/internal/logger"

	"gopkg.in/gomail.v2"
)

// 送信部分だけ差し替えられるようにする（テスト用）
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPで送る
type SMTPMailer struct {
	from   string
	dialer sender
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.Info(ctx, "mail sent", "to", to, "subject", subject)
	return nil
}

// SMTP_HOSTが無い開発環境用。本文はログに出す
type LogMailer struct{}

func NewLogMailer() LogMailer { return LogMailer{} }

func (LogMailer) Send(ctx context.Context, to string, subject string, body string) error {
	logger.Info(ctx, "mail (not sent)", "to", to, "subject", subject, "body", body)
	return nil
}
