// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"

	"momentum_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Provider is the mail surface services depend on.
type Provider interface {
	SendPromoCode(to, code string, discountPercent float64) error
	SendWelcome(to, firstName string) error
}

type SMTPProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
	enabled   bool
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	enabled := cfg.Email.SMTPHost != ""
	var dialer *gomail.Dialer
	if enabled {
		dialer = gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword)
	}
	return &SMTPProvider{
		dialer:    dialer,
		fromEmail: cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
		enabled:   enabled,
	}
}

func (p *SMTPProvider) SendPromoCode(to, code string, discountPercent float64) error {
	subject := "Your personal discount code"
	body := fmt.Sprintf(
		"<p>Welcome aboard!</p>"+
			"<p>Here is your personal promo code: <b>%s</b></p>"+
			"<p>It gives you a <b>%.0f%%</b> discount on any subscription plan. The code is valid for one month.</p>",
		code, discountPercent)
	return p.send(to, subject, body)
}

func (p *SMTPProvider) SendWelcome(to, firstName string) error {
	subject := "Welcome to Momentum"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your account is ready. You have 5 free content generations to try the AI assistant.</p>",
		firstName)
	return p.send(to, subject, body)
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	if !p.enabled {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return p.dialer.DialAndSend(m)
}
