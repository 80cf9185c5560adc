package mailer

import (
	"bytes"
	"fmt"

	mail "github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	smtpHost = "smtp.qq.com"
	smtpPort = 465
)

// Mailer sends markdown excerpts over SMTP with implicit TLS, attaching
// both a plain-text and a rendered HTML body.
type Mailer struct {
	username string
	password string
}

func New(username, password string) *Mailer {
	return &Mailer{username: username, password: password}
}

// SendMarkdown sends the given markdown to the recipients as a multipart
// alternative message.
func (m *Mailer) SendMarkdown(subject, markdown string, recipients []string) error {
	html, err := RenderHTML(markdown)
	if err != nil {
		return fmt.Errorf("failed to render mail body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.username); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, markdown)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(smtpHost,
		mail.WithPort(smtpPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	return client.DialAndSend(msg)
}

// RenderHTML converts markdown to HTML with GFM extensions.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
