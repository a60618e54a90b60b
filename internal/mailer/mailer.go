// Package mailer renders the embedded email templates and delivers them over
// SMTP.  Each template file defines three blocks: "subject", "plainBody" and
// "htmlBody".
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/iliyamo/movie-review-backend/internal/config"
)

//go:embed "templates"
var templateFS embed.FS

// Template files.
const (
	TemplateWelcome       = "welcome.tmpl"
	TemplatePasswordReset = "password_reset.tmpl"
	TemplateContactAck    = "contact_ack.tmpl"
	TemplateContactAdmin  = "contact_admin.tmpl"
	TemplateSubscribed    = "subscribed.tmpl"
)

// Rendered is a message ready to send.
type Rendered struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Render executes templateFile with data.
func Render(templateFile string, data any) (Rendered, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return Rendered{}, err
	}
	var subject, plain bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Rendered{}, err
	}
	if err := tmpl.ExecuteTemplate(&plain, "plainBody", data); err != nil {
		return Rendered{}, err
	}

	htmlTmpl, err := htmltemplate.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return Rendered{}, err
	}
	var html bytes.Buffer
	if err := htmlTmpl.ExecuteTemplate(&html, "htmlBody", data); err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Subject:   strings.TrimSpace(subject.String()),
		PlainBody: strings.TrimSpace(plain.String()),
		HTMLBody:  strings.TrimSpace(html.String()),
	}, nil
}

// Mailer sends rendered templates through one SMTP dialer.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

func New(cfg config.SMTPConfig) Mailer {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 5 * time.Second
	return Mailer{dialer: dialer, sender: cfg.Sender}
}

// Send renders templateFile and delivers it to recipient, retrying up to
// three times.
func (m Mailer) Send(recipient, templateFile string, data any) error {
	r, err := Render(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/plain", r.PlainBody)
	msg.AddAlternative("text/html", r.HTMLBody)

	for i := 1; i <= 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		if i < 3 {
			time.Sleep(500 * time.Millisecond)
		}
	}
	return fmt.Errorf("send %s to %s: %w", templateFile, recipient, err)
}
