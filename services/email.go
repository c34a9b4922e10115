package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	htmltemplate "html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/metrics"
	"techsupport_pro_go/models"
	"techsupport_pro_go/services/i18n"
	"techsupport_pro_go/templates"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers notification emails
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// ResendMailer sends emails through the Resend API
type ResendMailer struct {
	client   *resend.Client
	from     string
	testMode bool
	log      *zap.Logger
}

// NewResendMailer creates a mailer from the email settings in cfg
func NewResendMailer(cfg *config.Config, log *zap.Logger) *ResendMailer {
	return NewResendMailerWithClient(resend.NewClient(cfg.ResendAPIKey), cfg, log)
}

// NewResendMailerWithClient creates a mailer on a preconfigured Resend client
func NewResendMailerWithClient(client *resend.Client, cfg *config.Config, log *zap.Logger) *ResendMailer {
	return &ResendMailer{
		client:   client,
		from:     fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		testMode: cfg.EmailTestMode,
		log:      log.Named("mailer"),
	}
}

// Send delivers one email. Any error returned by Resend, including a non-2xx
// answer, is reported to the caller.
func (m *ResendMailer) Send(ctx context.Context, email *Email) error {
	if email.HTMLBody == "" && email.TextBody == "" {
		return errors.New("email must have either HTMLBody or TextBody")
	}

	// In test mode, log the email instead of sending
	if m.testMode {
		m.logEmail(email)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	start := time.Now()
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	metrics.RecordExternalCall("resend", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	m.log.Info("Email sent via Resend", zap.String("id", sent.Id), zap.Strings("to", email.To))
	return nil
}

func (m *ResendMailer) logEmail(email *Email) {
	m.log.Info("Email logged (test mode, not sent)",
		zap.Strings("to", email.To),
		zap.String("from", m.from),
		zap.String("subject", email.Subject),
		zap.String("text", email.TextBody),
		zap.String("html", truncate(email.HTMLBody, 500)),
	)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// loadTemplate renders templateName from fsys. It tries templateName_lang first and
// falls back to the base (English) file. HTML and text bodies get separate data so
// each can be escaped for its own medium.
func loadTemplate(fsys fs.FS, templateName, lang string, htmlData, textData interface{}) (string, string, error) {
	read := func(ext string) (string, []byte, error) {
		path := fmt.Sprintf("emails/%s_%s%s", templateName, lang, ext)
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			path = fmt.Sprintf("emails/%s%s", templateName, ext)
			content, err = fs.ReadFile(fsys, path)
			if err != nil {
				return "", nil, fmt.Errorf("failed to read template %s: %w", path, err)
			}
		}
		return path, content, nil
	}

	htmlPath, htmlContent, err := read(".html")
	if err != nil {
		return "", "", err
	}
	htmlTmpl, err := htmltemplate.New(htmlPath).Parse(string(htmlContent))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", htmlPath, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, htmlData); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", htmlPath, err)
	}

	textPath, textContent, err := read(".txt")
	if err != nil {
		return "", "", err
	}
	textTmpl, err := texttemplate.New(textPath).Parse(string(textContent))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", textPath, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, textData); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", textPath, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// ContactNotificationHTML carries sanitized values into the HTML template. The
// sanitizer already escaped them, so they are inserted verbatim.
type ContactNotificationHTML struct {
	Name    htmltemplate.HTML
	Email   htmltemplate.HTML
	Company htmltemplate.HTML
	Message htmltemplate.HTML
}

// ContactNotificationText carries the same values, unescaped, into the text template
type ContactNotificationText struct {
	Name    string
	Email   string
	Company string
	Message string
}

// BuildContactNotificationEmail builds the operator notification for one submission
func BuildContactNotificationEmail(to string, s models.SanitizedSubmission, lang string) (*Email, error) {
	company := s.Company
	if company == "" {
		company = html.EscapeString(i18n.Translate(lang, "email.contact.no_company"))
	}

	htmlData := ContactNotificationHTML{
		Name:    htmltemplate.HTML(s.Name),
		Email:   htmltemplate.HTML(s.Email),
		Company: htmltemplate.HTML(company),
		Message: htmltemplate.HTML(s.Message),
	}
	textData := ContactNotificationText{
		Name:    html.UnescapeString(s.Name),
		Email:   html.UnescapeString(s.Email),
		Company: html.UnescapeString(company),
		Message: html.UnescapeString(s.Message),
	}

	htmlBody, textBody, err := loadTemplate(templates.Emails, "contact_notification", lang, htmlData, textData)
	if err != nil {
		return nil, err
	}

	subject := i18n.Translate(lang, "email.subject.contact_notification", map[string]interface{}{
		"name": html.UnescapeString(s.Name),
	})

	return &Email{
		To:       []string{to},
		Subject:  strings.TrimSpace(subject),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}
