package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
}

// EmailService delivers verification and reset codes through SendGrid.
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates map[string]*template.Template
}

var _ ports.EmailService = (*EmailService)(nil)

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (*EmailService, error) {
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    client,
		templates: templates,
	}, nil
}

func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	templateDir := "templates/email"

	templateFiles := []string{
		"verification_code.html",
		"password_reset_code.html",
	}

	for _, file := range templateFiles {
		name := file[:len(file)-len(filepath.Ext(file))]

		tmpl, err := template.ParseFiles(filepath.Join(templateDir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}

		templates[name] = tmpl
	}

	return templates, nil
}

func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}

func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// CodeEmailData holds data for the code-bearing templates. ValidMinutes
// mirrors verification.CodeTTL; the templates print it verbatim.
type CodeEmailData struct {
	CompanyName  string
	Code         string
	ValidMinutes int
}

// SendVerificationCode mails a 6-digit account verification code.
func (e *EmailService) SendVerificationCode(ctx context.Context, email, code string) error {
	data := CodeEmailData{
		CompanyName:  e.config.CompanyName,
		Code:         code,
		ValidMinutes: 15,
	}

	htmlContent, err := e.renderTemplate("verification_code", data)
	if err != nil {
		return fmt.Errorf("failed to render verification email template: %w", err)
	}

	subject := fmt.Sprintf("Verify Your Account - %s", e.config.CompanyName)

	return e.sendEmail(email, subject, htmlContent)
}

// SendPasswordResetCode mails a 6-digit password reset code.
func (e *EmailService) SendPasswordResetCode(ctx context.Context, email, code string) error {
	data := CodeEmailData{
		CompanyName:  e.config.CompanyName,
		Code:         code,
		ValidMinutes: 15,
	}

	htmlContent, err := e.renderTemplate("password_reset_code", data)
	if err != nil {
		return fmt.Errorf("failed to render password reset email template: %w", err)
	}

	subject := fmt.Sprintf("Reset Your Password - %s", e.config.CompanyName)

	return e.sendEmail(email, subject, htmlContent)
}
