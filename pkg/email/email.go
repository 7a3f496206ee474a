package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go-jobboard-backend/config"
)

// EmailService sends transactional mail over SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// StatusEmailData is rendered into the application status notification
type StatusEmailData struct {
	ApplicantName  string
	ApplicantEmail string
	JobTitle       string
	Company        string
	Status         string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPEmail,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPEmail,
		send:      smtp.SendMail,
	}
}

var statusEmailTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application update</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .status { display: inline-block; padding: 4px 12px; border-radius: 4px; background: #1E3A5F; color: white; text-transform: capitalize; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your application was updated</h1>
        </div>
        <div class="content">
            <p>Hi {{.ApplicantName}},</p>
            <p>Your application for <strong>{{.JobTitle}}</strong>{{if .Company}} at <strong>{{.Company}}</strong>{{end}} is now:</p>
            <p><span class="status">{{.Status}}</span></p>
        </div>
        <div class="footer">
            <p>You are receiving this because you applied through the job board.</p>
        </div>
    </div>
</body>
</html>`))

// SendStatusUpdate notifies an applicant that a recruiter changed their
// application status.
func (s *EmailService) SendStatusUpdate(data StatusEmailData) error {
	msg, err := s.buildStatusMessage(data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{data.ApplicantEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildStatusMessage(data StatusEmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := statusEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Application update: %s", data.JobTitle)
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		data.ApplicantEmail,
		subject,
		body.String(),
	)), nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
