package services

import (
	"fmt"
	"html"

	"github.com/dimitrije/taskmanager-api/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailService sends notification mail over SMTP. Without a complete SMTP
// configuration every send is a no-op.
type EmailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    logrus.FieldLogger
}

func NewEmailService(cfg config.SMTPConfig, log logrus.FieldLogger) *EmailService {
	svc := &EmailService{cfg: cfg, log: log}
	if svc.IsConfigured() {
		svc.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return svc
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("email sent")
	return nil
}

func (s *EmailService) SendTeamInvitation(to, teamName, inviterName, invitationURL string) error {
	subject := fmt.Sprintf("You've been invited to join %s", teamName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Team Invitation</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has invited you to join the team <strong>%s</strong>.</p>
			<p><a href="%s">View the invitation</a> and accept or reject it from your account.</p>
		</body>
		</html>
	`, html.EscapeString(inviterName), html.EscapeString(teamName), invitationURL)

	return s.Send(to, subject, body)
}
