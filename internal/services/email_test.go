package services

import (
	"testing"

	"github.com/dimitrije/taskmanager-api/internal/config"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func fullSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user@example.com",
		Password: "password",
		From:     "noreply@example.com",
	}
}

func TestEmailService_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.SMTPConfig)
		want   bool
	}{
		{"complete", func(*config.SMTPConfig) {}, true},
		{"missing host", func(c *config.SMTPConfig) { c.Host = "" }, false},
		{"missing username", func(c *config.SMTPConfig) { c.Username = "" }, false},
		{"missing password", func(c *config.SMTPConfig) { c.Password = "" }, false},
		{"missing from", func(c *config.SMTPConfig) { c.From = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullSMTPConfig()
			tt.mutate(&cfg)
			logger, _ := test.NewNullLogger()

			assert.Equal(t, tt.want, NewEmailService(cfg, logger).IsConfigured())
		})
	}
}

func TestEmailService_Send_NotConfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewEmailService(config.SMTPConfig{}, logger)

	err := svc.Send("to@example.com", "Subject", "Body")

	assert.NoError(t, err)
}

func TestEmailService_SendTeamInvitation_NotConfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewEmailService(config.SMTPConfig{}, logger)

	err := svc.SendTeamInvitation("to@example.com", "Test Team", "John Doe", "http://example.com/invitations/123")

	assert.NoError(t, err)
}
