package email

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/config"
)

func TestSendStatusUpdate(t *testing.T) {
	svc := NewEmailService(&config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPEmail:    "jobs@example.com",
		SMTPPassword: "pw",
	})
	require.True(t, svc.IsConfigured())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := svc.SendStatusUpdate(StatusEmailData{
		ApplicantName:  "Asha <b>",
		ApplicantEmail: "asha@example.com",
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
		Status:         "accepted",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "jobs@example.com", gotFrom)
	assert.Equal(t, []string{"asha@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Application update: Backend Engineer")
	assert.Contains(t, string(gotMsg), "accepted")
	assert.Contains(t, string(gotMsg), "Asha &lt;b&gt;")
}

func TestIsConfigured(t *testing.T) {
	svc := NewEmailService(&config.Config{SMTPHost: "smtp.example.com"})
	assert.False(t, svc.IsConfigured())
}
