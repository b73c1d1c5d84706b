package config

import (
	"log/slog"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/whatsapp"
	"github.com/urfave/cli/v3"
)

// Twilio holds WhatsApp delivery settings
type Twilio struct {
	AccountSID string
	AuthToken  string
	From       string
}

// Flags returns CLI flags for Twilio configuration
func (t *Twilio) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "twilio-account-sid",
			Usage:       "Twilio account SID",
			Category:    "WhatsApp",
			Sources:     cli.EnvVars("HERMESCAD_TWILIO_ACCOUNT_SID"),
			Destination: &t.AccountSID,
		},
		&cli.StringFlag{
			Name:        "twilio-auth-token",
			Usage:       "Twilio auth token",
			Category:    "WhatsApp",
			Sources:     cli.EnvVars("HERMESCAD_TWILIO_AUTH_TOKEN"),
			Destination: &t.AuthToken,
		},
		&cli.StringFlag{
			Name:        "twilio-whatsapp-from",
			Usage:       "WhatsApp sender number registered with Twilio",
			Category:    "WhatsApp",
			Sources:     cli.EnvVars("HERMESCAD_TWILIO_WHATSAPP_FROM"),
			Destination: &t.From,
		},
	}
}

// Configure creates the WhatsApp transport, or nil when not configured
func (t *Twilio) Configure() *whatsapp.Transport {
	if !t.IsConfigured() {
		return nil
	}
	return whatsapp.New(t.config())
}

// IsConfigured checks if Twilio is properly configured
func (t *Twilio) IsConfigured() bool {
	return t.config().IsConfigured()
}

func (t *Twilio) config() whatsapp.Config {
	return whatsapp.Config{
		AccountSID: t.AccountSID,
		AuthToken:  t.AuthToken,
		From:       t.From,
	}
}

// LogValue returns structured log value
func (t Twilio) LogValue() slog.Value {
	return t.config().LogValue()
}
