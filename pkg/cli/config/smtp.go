package config

import (
	"log/slog"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/smtp"
	"github.com/urfave/cli/v3"
)

// SMTP holds mail server settings given on the command line. When they are
// incomplete the settings stored in the system configuration are used.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
}

// Flags returns CLI flags for SMTP configuration
func (s *SMTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host",
			Category:    "SMTP",
			Sources:     cli.EnvVars("HERMESCAD_SMTP_HOST"),
			Destination: &s.Host,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port (465 uses implicit TLS)",
			Category:    "SMTP",
			Value:       587,
			Sources:     cli.EnvVars("HERMESCAD_SMTP_PORT"),
			Destination: &s.Port,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username",
			Category:    "SMTP",
			Sources:     cli.EnvVars("HERMESCAD_SMTP_USERNAME"),
			Destination: &s.Username,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Category:    "SMTP",
			Sources:     cli.EnvVars("HERMESCAD_SMTP_PASSWORD"),
			Destination: &s.Password,
		},
		&cli.BoolFlag{
			Name:        "smtp-use-tls",
			Usage:       "Use STARTTLS, or implicit TLS on port 465",
			Category:    "SMTP",
			Value:       true,
			Sources:     cli.EnvVars("HERMESCAD_SMTP_USE_TLS"),
			Destination: &s.UseTLS,
		},
		&cli.StringFlag{
			Name:        "smtp-from",
			Usage:       "Sender address (defaults to the username)",
			Category:    "SMTP",
			Sources:     cli.EnvVars("HERMESCAD_SMTP_FROM"),
			Destination: &s.From,
		},
	}
}

// Configure creates the SMTP transport
func (s *SMTP) Configure() *smtp.Transport {
	return smtp.New(s.config())
}

// IsConfigured reports whether the flags alone can open a session
func (s *SMTP) IsConfigured() bool {
	return s.config().IsConfigured()
}

func (s *SMTP) config() smtp.Config {
	return smtp.Config{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
		UseTLS:   s.UseTLS,
		From:     s.From,
	}
}

// LogValue returns structured log value
func (s SMTP) LogValue() slog.Value {
	return s.config().LogValue()
}
