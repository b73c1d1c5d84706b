package smtp

import (
	"log/slog"
	"strings"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

const (
	defaultPort      = 587
	implicitTLSPort  = 465
	defaultHelloName = "localhost"
)

// Config holds the settings of one SMTP account
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	// From is the envelope and header sender. Username is used when empty.
	From string
}

// ConfigFromSystem builds a Config from the stored system configuration
func ConfigFromSystem(cfg *model.SystemConfig) Config {
	return Config{
		Host:     cfg.EmailServer,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
		UseTLS:   cfg.EmailUseTLS,
	}
}

// IsConfigured requires the server and credentials
func (c Config) IsConfigured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c Config) port() int {
	if c.Port == 0 {
		return defaultPort
	}
	return c.Port
}

func (c Config) sender() string {
	if from := strings.TrimSpace(c.From); from != "" {
		return from
	}
	return strings.TrimSpace(c.Username)
}

// LogValue implements slog.LogValuer. The password is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.port()),
		slog.String("username", c.Username),
		slog.Bool("password.set", c.Password != ""),
		slog.Bool("use_tls", c.UseTLS),
		slog.String("from", c.sender()),
	)
}
