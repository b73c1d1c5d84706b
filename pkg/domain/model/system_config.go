package model

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// SystemConfigID is the primary key of the singleton configuration row
	SystemConfigID = 1

	// PasswordMask replaces the stored email password in responses.
	// Saving the mask back leaves the stored password unchanged.
	PasswordMask = "***"

	defaultPrimaryColor   = "#007bff"
	defaultSecondaryColor = "#6c757d"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SystemConfig holds mail server settings and branding of the installation
type SystemConfig struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	EmailServer   string `json:"email_server" gorm:"size:200"`
	EmailPort     int    `json:"email_port"`
	EmailUser     string `json:"email_user" gorm:"size:120"`
	EmailPassword string `json:"email_password" gorm:"size:200"`
	EmailUseTLS   bool   `json:"email_use_tls"`

	PrimaryColor   string `json:"primary_color" gorm:"size:7"`
	SecondaryColor string `json:"secondary_color" gorm:"size:7"`
	LogoURL        string `json:"logo_url" gorm:"size:500"`
	Slogan         string `json:"slogan" gorm:"size:200"`
	CompanyName    string `json:"company_name" gorm:"size:200"`
}

// NewSystemConfig returns the configuration used before anything is saved
func NewSystemConfig() *SystemConfig {
	return &SystemConfig{
		ID:             SystemConfigID,
		EmailUseTLS:    true,
		PrimaryColor:   defaultPrimaryColor,
		SecondaryColor: defaultSecondaryColor,
	}
}

// Masked returns a copy safe to return to clients
func (c *SystemConfig) Masked() *SystemConfig {
	masked := *c
	if masked.EmailPassword != "" {
		masked.EmailPassword = PasswordMask
	}
	return &masked
}

// KeepSecret restores the stored password when the caller echoed the mask back
func (c *SystemConfig) KeepSecret(stored *SystemConfig) {
	if c.EmailPassword == PasswordMask && stored != nil {
		c.EmailPassword = stored.EmailPassword
	}
}

// HasEmailSettings reports whether enough is stored to open a mail session
func (c *SystemConfig) HasEmailSettings() bool {
	return c.EmailServer != "" && c.EmailUser != "" && c.EmailPassword != ""
}

// Validate checks ports and colors
func (c *SystemConfig) Validate() error {
	if c.EmailPort < 0 || c.EmailPort > 65535 {
		return goerr.Wrap(ErrInvalidRequest, "invalid email port",
			goerr.V("port", c.EmailPort))
	}
	for name, color := range map[string]string{
		"primary_color":   c.PrimaryColor,
		"secondary_color": c.SecondaryColor,
	} {
		if color != "" && !hexColorPattern.MatchString(color) {
			return goerr.Wrap(ErrInvalidRequest, "color must be #RRGGBB",
				goerr.V("field", name),
				goerr.V("value", color))
		}
	}
	return nil
}
