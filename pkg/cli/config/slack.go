package config

import (
	"log/slog"

	slackSvc "github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds settings of the dispatch report channel
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack bot token used to post dispatch reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("HERMESCAD_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving dispatch reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("HERMESCAD_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
	}
}

// ConfigureOptional creates a reporter if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) *slackSvc.Reporter {
	if !s.IsConfigured() {
		logger.Debug("Slack not configured - dispatch reports are disabled")
		return nil
	}

	logger.Info("Configuring Slack reporter", "channel", s.ChannelID)
	return slackSvc.NewReporterFromToken(s.OAuthToken, s.ChannelID)
}

// IsConfigured checks if Slack is properly configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.ChannelID),
	)
}
