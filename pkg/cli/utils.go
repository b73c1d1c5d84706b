package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/cli/config"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/usecase"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/apperr"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// messaging groups the settings shared by every command that sends messages
type messaging struct {
	smtp    config.SMTP
	twilio  config.Twilio
	storage config.Storage
}

func (m *messaging) Flags() []cli.Flag {
	return joinFlags(m.smtp.Flags(), m.twilio.Flags(), m.storage.Flags())
}

// mailingOptions builds transports and the attachment store. cleanup must be
// called once the options are no longer used.
func (m *messaging) mailingOptions(ctx context.Context) ([]usecase.MailingOption, func(), error) {
	store, cleanup, err := m.storage.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []usecase.MailingOption{
		usecase.WithAttachmentStore(store),
	}
	if m.smtp.IsConfigured() {
		opts = append(opts, usecase.WithEmailTransport(m.smtp.Configure()))
	}
	if t := m.twilio.Configure(); t != nil {
		opts = append(opts, usecase.WithWhatsAppTransport(t))
	}

	return opts, cleanup, nil
}

func closeRepository(ctx context.Context, repo interfaces.Repository) {
	if err := repo.Close(); err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to close repository"))
	}
}
