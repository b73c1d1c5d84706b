package usecase

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/smtp"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/async"
)

const defaultReportTimeout = 30 * time.Second

// EmailTransportFactory builds the email transport from stored settings
type EmailTransportFactory func(cfg *model.SystemConfig) interfaces.Transport

// MailingOption is a functional option for configuring Mailing
type MailingOption func(*Mailing)

// WithEmailTransport uses a fixed email transport. When it is not configured
// the stored system configuration is used instead.
func WithEmailTransport(t interfaces.Transport) MailingOption {
	return func(m *Mailing) {
		m.email = t
	}
}

// WithEmailTransportFactory replaces how transports are built from stored settings
func WithEmailTransportFactory(f EmailTransportFactory) MailingOption {
	return func(m *Mailing) {
		m.emailFactory = f
	}
}

// WithWhatsAppTransport sets the WhatsApp transport
func WithWhatsAppTransport(t interfaces.Transport) MailingOption {
	return func(m *Mailing) {
		m.whatsapp = t
	}
}

// WithAttachmentStore sets where uploads go and attachments are read from
func WithAttachmentStore(s interfaces.AttachmentStore) MailingOption {
	return func(m *Mailing) {
		m.store = s
	}
}

// WithReporter publishes every finished outcome in the background
func WithReporter(r interfaces.Reporter) MailingOption {
	return func(m *Mailing) {
		m.reporter = r
	}
}

// WithBackground sets the runner that publishes outcomes
func WithBackground(r *async.Runner) MailingOption {
	return func(m *Mailing) {
		m.background = r
	}
}

// Mailing implements interfaces.Mailing
type Mailing struct {
	repo         interfaces.Repository
	email        interfaces.Transport
	emailFactory EmailTransportFactory
	whatsapp     interfaces.Transport
	store        interfaces.AttachmentStore
	reporter     interfaces.Reporter
	background   *async.Runner
}

var _ interfaces.Mailing = (*Mailing)(nil)

// NewMailing creates a new Mailing use case
func NewMailing(repo interfaces.Repository, opts ...MailingOption) *Mailing {
	m := &Mailing{
		repo: repo,
		emailFactory: func(cfg *model.SystemConfig) interfaces.Transport {
			return smtp.New(smtp.ConfigFromSystem(cfg))
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.background == nil {
		m.background = async.NewRunner(defaultReportTimeout)
	}
	return m
}

// Wait blocks until pending outcome reports are published or ctx is done
func (m *Mailing) Wait(ctx context.Context) error {
	return m.background.Wait(ctx)
}

// SendEmail dispatches an email batch
func (m *Mailing) SendEmail(ctx context.Context, req *model.RecipientRequest) (*model.DispatchOutcome, error) {
	transport, err := m.emailTransport(ctx)
	if err != nil {
		return nil, err
	}
	return m.dispatch(ctx, transport, req)
}

// SendWhatsApp dispatches a WhatsApp batch
func (m *Mailing) SendWhatsApp(ctx context.Context, req *model.RecipientRequest) (*model.DispatchOutcome, error) {
	if m.whatsapp == nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "transport not configured",
			goerr.V("channel", types.ChannelWhatsApp))
	}
	return m.dispatch(ctx, m.whatsapp, req)
}

func (m *Mailing) dispatch(ctx context.Context, transport interfaces.Transport, req *model.RecipientRequest) (*model.DispatchOutcome, error) {
	outcome, err := NewDispatcher(m.repo, transport, m.store).Dispatch(ctx, req)
	if outcome != nil && m.reporter != nil {
		m.background.Go(ctx, "report dispatch outcome", func(ctx context.Context) error {
			return m.reporter.Report(ctx, outcome)
		},
			"channel", outcome.Channel,
			"sent", outcome.SentCount,
			"failed", len(outcome.Failures),
		)
	}
	return outcome, err
}

// emailTransport prefers the fixed transport and falls back to stored settings
func (m *Mailing) emailTransport(ctx context.Context) (interfaces.Transport, error) {
	if m.email != nil && m.email.IsConfigured() {
		return m.email, nil
	}

	cfg, err := m.repo.GetSystemConfig(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load email settings")
	}
	return m.emailFactory(cfg), nil
}

// Upload stores an attachment for later dispatches
func (m *Mailing) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", goerr.Wrap(model.ErrInvalidRequest, "no file selected")
	}
	if m.store == nil {
		return "", goerr.Wrap(model.ErrConfiguration, "attachment storage not configured")
	}

	ref, err := m.store.Put(ctx, filename, r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to store upload", goerr.V("filename", filename))
	}

	ctxlog.From(ctx).Info("attachment uploaded", "filename", filename, "ref", ref)
	return ref, nil
}

// TestEmail opens a session with the current settings and sends one message
func (m *Mailing) TestEmail(ctx context.Context, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return goerr.Wrap(model.ErrInvalidRequest, "destination email is required")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return goerr.Wrap(model.ErrInvalidRequest, "invalid destination email", goerr.V("to", to))
	}

	transport, err := m.emailTransport(ctx)
	if err != nil {
		return err
	}
	if !transport.IsConfigured() {
		return goerr.Wrap(model.ErrConfiguration, "email settings not found")
	}

	cfg, err := m.repo.GetSystemConfig(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load system config")
	}
	company := cfg.CompanyName
	if company == "" {
		company = "HermesCad"
	}

	session, err := transport.Open(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to open transport session")
	}
	defer func() {
		if err := session.Close(); err != nil {
			ctxlog.From(ctx).Warn("failed to close transport session", "error", err)
		}
	}()

	msg := &model.Message{
		To:          model.Address{Kind: types.AddressKindEmail, Value: to},
		Subject:     fmt.Sprintf("%s test email", company),
		Body:        fmt.Sprintf("This is a test email from %s. Your email settings are working.", company),
		ContentKind: types.ContentKindPlain,
	}
	if err := session.Send(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to send test email", goerr.V("to", to))
	}

	ctxlog.From(ctx).Info("test email sent", "to", to)
	return nil
}
