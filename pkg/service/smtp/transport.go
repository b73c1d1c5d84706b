package smtp

import (
	"context"
	"crypto/tls"
	"net"
	netsmtp "net/smtp"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Option configures a Transport
type Option func(*Transport)

// WithTLSConfig overrides the TLS configuration used for STARTTLS and implicit TLS
func WithTLSConfig(cfg *tls.Config) Option {
	return func(t *Transport) {
		t.tlsConfig = cfg
	}
}

// WithDialTimeout sets the connect timeout
func WithDialTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.dialer.Timeout = d
	}
}

// WithHelloName sets the EHLO identity
func WithHelloName(name string) Option {
	return func(t *Transport) {
		if name != "" {
			t.helloName = name
		}
	}
}

// WithClock replaces the clock used for the Date header
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		t.now = now
	}
}

// Transport sends email through one SMTP account
type Transport struct {
	cfg       Config
	dialer    *net.Dialer
	tlsConfig *tls.Config
	helloName string
	now       func() time.Time
}

var _ interfaces.Transport = (*Transport)(nil)

// New creates an SMTP transport
func New(cfg Config, opts ...Option) *Transport {
	t := &Transport{
		cfg:       cfg,
		dialer:    &net.Dialer{Timeout: 30 * time.Second},
		helloName: defaultHelloName,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Channel returns the email channel
func (t *Transport) Channel() types.Channel {
	return types.ChannelEmail
}

// IsConfigured reports whether the server and credentials are set
func (t *Transport) IsConfigured() bool {
	return t.cfg.IsConfigured()
}

func (t *Transport) sessionTLSConfig() *tls.Config {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if t.tlsConfig != nil {
		cfg = t.tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = t.cfg.Host
	}
	return cfg
}

// Open connects, upgrades to TLS when configured and authenticates once
func (t *Transport) Open(ctx context.Context) (interfaces.Session, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.port()))
	implicitTLS := t.cfg.UseTLS && t.cfg.port() == implicitTLSPort

	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, goerr.Wrap(model.ErrConnect, "failed to dial smtp server",
			goerr.V("addr", addr),
			goerr.V("cause", err.Error()))
	}
	if implicitTLS {
		conn = tls.Client(conn, t.sessionTLSConfig())
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblocks any pending command when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	fail := func(kind error, msg string, cause error) (interfaces.Session, error) {
		stop()
		_ = conn.Close()
		return nil, goerr.Wrap(kind, msg,
			goerr.V("addr", addr),
			goerr.V("cause", cause.Error()))
	}

	client, err := netsmtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return fail(model.ErrConnect, "failed to start smtp session", err)
	}
	if err := client.Hello(t.helloName); err != nil {
		return fail(model.ErrConnect, "smtp hello rejected", err)
	}

	if t.cfg.UseTLS && !implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fail(model.ErrConnect, "smtp server does not support STARTTLS", goerr.New("STARTTLS not advertised"))
		}
		if err := client.StartTLS(t.sessionTLSConfig()); err != nil {
			return fail(model.ErrConnect, "failed to start TLS", err)
		}
	}

	if t.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return fail(model.ErrAuth, "smtp server does not offer authentication", goerr.New("AUTH not advertised"))
		}
		auth := netsmtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fail(model.ErrAuth, "smtp authentication failed", err)
		}
	}

	ctxlog.From(ctx).Debug("SMTP session opened", "config", t.cfg)

	return &session{
		client: client,
		from:   t.cfg.sender(),
		now:    t.now,
		stop:   stop,
	}, nil
}

type session struct {
	client *netsmtp.Client
	from   string
	now    func() time.Time
	stop   func() bool
}

// Send delivers one message. A rejected command resets the transaction so the
// connection stays usable for the next recipient.
func (s *session) Send(ctx context.Context, msg *model.Message) error {
	if msg.To.Kind != types.AddressKindEmail {
		return goerr.Wrap(model.ErrSend, "recipient address is not an email address",
			goerr.V("kind", msg.To.Kind))
	}

	data, err := buildMessage(s.from, msg, s.now())
	if err != nil {
		return goerr.Wrap(model.ErrSend, "failed to compose message: "+err.Error(),
			goerr.V("to", msg.To.Value))
	}

	if err := s.client.Mail(s.from); err != nil {
		return s.reject("sender rejected", msg, err)
	}
	if err := s.client.Rcpt(msg.To.Value); err != nil {
		return s.reject("recipient rejected", msg, err)
	}

	w, err := s.client.Data()
	if err != nil {
		return s.reject("data command rejected", msg, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(model.ErrSend, "failed to write message: "+err.Error(),
			goerr.V("to", msg.To.Value))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(model.ErrSend, "message rejected: "+err.Error(),
			goerr.V("to", msg.To.Value))
	}

	return nil
}

func (s *session) reject(what string, msg *model.Message, err error) error {
	_ = s.client.Reset()
	return goerr.Wrap(model.ErrSend, what+": "+err.Error(),
		goerr.V("to", msg.To.Value))
}

// Close ends the SMTP session
func (s *session) Close() error {
	defer s.stop()
	if err := s.client.Quit(); err != nil {
		_ = s.client.Close()
		return goerr.Wrap(err, "failed to quit smtp session")
	}
	return nil
}
