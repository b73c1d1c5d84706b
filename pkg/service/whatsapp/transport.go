package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

const (
	defaultBaseURL = "https://api.twilio.com/2010-04-01"
	maxBodyBytes   = 16 * 1024
)

// Config holds Twilio account settings
type Config struct {
	AccountSID string
	AuthToken  string
	// From is the sender number registered for WhatsApp
	From string
}

// IsConfigured reports whether all account settings are present
func (c Config) IsConfigured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// LogValue implements slog.LogValuer. The auth token is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_sid", c.AccountSID),
		slog.Bool("auth_token.set", c.AuthToken != ""),
		slog.String("from", c.From),
	)
}

// HTTPClient abstracts http.Client for tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Transport
type Option func(*Transport)

// WithHTTPClient overrides the HTTP client used to talk to Twilio
func WithHTTPClient(client HTTPClient) Option {
	return func(t *Transport) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithBaseURL sets the Twilio API base URL
func WithBaseURL(baseURL string) Option {
	return func(t *Transport) {
		t.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// Transport sends WhatsApp messages through the Twilio Messages API
type Transport struct {
	cfg        Config
	httpClient HTTPClient
	baseURL    string
}

var _ interfaces.Transport = (*Transport)(nil)

// New creates a Twilio WhatsApp transport
func New(cfg Config, opts ...Option) *Transport {
	t := &Transport{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Channel returns the whatsapp channel
func (t *Transport) Channel() types.Channel {
	return types.ChannelWhatsApp
}

// IsConfigured reports whether the account settings are present
func (t *Transport) IsConfigured() bool {
	return t.cfg.IsConfigured()
}

// Open validates the account credentials once for the whole batch
func (t *Transport) Open(ctx context.Context) (interfaces.Session, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s.json", t.baseURL, url.PathEscape(t.cfg.AccountSID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create twilio request")
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(model.ErrConnect, "failed to reach twilio",
			goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, goerr.Wrap(model.ErrAuth, "twilio rejected the account credentials",
			goerr.V("status", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, goerr.Wrap(model.ErrConnect, "unexpected twilio response",
			goerr.V("status", resp.StatusCode))
	}

	ctxlog.From(ctx).Debug("Twilio session opened", "config", t.cfg)

	return &session{transport: t}, nil
}

type session struct {
	transport *Transport
}

type twilioBody struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message. A first attachment that is a public URL becomes the media.
func (s *session) Send(ctx context.Context, msg *model.Message) error {
	t := s.transport
	if msg.To.Kind != types.AddressKindPhone {
		return goerr.Wrap(model.ErrSend, "recipient address is not a phone number",
			goerr.V("kind", msg.To.Kind))
	}

	params := url.Values{}
	params.Set("From", whatsAppAddress(t.cfg.From))
	params.Set("To", whatsAppAddress(msg.To.Value))
	params.Set("Body", msg.Body)
	if len(msg.Attachments) > 0 && isPublicURL(msg.Attachments[0].Ref) {
		params.Set("MediaUrl", msg.Attachments[0].Ref)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to create twilio request")
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(model.ErrSend, "twilio request failed: "+err.Error(),
			goerr.V("to", msg.To.Value))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return goerr.Wrap(model.ErrSend, "failed to read twilio response: "+err.Error(),
			goerr.V("to", msg.To.Value))
	}

	var body twilioBody
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := body.Message
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return goerr.Wrap(model.ErrSend, fmt.Sprintf("twilio error %d: %s", body.Code, reason),
			goerr.V("to", msg.To.Value),
			goerr.V("status", resp.StatusCode))
	}

	ctxlog.From(ctx).Debug("WhatsApp message accepted",
		"sid", body.SID,
		"status", body.Status,
	)
	return nil
}

// Close releases nothing; each Send is an independent HTTP request
func (s *session) Close() error {
	return nil
}

func whatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

func isPublicURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
