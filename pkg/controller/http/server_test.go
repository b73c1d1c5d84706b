package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	controller "github.com/nelsonrsmacedo-nrsm/hermescad/pkg/controller/http"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces/mocks"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/repository"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/usecase"
)

type testEnv struct {
	repo    interfaces.Repository
	server  *controller.Server
	email   *mocks.TransportMock
	session *mocks.SessionMock
}

func newTestEnv(t *testing.T, opts ...controller.Option) *testEnv {
	t.Helper()
	repo := repository.NewMemory()

	session := &mocks.SessionMock{
		SendFunc: func(ctx context.Context, msg *model.Message) error {
			if strings.HasSuffix(msg.To.Value, "@bounce.example") {
				return goerr.Wrap(model.ErrSend, "recipient rejected: 550 no such user")
			}
			return nil
		},
		CloseFunc: func() error { return nil },
	}
	email := &mocks.TransportMock{
		ChannelFunc:      func() types.Channel { return types.ChannelEmail },
		IsConfiguredFunc: func() bool { return true },
		OpenFunc: func(ctx context.Context) (interfaces.Session, error) {
			return session, nil
		},
	}
	store := &mocks.AttachmentStoreMock{
		PutFunc: func(ctx context.Context, filename string, r io.Reader) (string, error) {
			if _, err := io.Copy(io.Discard, r); err != nil {
				return "", err
			}
			return "uploads/" + filename, nil
		},
		ResolveFunc: func(ctx context.Context, ref string) (*model.Attachment, error) {
			return nil, goerr.Wrap(model.ErrAttachmentNotFound, "not stored", goerr.V("ref", ref))
		},
	}

	mailing := usecase.NewMailing(repo, usecase.WithEmailTransport(email), usecase.WithAttachmentStore(store))
	uc := controller.NewUseCases(mailing, usecase.NewSystemSettings(repo))
	server, err := controller.NewServer(context.Background(), ":0", repo, uc, opts...)
	gt.NoError(t, err).Required()

	return &testEnv{repo: repo, server: server, email: email, session: session}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("healthy")
}

func TestClientCRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/clients", map[string]any{
		"name":   "Acme",
		"email":  "contact@acme.example",
		"mobile": "+5511988887777",
		"id":     999,
	})
	gt.Equal(t, w.Code, http.StatusCreated)
	created := decode[model.Client](t, w)
	gt.NotEqual(t, created.ID, types.ClientID(999))
	gt.False(t, created.CreatedAt.IsZero())

	path := "/api/clients/" + created.ID.String()

	w = env.do(t, http.MethodGet, path, nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, decode[model.Client](t, w).Name, "Acme")

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, map[string]any{"job_title": "CTO"})
		gt.Equal(t, w.Code, http.StatusOK)
		updated := decode[model.Client](t, w)
		gt.Equal(t, updated.JobTitle, "CTO")
		gt.Equal(t, updated.Email, "contact@acme.example")
		gt.Equal(t, updated.ID, created.ID)
	})

	t.Run("invalid update is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, map[string]any{"name": ""})
		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.S(t, w.Body.String()).Contains("client name is required")
	})

	t.Run("list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/clients", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, len(decode[[]model.Client](t, w)), 1)
	})

	t.Run("missing ID is 404", func(t *testing.T) {
		gt.Equal(t, env.do(t, http.MethodGet, "/api/clients/424242", nil).Code, http.StatusNotFound)
		gt.Equal(t, env.do(t, http.MethodPut, "/api/clients/424242", map[string]any{"name": "x"}).Code, http.StatusNotFound)
		gt.Equal(t, env.do(t, http.MethodDelete, "/api/clients/424242", nil).Code, http.StatusNotFound)
		gt.Equal(t, env.do(t, http.MethodGet, "/api/clients/abc", nil).Code, http.StatusNotFound)
	})

	t.Run("create without name", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/clients", map[string]any{"email": "x@example.com"})
		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.S(t, w.Body.String()).Contains(`"error"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader("{"))
		w := httptest.NewRecorder()
		env.server.Handler.ServeHTTP(w, req)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	w = env.do(t, http.MethodDelete, path, nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, env.do(t, http.MethodGet, path, nil).Code, http.StatusNotFound)
}

func TestRelatedEntities(t *testing.T) {
	env := newTestEnv(t)
	client := decode[model.Client](t, env.do(t, http.MethodPost, "/api/clients", map[string]any{"name": "Acme"}))
	clientID := client.ID.String()

	t.Run("contacts", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/contacts", map[string]any{"client_id": client.ID, "name": "Jane"})
		gt.Equal(t, w.Code, http.StatusCreated)

		w = env.do(t, http.MethodPost, "/api/contacts", map[string]any{"client_id": 424242, "name": "Ghost"})
		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.S(t, w.Body.String()).Contains("referenced client does not exist")

		w = env.do(t, http.MethodGet, "/api/contacts/client/"+clientID, nil)
		gt.Equal(t, w.Code, http.StatusOK)
		contacts := decode[[]model.Contact](t, w)
		gt.Equal(t, len(contacts), 1)
		gt.Equal(t, contacts[0].Name, "Jane")
	})

	t.Run("opportunities default status", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/opportunities", map[string]any{
			"client_id":   client.ID,
			"name":        "Renewal",
			"value":       1500.5,
			"probability": 40,
		})
		gt.Equal(t, w.Code, http.StatusCreated)
		opp := decode[model.Opportunity](t, w)
		gt.Equal(t, opp.Status, model.OpportunityStatusProspecting)

		w = env.do(t, http.MethodPost, "/api/opportunities", map[string]any{
			"client_id":   client.ID,
			"name":        "Bad",
			"probability": 140,
		})
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = env.do(t, http.MethodGet, "/api/opportunities/client/"+clientID, nil)
		gt.Equal(t, len(decode[[]model.Opportunity](t, w)), 1)

		t.Run("activities", func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/activities", map[string]any{
				"client_id":      client.ID,
				"opportunity_id": opp.ID,
				"kind":           "Call",
			})
			gt.Equal(t, w.Code, http.StatusCreated)
			act := decode[model.Activity](t, w)
			gt.Equal(t, act.Status, model.ActivityStatusPending)
			gt.False(t, act.ScheduledAt.IsZero())

			w = env.do(t, http.MethodGet, "/api/activities/opportunity/"+opp.ID.String(), nil)
			gt.Equal(t, len(decode[[]model.Activity](t, w)), 1)
			w = env.do(t, http.MethodGet, "/api/activities/client/"+clientID, nil)
			gt.Equal(t, len(decode[[]model.Activity](t, w)), 1)

			w = env.do(t, http.MethodPost, "/api/activities", map[string]any{
				"opportunity_id": 424242,
				"kind":           "Call",
			})
			gt.Equal(t, w.Code, http.StatusBadRequest)
		})
	})

	t.Run("products", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Widget", "price": 9.9})
		gt.Equal(t, w.Code, http.StatusCreated)
		w = env.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Broken", "price": -1})
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestSystemConfigEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/system-config", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, decode[model.SystemConfig](t, w).PrimaryColor, "#007bff")

	w = env.do(t, http.MethodPost, "/api/system-config", map[string]any{
		"email_server":   "smtp.example.com",
		"email_user":     "mailer",
		"email_password": "secret",
	})
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, decode[model.SystemConfig](t, w).EmailPassword, model.PasswordMask)

	// echoing the mask back keeps the password; absent fields keep their value
	w = env.do(t, http.MethodPost, "/api/system-config", map[string]any{
		"email_password": model.PasswordMask,
		"slogan":         "Hello",
	})
	gt.Equal(t, w.Code, http.StatusOK)
	stored, err := env.repo.GetSystemConfig(context.Background())
	gt.NoError(t, err).Required()
	gt.Equal(t, stored.EmailPassword, "secret")
	gt.Equal(t, stored.EmailServer, "smtp.example.com")
	gt.Equal(t, stored.Slogan, "Hello")

	w = env.do(t, http.MethodPost, "/api/system-config", map[string]any{"primary_color": "red"})
	gt.Equal(t, w.Code, http.StatusBadRequest)

	t.Run("test email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/system-config/email/test", map[string]any{"to": "ops@example.com"})
		gt.Equal(t, w.Code, http.StatusOK)
		gt.S(t, w.Body.String()).Contains("ops@example.com")

		w = env.do(t, http.MethodPost, "/api/system-config/email/test", map[string]any{})
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestMailingEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ok := model.NewClient("Acme")
	ok.Email = "contact@acme.example"
	gt.NoError(t, env.repo.CreateClient(ctx, ok)).Required()
	noEmail := model.NewClient("Globex")
	gt.NoError(t, env.repo.CreateClient(ctx, noEmail)).Required()
	bounce := model.NewClient("Initech")
	bounce.Email = "peter@bounce.example"
	gt.NoError(t, env.repo.CreateClient(ctx, bounce)).Required()

	t.Run("partial success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailing/email", map[string]any{
			"client_ids": []types.ClientID{ok.ID, noEmail.ID, bounce.ID, 424242},
			"subject":    "Hi",
			"body":       "Hello",
		})
		gt.Equal(t, w.Code, http.StatusOK)

		var resp struct {
			Success        bool            `json:"success"`
			SentCount      int             `json:"sent_count"`
			TotalRequested int             `json:"total_requested"`
			TotalClients   int             `json:"total_clients"`
			Failures       []model.Failure `json:"failures"`
			Warnings       []string        `json:"warnings"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.True(t, resp.Success)
		gt.Equal(t, resp.SentCount, 1)
		gt.Equal(t, resp.TotalRequested, 4)
		gt.Equal(t, resp.TotalClients, 3)
		gt.Equal(t, len(resp.Failures), 2)
		gt.Equal(t, resp.Warnings, []string{"unknown recipient 424242"})
	})

	t.Run("no recipients", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailing/email", map[string]any{"subject": "Hi", "body": "Hello"})
		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.S(t, w.Body.String()).Contains("no recipients")
	})

	t.Run("nothing resolved", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailing/email", map[string]any{
			"client_ids": []int{424242},
			"subject":    "Hi",
			"body":       "Hello",
		})
		gt.Equal(t, w.Code, http.StatusNotFound)
	})

	t.Run("authentication failure", func(t *testing.T) {
		env.email.OpenFunc = func(ctx context.Context) (interfaces.Session, error) {
			return nil, goerr.Wrap(model.ErrAuth, "535 bad credentials")
		}
		defer func() {
			env.email.OpenFunc = func(ctx context.Context) (interfaces.Session, error) { return env.session, nil }
		}()

		w := env.do(t, http.MethodPost, "/api/mailing/email", map[string]any{
			"client_ids": []types.ClientID{ok.ID},
			"subject":    "Hi",
			"body":       "Hello",
		})
		gt.Equal(t, w.Code, http.StatusBadGateway)
	})

	t.Run("whatsapp not configured", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailing/whatsapp", map[string]any{
			"client_ids": []types.ClientID{ok.ID},
			"message":    "Hello",
		})
		gt.Equal(t, w.Code, http.StatusInternalServerError)
	})
}

func TestMailingTimeout(t *testing.T) {
	env := newTestEnv(t, controller.WithDispatchTimeout(30*time.Millisecond))
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		c := model.NewClient(name)
		c.Email = strings.ToLower(name) + "@example.com"
		gt.NoError(t, env.repo.CreateClient(ctx, c)).Required()
	}
	env.session.SendFunc = func(ctx context.Context, msg *model.Message) error {
		if msg.To.Value == "a@example.com" {
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	}

	w := env.do(t, http.MethodPost, "/api/mailing/email", map[string]any{
		"client_ids": []int{1, 2},
		"subject":    "Hi",
		"body":       "Hello",
	})
	gt.Equal(t, w.Code, http.StatusGatewayTimeout)

	var resp struct {
		Success   bool   `json:"success"`
		SentCount int    `json:"sent_count"`
		Error     string `json:"error"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.False(t, resp.Success)
	gt.Equal(t, resp.SentCount, 1)
	gt.S(t, resp.Error).Contains("dispatch interrupted")
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "brochure.pdf")
	gt.NoError(t, err).Required()
	_, err = part.Write([]byte("%PDF-1.4"))
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/mailing/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusOK)
	var resp struct {
		Success  bool   `json:"success"`
		Filename string `json:"filename"`
		FilePath string `json:"file_path"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.True(t, resp.Success)
	gt.Equal(t, resp.Filename, "brochure.pdf")
	gt.Equal(t, resp.FilePath, "uploads/brochure.pdf")

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/mailing/upload", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		w := httptest.NewRecorder()
		env.server.Handler.ServeHTTP(w, req)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestFrontend(t *testing.T) {
	files := fstest.MapFS{
		"index.html":    {Data: []byte(`<html><div id="root"></div></html>`)},
		"assets/app.js": {Data: []byte(`console.log("hermescad")`)},
	}
	env := newTestEnv(t, controller.WithFrontend(files))

	w := env.do(t, http.MethodGet, "/assets/app.js", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "application/javascript; charset=utf-8")

	w = env.do(t, http.MethodGet, "/clients/12", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains(`<div id="root">`)

	w = env.do(t, http.MethodGet, "/api/unknown", nil)
	gt.Equal(t, w.Code, http.StatusNotFound)

	_, err := controller.NewServer(context.Background(), ":0", env.repo,
		controller.NewUseCases(nil, nil), controller.WithFrontend(fstest.MapFS{}))
	gt.Error(t, err)
}
