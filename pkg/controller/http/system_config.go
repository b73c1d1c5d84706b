package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
)

type testEmailRequest struct {
	To string `json:"to"`
}

type systemConfigHandler struct {
	settings interfaces.SystemSettings
	mailing  interfaces.Mailing
}

func (h *systemConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.GetSystemConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}

// handleSave decodes the body over the current configuration, so absent fields are kept
func (h *systemConfigHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.GetSystemConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, cfg); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := h.settings.SaveSystemConfig(r.Context(), cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}

func (h *systemConfigHandler) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	var body testEmailRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.mailing.TestEmail(r.Context(), body.To); err != nil {
		writeError(w, r, goerr.Wrap(err, "test email failed", goerr.V("to", body.To)))
		return
	}

	writeJSON(w, r, http.StatusOK, messageResponse{
		Message: "test email sent to " + body.To,
	})
}
