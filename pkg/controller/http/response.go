package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/apperr"
)

// maxBodySize limits JSON request bodies
const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrAuth), errors.Is(err, model.ErrConnect):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadRequest
	}
}

func errorMessage(err error) string {
	if goErr := goerr.Unwrap(err); goErr != nil {
		return goErr.Error()
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)
	writeJSON(w, r, statusOf(err), errorResponse{Error: errorMessage(err)})
}

// decodeJSON decodes the request body onto dst. Fields absent from the body
// keep the value dst already holds.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return goerr.Wrap(model.ErrInvalidRequest, "no data provided")
		}
		return goerr.Wrap(model.ErrInvalidRequest, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}
