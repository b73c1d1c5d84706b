package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/apperr"
)

// maxUploadSize limits multipart uploads
const maxUploadSize = 32 << 20

type emailRequest struct {
	ClientIDs   []types.ClientID `json:"client_ids"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	Attachments []string         `json:"attachments"`
}

type whatsAppRequest struct {
	ClientIDs []types.ClientID `json:"client_ids"`
	Message   string           `json:"message"`
	ImagePath string           `json:"image_path"`
}

type dispatchResponse struct {
	Success        bool            `json:"success"`
	SentCount      int             `json:"sent_count"`
	TotalRequested int             `json:"total_requested"`
	TotalClients   int             `json:"total_clients"`
	Failures       []model.Failure `json:"failures"`
	Warnings       []string        `json:"warnings"`
}

func newDispatchResponse(outcome *model.DispatchOutcome) dispatchResponse {
	return dispatchResponse{
		Success:        true,
		SentCount:      outcome.SentCount,
		TotalRequested: outcome.TotalRequested,
		TotalClients:   outcome.TotalResolved,
		Failures:       outcome.Failures,
		Warnings:       outcome.Warnings,
	}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
}

type mailingHandler struct {
	mailing interfaces.Mailing
}

func (h *mailingHandler) handleEmail(w http.ResponseWriter, r *http.Request) {
	var body emailRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	outcome, err := h.mailing.SendEmail(r.Context(), &model.RecipientRequest{
		RecipientIDs: body.ClientIDs,
		Subject:      body.Subject,
		Body:         body.Body,
		Attachments:  body.Attachments,
	})
	h.writeOutcome(w, r, outcome, err)
}

func (h *mailingHandler) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	var body whatsAppRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req := &model.RecipientRequest{
		RecipientIDs: body.ClientIDs,
		Body:         body.Message,
	}
	if body.ImagePath != "" {
		req.Attachments = []string{body.ImagePath}
	}

	outcome, err := h.mailing.SendWhatsApp(r.Context(), req)
	h.writeOutcome(w, r, outcome, err)
}

type interruptedResponse struct {
	Error string `json:"error"`
	dispatchResponse
}

// writeOutcome reports interrupted dispatches together with their partial outcome
func (h *mailingHandler) writeOutcome(w http.ResponseWriter, r *http.Request, outcome *model.DispatchOutcome, err error) {
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, newDispatchResponse(outcome))
	case outcome != nil:
		apperr.Handle(r.Context(), err)
		resp := interruptedResponse{
			Error:            errorMessage(err),
			dispatchResponse: newDispatchResponse(outcome),
		}
		resp.Success = false
		writeJSON(w, r, statusOf(err), resp)
	default:
		writeError(w, r, err)
	}
}

func (h *mailingHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, goerr.Wrap(model.ErrInvalidRequest, "no file uploaded", goerr.V("cause", err.Error())))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, goerr.Wrap(model.ErrInvalidRequest, "no file uploaded", goerr.V("cause", err.Error())))
		return
	}
	defer file.Close()

	ref, err := h.mailing.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, uploadResponse{
		Success:  true,
		Filename: header.Filename,
		FilePath: ref,
	})
}
