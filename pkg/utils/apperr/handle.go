package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

// Handle logs an error that ended a request or a background job.
// Caller mistakes are logged as warnings, everything else as errors.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if errors.Is(err, model.ErrInvalidRequest) || errors.Is(err, model.ErrNotFound) {
		logger.Warn("request rejected", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
