package interfaces

import (
	"context"
	"io"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

// Mailing is the bulk messaging use case
type Mailing interface {
	SendEmail(ctx context.Context, req *model.RecipientRequest) (*model.DispatchOutcome, error)
	SendWhatsApp(ctx context.Context, req *model.RecipientRequest) (*model.DispatchOutcome, error)
	// Upload stores an attachment and returns its reference
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	// TestEmail sends a single message with the current email settings
	TestEmail(ctx context.Context, to string) error
}

// SystemSettings manages the singleton system configuration
type SystemSettings interface {
	// GetSystemConfig returns the configuration with the password masked
	GetSystemConfig(ctx context.Context) (*model.SystemConfig, error)
	// SaveSystemConfig validates and stores cfg, returning the masked result
	SaveSystemConfig(ctx context.Context, cfg *model.SystemConfig) (*model.SystemConfig, error)
}
