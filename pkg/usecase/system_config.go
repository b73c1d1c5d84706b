package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

// SystemSettings implements interfaces.SystemSettings
type SystemSettings struct {
	repo interfaces.Repository
}

var _ interfaces.SystemSettings = (*SystemSettings)(nil)

// NewSystemSettings creates a new SystemSettings use case
func NewSystemSettings(repo interfaces.Repository) *SystemSettings {
	return &SystemSettings{repo: repo}
}

// GetSystemConfig returns the stored configuration with the password masked
func (u *SystemSettings) GetSystemConfig(ctx context.Context) (*model.SystemConfig, error) {
	cfg, err := u.repo.GetSystemConfig(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get system config")
	}
	return cfg.Masked(), nil
}

// SaveSystemConfig stores cfg. A masked password keeps the stored one.
func (u *SystemSettings) SaveSystemConfig(ctx context.Context, cfg *model.SystemConfig) (*model.SystemConfig, error) {
	if cfg == nil {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "system config is required")
	}

	stored, err := u.repo.GetSystemConfig(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get system config")
	}

	cfg.ID = model.SystemConfigID
	cfg.KeepSecret(stored)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutSystemConfig(ctx, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to save system config")
	}

	ctxlog.From(ctx).Info("system config saved", "email_server", cfg.EmailServer)
	return cfg.Masked(), nil
}
