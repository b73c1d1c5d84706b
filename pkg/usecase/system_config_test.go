package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/repository"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/usecase"
)

func TestSystemSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults before first save", func(t *testing.T) {
		cfg, err := usecase.NewSystemSettings(repository.NewMemory()).GetSystemConfig(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, cfg.PrimaryColor, "#007bff")
		gt.True(t, cfg.EmailUseTLS)
		gt.Equal(t, cfg.EmailPassword, "")
	})

	t.Run("password is masked and preserved", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := usecase.NewSystemSettings(repo)

		cfg := model.NewSystemConfig()
		cfg.EmailServer = "smtp.example.com"
		cfg.EmailUser = "mailer"
		cfg.EmailPassword = "secret"
		saved, err := uc.SaveSystemConfig(ctx, cfg)
		gt.NoError(t, err).Required()
		gt.Equal(t, saved.EmailPassword, model.PasswordMask)

		read, err := uc.GetSystemConfig(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, read.EmailPassword, model.PasswordMask)

		// saving the masked value back keeps the secret
		read.Slogan = "Fast and friendly"
		_, err = uc.SaveSystemConfig(ctx, read)
		gt.NoError(t, err).Required()

		stored, err := repo.GetSystemConfig(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.EmailPassword, "secret")
		gt.Equal(t, stored.Slogan, "Fast and friendly")
		gt.Equal(t, stored.ID, int64(model.SystemConfigID))
	})

	t.Run("invalid color is rejected", func(t *testing.T) {
		repo := repository.NewMemory()
		cfg := model.NewSystemConfig()
		cfg.PrimaryColor = "blue"
		_, err := usecase.NewSystemSettings(repo).SaveSystemConfig(ctx, cfg)
		gt.True(t, errors.Is(err, model.ErrInvalidRequest))

		stored, err := repo.GetSystemConfig(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.PrimaryColor, "#007bff")
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := usecase.NewSystemSettings(repository.NewMemory()).SaveSystemConfig(ctx, nil)
		gt.True(t, errors.Is(err, model.ErrInvalidRequest))
	})
}
