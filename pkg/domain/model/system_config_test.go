package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

func TestSystemConfigDefaults(t *testing.T) {
	cfg := model.NewSystemConfig()
	gt.Equal(t, cfg.ID, int64(model.SystemConfigID))
	gt.True(t, cfg.EmailUseTLS)
	gt.Equal(t, cfg.PrimaryColor, "#007bff")
	gt.Equal(t, cfg.SecondaryColor, "#6c757d")
	gt.False(t, cfg.HasEmailSettings())
	gt.NoError(t, cfg.Validate())
}

func TestSystemConfigMasking(t *testing.T) {
	stored := model.NewSystemConfig()
	stored.EmailServer = "smtp.example.com"
	stored.EmailUser = "crm@example.com"
	stored.EmailPassword = "s3cret"

	masked := stored.Masked()
	gt.Equal(t, masked.EmailPassword, model.PasswordMask)
	gt.Equal(t, stored.EmailPassword, "s3cret")

	t.Run("mask echoed back keeps stored password", func(t *testing.T) {
		incoming := *masked
		incoming.KeepSecret(stored)
		gt.Equal(t, incoming.EmailPassword, "s3cret")
	})

	t.Run("new password replaces stored one", func(t *testing.T) {
		incoming := *masked
		incoming.EmailPassword = "changed"
		incoming.KeepSecret(stored)
		gt.Equal(t, incoming.EmailPassword, "changed")
	})

	t.Run("empty password is not masked", func(t *testing.T) {
		gt.Equal(t, model.NewSystemConfig().Masked().EmailPassword, "")
	})
}

func TestSystemConfigValidate(t *testing.T) {
	cfg := model.NewSystemConfig()
	cfg.EmailPort = 70000
	gt.Error(t, cfg.Validate())

	cfg = model.NewSystemConfig()
	cfg.PrimaryColor = "blue"
	err := cfg.Validate()
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("color must be #RRGGBB")
}
