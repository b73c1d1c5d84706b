package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/cli/config"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/apperr"
	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

// Process exit codes by error kind
const (
	ExitFailure       = 1
	ExitInvalidInput  = 2
	ExitConfiguration = 3
	ExitDelivery      = 4
	ExitTimeout       = 5
)

// ExitCode maps an error returned by Run to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrInvalidRequest), errors.Is(err, model.ErrNotFound):
		return ExitInvalidInput
	case errors.Is(err, model.ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, model.ErrAuth), errors.Is(err, model.ErrConnect):
		return ExitDelivery
	case errors.Is(err, model.ErrTimeout):
		return ExitTimeout
	default:
		return ExitFailure
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "hermescad",
		Usage:   "CRM backend with bulk email and WhatsApp messaging",
		Version: Version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger.With("version", Version)), nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdSend(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		apperr.Handle(ctx, err)
		return goerr.Wrap(err, "hermescad failed", goerr.V("exit_code", ExitCode(err)))
	}

	return nil
}
