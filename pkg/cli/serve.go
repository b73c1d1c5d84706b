package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/cli/config"
	controller "github.com/nelsonrsmacedo-nrsm/hermescad/pkg/controller/http"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/usecase"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		dbCfg     config.Database
		slackCfg  config.Slack
		msgCfg    messaging
	)

	flags := joinFlags(
		serverCfg.Flags(),
		dbCfg.Flags(),
		msgCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting hermescad server",
				slog.Any("server", serverCfg),
				slog.Any("database", dbCfg),
				slog.Any("smtp", msgCfg.smtp),
				slog.Any("twilio", msgCfg.twilio),
				slog.Any("storage", msgCfg.storage),
				slog.Any("slack", slackCfg),
			)

			repo, err := dbCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeRepository(ctx, repo)

			mailingOpts, cleanup, err := msgCfg.mailingOptions(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if reporter := slackCfg.ConfigureOptional(logger); reporter != nil {
				mailingOpts = append(mailingOpts, usecase.WithReporter(reporter))
			}

			mailing := usecase.NewMailing(repo, mailingOpts...)
			uc := controller.NewUseCases(mailing, usecase.NewSystemSettings(repo))

			serverOpts, err := serverCfg.Options()
			if err != nil {
				return err
			}
			server, err := controller.NewServer(ctx, serverCfg.Addr, repo, uc, serverOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				if err := mailing.Wait(shutdownCtx); err != nil {
					logger.Warn("Dispatch outcome reports dropped at shutdown", "error", err)
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
