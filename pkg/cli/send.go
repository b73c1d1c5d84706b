package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/cli/config"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/usecase"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// loadRequest reads a dispatch request from a YAML file, or stdin for "-"
func loadRequest(path string) (*model.RecipientRequest, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open request file", goerr.V("path", path))
		}
		defer f.Close()
		r = f
	}

	var req model.RecipientRequest
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "failed to parse request file",
			goerr.V("path", path),
			goerr.V("cause", err.Error()))
	}
	return &req, nil
}

func cmdSend() *cli.Command {
	var (
		dbCfg       config.Database
		msgCfg      messaging
		requestPath string
		channel     string
		timeout     time.Duration
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "request",
				Aliases:     []string{"r"},
				Usage:       "YAML file with client_ids, subject, body and attachments (- for stdin)",
				Required:    true,
				Destination: &requestPath,
			},
			&cli.StringFlag{
				Name:        "channel",
				Usage:       "Delivery channel (email, whatsapp)",
				Value:       types.ChannelEmail.String(),
				Destination: &channel,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Deadline of the dispatch (0 disables it)",
				Destination: &timeout,
			},
		},
		dbCfg.Flags(),
		msgCfg.Flags(),
	)

	return &cli.Command{
		Name:  "send",
		Usage: "Dispatch one batch from a request file and print the outcome as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			ch := types.Channel(channel)
			if !ch.IsValid() {
				return goerr.Wrap(model.ErrInvalidRequest, "unknown channel", goerr.V("channel", channel))
			}

			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}

			repo, err := dbCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeRepository(ctx, repo)

			opts, cleanup, err := msgCfg.mailingOptions(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			logger.Info("Dispatching batch",
				slog.String("channel", channel),
				slog.Int("recipients", len(req.RecipientIDs)),
				slog.Int("attachments", len(req.Attachments)),
			)

			mailing := usecase.NewMailing(repo, opts...)
			var outcome *model.DispatchOutcome
			switch ch {
			case types.ChannelWhatsApp:
				outcome, err = mailing.SendWhatsApp(ctx, req)
			default:
				outcome, err = mailing.SendEmail(ctx, req)
			}

			if outcome != nil {
				w := c.Root().Writer
				if w == nil {
					w = os.Stdout
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(outcome); encErr != nil {
					return goerr.Wrap(encErr, "failed to write outcome")
				}
			}
			if err != nil {
				if errors.Is(err, model.ErrTimeout) && outcome != nil {
					logger.Warn("Dispatch interrupted, outcome is partial", "sent", outcome.SentCount)
				}
				return err
			}

			logger.Info(outcome.Summary())
			return nil
		},
	}
}
