package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	controller "github.com/nelsonrsmacedo-nrsm/hermescad/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr            string
	DispatchTimeout time.Duration
	FrontendDir     string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("HERMESCAD_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "dispatch-timeout",
			Usage:       "Deadline of one mailing request (0 disables it)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("HERMESCAD_DISPATCH_TIMEOUT"),
			Destination: &s.DispatchTimeout,
		},
		&cli.StringFlag{
			Name:        "frontend-dir",
			Usage:       "Directory of the built web frontend to serve",
			Sources:     cli.EnvVars("HERMESCAD_FRONTEND_DIR"),
			Destination: &s.FrontendDir,
		},
	}
}

// Options returns the HTTP server options for this configuration
func (s *Server) Options() ([]controller.Option, error) {
	opts := []controller.Option{
		controller.WithDispatchTimeout(s.DispatchTimeout),
	}

	if s.FrontendDir != "" {
		info, err := os.Stat(s.FrontendDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open frontend directory", goerr.V("dir", s.FrontendDir))
		}
		if !info.IsDir() {
			return nil, goerr.New("frontend path is not a directory", goerr.V("dir", s.FrontendDir))
		}
		opts = append(opts, controller.WithFrontend(os.DirFS(s.FrontendDir)))
	}

	return opts, nil
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("dispatch_timeout", s.DispatchTimeout),
		slog.String("frontend_dir", s.FrontendDir),
	)
}
