package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "", want: slog.LevelInfo},
		{in: "Error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("json")
	gt.NoError(t, err)
	gt.Equal(t, f, logging.FormatJSON)

	f, err = logging.ParseFormat("Console")
	gt.NoError(t, err)
	gt.Equal(t, f, logging.FormatConsole)

	_, err = logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(slog.LevelInfo, &buf, logging.FormatJSON)
	logger.Debug("hidden")
	logger.Info("dispatch finished", "sent", 2)

	gt.S(t, buf.String()).Contains(`"msg":"dispatch finished"`)
	gt.S(t, buf.String()).Contains(`"sent":2`)
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("hidden")))
}

func TestNewAutoOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	logging.New(slog.LevelInfo, &buf, logging.FormatAuto).Info("not a terminal")
	gt.S(t, buf.String()).Contains(`"msg":"not a terminal"`)
}

func TestRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(slog.LevelInfo, &buf, logging.FormatJSON).
		With("auth_token", "twilio-token")

	logger.Info("transport configured",
		"password", "hunter2",
		slog.Group("smtp",
			slog.String("host", "smtp.example.com"),
			slog.String("email_password", "s3cret"),
		),
	)

	out := buf.String()
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("hunter2")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("s3cret")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("twilio-token")))
	gt.S(t, out).Contains(`"password":"[REDACTED]"`)
	gt.S(t, out).Contains(`"host":"smtp.example.com"`)
}
