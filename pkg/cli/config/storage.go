package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/service/storage"
	"github.com/urfave/cli/v3"
)

const (
	storageLocal = "local"
	storageS3    = "s3"
	storageGCS   = "gcs"
)

// Storage holds attachment storage settings. The local directory is always
// available; S3 and Cloud Storage are added when their bucket is set.
type Storage struct {
	UploadDir string
	Primary   string

	S3Bucket     string
	S3Region     string
	S3Prefix     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3PathStyle  bool
	GCSBucket    string
	GCSPrefix    string
	GCSCredsFile string
	GCSEndpoint  string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "upload-dir",
			Usage:       "Directory for uploaded attachments",
			Category:    "Storage",
			Value:       "uploads",
			Sources:     cli.EnvVars("HERMESCAD_UPLOAD_DIR"),
			Destination: &s.UploadDir,
		},
		&cli.StringFlag{
			Name:        "storage-primary",
			Usage:       "Where uploads are stored (local, s3, gcs)",
			Category:    "Storage",
			Value:       storageLocal,
			Sources:     cli.EnvVars("HERMESCAD_STORAGE_PRIMARY"),
			Destination: &s.Primary,
		},
		&cli.StringFlag{
			Name:        "s3-bucket",
			Usage:       "S3 bucket for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_BUCKET"),
			Destination: &s.S3Bucket,
		},
		&cli.StringFlag{
			Name:        "s3-region",
			Usage:       "S3 region",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_REGION", "AWS_REGION"),
			Destination: &s.S3Region,
		},
		&cli.StringFlag{
			Name:        "s3-prefix",
			Usage:       "Key prefix of attachments in S3",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_PREFIX"),
			Destination: &s.S3Prefix,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Usage:       "Static S3 access key (default credential chain when empty)",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_ACCESS_KEY"),
			Destination: &s.S3AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Usage:       "Static S3 secret key",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_SECRET_KEY"),
			Destination: &s.S3SecretKey,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "Endpoint of an S3 compatible service",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_ENDPOINT"),
			Destination: &s.S3Endpoint,
		},
		&cli.BoolFlag{
			Name:        "s3-path-style",
			Usage:       "Use path style S3 addressing",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_S3_PATH_STYLE"),
			Destination: &s.S3PathStyle,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_GCS_BUCKET"),
			Destination: &s.GCSBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object prefix of attachments in Cloud Storage",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_GCS_PREFIX"),
			Destination: &s.GCSPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account key file for Cloud Storage",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_GCS_CREDENTIALS"),
			Destination: &s.GCSCredsFile,
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Endpoint of a Cloud Storage emulator",
			Category:    "Storage",
			Sources:     cli.EnvVars("HERMESCAD_GCS_ENDPOINT"),
			Destination: &s.GCSEndpoint,
		},
	}
}

// Configure builds the attachment store. The returned cleanup closes cloud clients.
func (s *Storage) Configure(ctx context.Context) (*storage.Router, func(), error) {
	logger := ctxlog.From(ctx)
	cleanup := func() {}

	local, err := storage.NewLocal(s.UploadDir)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to init upload directory", goerr.V("dir", s.UploadDir))
	}

	var opts []storage.RouterOption
	stores := map[string]bool{storageLocal: true}

	if s.S3Bucket != "" {
		store, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:       s.S3Bucket,
			Region:       s.S3Region,
			Prefix:       s.S3Prefix,
			AccessKey:    s.S3AccessKey,
			SecretKey:    s.S3SecretKey,
			Endpoint:     s.S3Endpoint,
			UsePathStyle: s.S3PathStyle,
		})
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to init S3 storage", goerr.V("bucket", s.S3Bucket))
		}
		opts = append(opts, storage.WithScheme(storage.SchemeS3, store))
		if s.Primary == storageS3 {
			opts = append(opts, storage.WithPrimary(store))
		}
		stores[storageS3] = true
		logger.Info("S3 attachment storage enabled", "bucket", s.S3Bucket)
	}

	if s.GCSBucket != "" {
		store, err := storage.NewGCS(ctx, storage.GCSConfig{
			Bucket:          s.GCSBucket,
			Prefix:          s.GCSPrefix,
			CredentialsFile: s.GCSCredsFile,
			Endpoint:        s.GCSEndpoint,
		})
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to init Cloud Storage", goerr.V("bucket", s.GCSBucket))
		}
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close Cloud Storage client", "error", err)
			}
		}
		opts = append(opts, storage.WithScheme(storage.SchemeGCS, store))
		if s.Primary == storageGCS {
			opts = append(opts, storage.WithPrimary(store))
		}
		stores[storageGCS] = true
		logger.Info("Cloud Storage attachment storage enabled", "bucket", s.GCSBucket)
	}

	primary := s.Primary
	if primary == "" {
		primary = storageLocal
	}
	if !stores[primary] {
		cleanup()
		return nil, nil, goerr.New("primary storage is not configured", goerr.V("primary", primary))
	}

	return storage.NewRouter(local, opts...), cleanup, nil
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("upload_dir", s.UploadDir),
		slog.String("primary", s.Primary),
		slog.String("s3_bucket", s.S3Bucket),
		slog.Bool("s3_static_keys", s.S3AccessKey != ""),
		slog.String("gcs_bucket", s.GCSBucket),
	)
}
