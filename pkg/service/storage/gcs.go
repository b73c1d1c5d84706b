package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"google.golang.org/api/option"
)

// SchemeGCS prefixes references to Cloud Storage objects
const SchemeGCS = "gs"

// GCSConfig configures the Cloud Storage attachment store
type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
	// Endpoint targets an emulator such as fake-gcs-server
	Endpoint string
}

// GCS stores attachments in a Cloud Storage bucket under gs://bucket/key references
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.AttachmentStore = (*GCS)(nil)

// NewGCS creates a Cloud Storage store using application default credentials unless a file is given
func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, goerr.Wrap(model.ErrConfiguration, "gcs bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gcs client")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &GCS{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Put uploads the content and returns its gs:// reference
func (g *GCS) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	key := objectKey(g.prefix, filename, time.Now())

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = detectContentType(filename, nil)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to copy content to gcs",
			goerr.V("bucket", g.bucket),
			goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close gcs writer",
			goerr.V("bucket", g.bucket),
			goerr.V("key", key))
	}

	ctxlog.From(ctx).Debug("Uploaded attachment to gcs", "bucket", g.bucket, "key", key)
	return SchemeGCS + "://" + g.bucket + "/" + key, nil
}

// Resolve downloads a gs:// reference
func (g *GCS) Resolve(ctx context.Context, ref string) (*model.Attachment, error) {
	bucket, key, ok := parseURI(SchemeGCS, ref)
	if !ok {
		return nil, goerr.Wrap(model.ErrAttachmentNotFound, "invalid gcs reference", goerr.V("ref", ref))
	}

	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(model.ErrAttachmentNotFound, "gcs object does not exist", goerr.V("ref", ref))
		}
		return nil, goerr.Wrap(err, "failed to create gcs reader", goerr.V("ref", ref))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read gcs object", goerr.V("ref", ref))
	}

	filename := path.Base(key)
	contentType := r.Attrs.ContentType
	if contentType == "" {
		contentType = detectContentType(filename, data)
	}

	return &model.Attachment{
		Ref:         ref,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Close releases the storage client
func (g *GCS) Close() error {
	return g.client.Close()
}
