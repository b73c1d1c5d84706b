package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
)

const (
	// SchemeS3 prefixes references to S3 objects
	SchemeS3      = "s3"
	defaultPrefix = "attachments"
)

// S3Config configures the S3 attachment store
type S3Config struct {
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string
	SecretKey string
	// Endpoint targets S3-compatible services such as MinIO
	Endpoint     string
	UsePathStyle bool
}

// S3 stores attachments in an S3 bucket under s3://bucket/key references
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ interfaces.AttachmentStore = (*S3)(nil)

// NewS3 creates an S3 store. Static keys take precedence over the default credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, goerr.Wrap(model.ErrConfiguration, "s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	optFns := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load aws config", goerr.V("region", region))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		}
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &S3{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Put uploads the content and returns its s3:// reference
func (s *S3) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read upload")
	}

	key := objectKey(s.prefix, filename, time.Now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(detectContentType(filename, data)),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload to s3",
			goerr.V("bucket", s.bucket),
			goerr.V("key", key))
	}

	ctxlog.From(ctx).Debug("Uploaded attachment to s3", "bucket", s.bucket, "key", key)
	return SchemeS3 + "://" + s.bucket + "/" + key, nil
}

// Resolve downloads an s3:// reference
func (s *S3) Resolve(ctx context.Context, ref string) (*model.Attachment, error) {
	bucket, key, ok := parseURI(SchemeS3, ref)
	if !ok {
		return nil, goerr.Wrap(model.ErrAttachmentNotFound, "invalid s3 reference", goerr.V("ref", ref))
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, goerr.Wrap(model.ErrAttachmentNotFound, "s3 object does not exist", goerr.V("ref", ref))
		}
		return nil, goerr.Wrap(err, "failed to get object from s3", goerr.V("ref", ref))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read s3 object", goerr.V("ref", ref))
	}

	filename := path.Base(key)
	contentType := aws.ToString(out.ContentType)
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
