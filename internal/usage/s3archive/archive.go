package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/pkg/logger"
)

// Client is the subset of *s3.Client used by Archiver.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is the JSON document written for each closed period.
type Snapshot struct {
	ClosedAt time.Time      `json:"closed_at"`
	Tenants  int            `json:"tenants"`
	Records  []usage.Record `json:"records"`
}

// Archiver writes period snapshots to {prefix}/{closed_at RFC3339}.json.
type Archiver struct {
	client Client
	bucket string
	prefix string
	logger *slog.Logger
}

var _ usage.Archiver = (*Archiver)(nil)

// Option configures an Archiver.
type Option func(*Archiver)

// WithClient replaces the S3 client built from Config.
func WithClient(c Client) Option {
	return func(a *Archiver) { a.client = c }
}

// WithLogger sets the archiver logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *Archiver) {
		if l != nil {
			a.logger = l
		}
	}
}

// New builds an Archiver. Without WithClient an S3 client is created from
// cfg and the default AWS credential chain, unless static keys are given.
func New(ctx context.Context, cfg Config, opts ...Option) (*Archiver, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	a := &Archiver{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		client, err := newClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.client = client
	}
	return a, nil
}

func newClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// Key returns the object key for a period closed at closedAt.
func (a *Archiver) Key(closedAt time.Time) string {
	return path.Join(a.prefix, closedAt.UTC().Format(time.RFC3339)+".json")
}

// Archive uploads one snapshot. An empty period is still written so every
// reset leaves a trace.
func (a *Archiver) Archive(ctx context.Context, closedAt time.Time, records []usage.Record) error {
	if records == nil {
		records = []usage.Record{}
	}
	body, err := json.Marshal(Snapshot{ClosedAt: closedAt.UTC(), Tenants: len(records), Records: records})
	if err != nil {
		return fmt.Errorf("s3archive: encode snapshot: %w", err)
	}

	key := a.Key(closedAt)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		err = classify(err)
		a.logger.ErrorContext(ctx, "usage archive upload failed",
			slog.String("bucket", a.bucket),
			slog.String("key", key),
			logger.Error(err),
		)
		return err
	}

	a.logger.InfoContext(ctx, "usage period archived",
		slog.String("bucket", a.bucket),
		slog.String("key", key),
		slog.Int("tenants", len(records)),
	)
	return nil
}

func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId":
			return fmt.Errorf("%w: %s: %w", ErrBucketUnavailable, apiErr.ErrorCode(), err)
		}
	}
	return fmt.Errorf("%w: %w", ErrUploadFailed, err)
}
