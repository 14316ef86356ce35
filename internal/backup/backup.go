// Package backup exports clinic snapshots to an S3-compatible bucket.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adhamfakhereldeen/Cyber/internal/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("backup disabled: no bucket configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Options configures the S3 target.
type Options struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

type Exporter struct {
	opts Options
}

func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

func (e *Exporter) Enabled() bool {
	return e != nil && e.opts.Bucket != ""
}

// StorageKey returns snapshots/<yyyy>/<mm>/<dd>/<uuid>.json for t.
func StorageKey(t time.Time) string {
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%s.json", t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (e *Exporter) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.opts.AccessKey,
			e.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads snap as JSON and returns the object key.
func (e *Exporter) Export(ctx context.Context, snap *storage.Snapshot) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}
	if snap == nil {
		snap = storage.Empty()
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to configure s3 client: %w", err)
	}

	key := StorageKey(now().UTC())
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return key, nil
}
