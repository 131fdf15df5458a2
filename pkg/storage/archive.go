// Package storage archives documents to an S3-compatible bucket (MinIO in
// development).
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

// Options configures an Archive. HTTPClient is only set by tests.
type Options struct {
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	HTTPClient *http.Client
}

// OptionsFromConfig maps the MINIO_* settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Endpoint:  cfg.MinioEndpoint,
		Region:    cfg.MinioRegion,
		Bucket:    cfg.MinioBucket,
		AccessKey: cfg.MinioRootUser,
		SecretKey: cfg.MinioRootPassword,
	}
}

// Archive writes immutable JSON documents to one bucket.
type Archive struct {
	client *s3.Client
	bucket string
	log    logger.Logger
}

// New builds an Archive. It does not contact the bucket; call EnsureBucket.
func New(ctx context.Context, opts Options, log logger.Logger) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: bucket required")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		if opts.HTTPClient != nil {
			o.HTTPClient = opts.HTTPClient
		}
	})
	return &Archive{client: client, bucket: opts.Bucket, log: log}, nil
}

// Ping checks that the bucket is reachable. Satisfies httpx.HealthChecker.
func (a *Archive) Ping(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", a.bucket, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	if err := a.Ping(ctx); err == nil {
		return nil
	}
	if _, err := a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	a.log.Info("archive bucket created", "bucket", a.bucket)
	return nil
}

// PutJSON stores v under key, overwriting any previous document.
func (a *Archive) PutJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// GetJSON reads the document at key into v.
func (a *Archive) GetJSON(ctx context.Context, key string, v any) error {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return json.Unmarshal(body, v)
}
