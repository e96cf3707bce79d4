// Package storage archives exported documents in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
	ProviderR2     Provider = "r2"
)

// ErrNotConfigured is returned by NewArchiver when no bucket is set.
var ErrNotConfigured = errors.New("storage: export bucket not configured")

type Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint overrides the provider default (host only or full URL).
	Endpoint string
	// R2AccountID selects the Cloudflare account endpoint.
	R2AccountID string
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// BaseEndpoint resolves the endpoint URL for non-AWS providers. An empty
// result means the SDK default.
func BaseEndpoint(cfg Config) (string, error) {
	if cfg.Endpoint != "" {
		if strings.HasPrefix(cfg.Endpoint, "https://") || strings.HasPrefix(cfg.Endpoint, "http://") {
			return cfg.Endpoint, nil
		}
		return "https://" + cfg.Endpoint, nil
	}

	switch cfg.Provider {
	case ProviderWasabi:
		if endpoint, ok := WasabiEndpoints[cfg.Region]; ok {
			return "https://" + endpoint, nil
		}
		// Default to ap-southeast-1 if region not found
		return "https://s3.ap-southeast-1.wasabisys.com", nil
	case ProviderR2:
		if cfg.R2AccountID == "" {
			return "", errors.New("storage: R2_ACCOUNT_ID is required for r2")
		}
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID), nil
	default:
		return "", nil
	}
}

// NewS3Client creates an S3 client with the given config
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint, err := BaseEndpoint(cfg)
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}

	// Wasabi and R2 use a custom endpoint with path-style addressing
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// Archiver stores exported files under a single bucket.
type Archiver struct {
	client *s3.Client
	bucket string
}

func NewArchiver(ctx context.Context, cfg Config) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Archiver{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads body under key.
func (a *Archiver) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, a.bucket, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (a *Archiver) Ping(ctx context.Context) error {
	_, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", a.bucket, err)
	}
	return nil
}
