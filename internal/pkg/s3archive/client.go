// Package s3archive stores JSON snapshots of ingestion runs in S3 compatible storage.
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/env"
)

// Client wraps the S3 client with archive specific functionality
type Client struct {
	s3Client *s3.Client
	cfg      config.S3Config
}

// NewClient creates the archive client and checks the bucket is reachable.
func NewClient(ctx context.Context, cfg config.S3Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("S3 archive is disabled")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3 compatible services (B2, MinIO) want path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{s3Client: s3Client, cfg: cfg}
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[s3archive] initialized for bucket: %s", cfg.BucketName)
	return client, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.BucketName),
	})
	if err == nil {
		return nil
	}
	if env.IsProduction() {
		return fmt.Errorf("bucket %s not accessible: %w", c.cfg.BucketName, err)
	}

	log.Warnf("[s3archive] bucket %s not found, attempting to create it", c.cfg.BucketName)
	input := &s3.CreateBucketInput{Bucket: aws.String(c.cfg.BucketName)}
	if c.cfg.EndpointURL == "" && c.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.cfg.Region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", c.cfg.BucketName, err)
	}
	return nil
}

// ObjectKey is daily_volumes/<run-date>/<run-id>.json.
func ObjectKey(runDate time.Time, runID string) string {
	return fmt.Sprintf("daily_volumes/%s/%s.json", runDate.Format("2006-01-02"), runID)
}

// Archive uploads v as a JSON document under key.
func (c *Client) Archive(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"upload-source": "volumecron",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[s3archive] uploaded s3://%s/%s (%d bytes)", c.cfg.BucketName, key, len(body))
	return nil
}
