package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

type s3Sink struct {
	client *s3.Client
	bucket string
	key    string
	logger *slog.Logger
}

func openS3(ctx context.Context, destination string, opts Options) (*s3Sink, error) {
	u, err := url.Parse(destination)
	if err != nil {
		return nil, fmt.Errorf("parse s3 destination: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 destination must be s3://bucket/key: %s", destination)
	}

	region := opts.S3.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.S3.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3.AccessKeyID, opts.S3.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.S3.PathStyle {
			o.UsePathStyle = true
		}
		if opts.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3.Endpoint)
		}
		if opts.S3.HTTPClient != nil {
			o.HTTPClient = opts.S3.HTTPClient
		}
	})

	return &s3Sink{client: client, bucket: bucket, key: key, logger: opts.Logger}, nil
}

func (s *s3Sink) Write(ctx context.Context, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", s, err)
	}

	s.logger.Debug("Uploaded ontology", "bucket", s.bucket, "key", s.key, "bytes", len(data))
	return nil
}

func (s *s3Sink) Close() error { return nil }

func (s *s3Sink) String() string { return "s3://" + s.bucket + "/" + s.key }
