package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/okonev/orderdesk/internal/usecase"
)

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configure the R2 bucket connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// R2Store keeps screenshots in a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	client    s3API
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// New connects to the bucket endpoint.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*R2Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load object store config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Store{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload stores the screenshot under a fresh key and returns its public URL.
func (s *R2Store) Upload(ctx context.Context, kind string, shot usecase.Screenshot) (string, error) {
	key := fmt.Sprintf("%s/%s%s", strings.Trim(kind, "/"), uuid.NewString(), extensionFor(shot.ContentType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(shot.Data),
		ContentType: aws.String(shot.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload screenshot: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete removes a previously uploaded object.
func (s *R2Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete screenshot: %w", err)
	}
	return nil
}

// KeyFromURL maps a public URL back to its bucket key. Foreign URLs map to
// the empty key.
func (s *R2Store) KeyFromURL(url string) string {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
