package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type S3Storage struct {
	client    s3API
	bucket    string
	region    string
	baseURL   string
	endpoint  string
	pathStyle bool
	publicACL bool
}

func NewS3Storage(ctx context.Context, cfg *config.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config

	// Static credentials when provided, otherwise the default chain (env, shared config, IAM role).
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("S3 storage configured", map[string]interface{}{
		"bucket":     cfg.Bucket,
		"region":     cfg.Region,
		"endpoint":   cfg.Endpoint,
		"public_acl": cfg.PublicACL,
	})

	return newS3Storage(client, cfg), nil
}

func newS3Storage(client s3API, cfg *config.S3Config) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle: cfg.UsePathStyle,
		publicACL: cfg.PublicACL,
	}
}

// Put streams body to key. PutObject is atomic, a failed call leaves no object behind.
func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// MakePublic applies the public-read canned ACL. Buckets that serve through a policy or CDN
// run with PublicACL disabled, and this is a no-op.
func (s *S3Storage) MakePublic(ctx context.Context, key string) error {
	if !s.publicACL {
		return nil
	}

	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to make object %s public: %w", key, err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	switch {
	case s.baseURL != "":
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	case s.endpoint != "" && s.pathStyle:
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

// Ping checks that the bucket exists and is reachable with the configured credentials.
func (s *S3Storage) Ping(ctx context.Context) error {
	if s.bucket == "" {
		return errors.New("bucket not configured")
	}
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s unavailable: %w", s.bucket, err)
	}
	return nil
}
