package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// S3ObjectAPI is the part of *s3.Client the order store needs
type S3ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps the order collection in one object, <key>.json
type S3Store struct {
	client S3ObjectAPI
	bucket string
	key    string
}

// NewS3Client builds an S3 client from configuration. Static credentials
// are used when both key fields are set, otherwise the default chain.
func NewS3Client(ctx context.Context, cfg *appConfig.Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConfig), nil
}

// NewS3Store wraps an S3 client
func NewS3Store(client S3ObjectAPI, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key + ".json"}
}

// Name identifies the backend
func (s *S3Store) Name() string { return "s3" }

// Load downloads the collection object
func (s *S3Store) Load(ctx context.Context) ([]models.Order, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return []models.Order{}, nil
		}
		return nil, unavailable(s.Name(), "get object", err)
	}
	defer func() {
		if closeErr := out.Body.Close(); closeErr != nil {
			appConfig.Logger().Warn("Failed to close s3 body", zap.Error(closeErr))
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, unavailable(s.Name(), "read object", err)
	}
	return decodeOrders(data, s.Name()), nil
}

// Save uploads the collection as a single PutObject
func (s *S3Store) Save(ctx context.Context, orders []models.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return unavailable(s.Name(), "put object", err)
	}
	return nil
}

// Clear deletes the collection object
func (s *S3Store) Clear(ctx context.Context) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return unavailable(s.Name(), "delete object", err)
	}
	return nil
}

// Ping checks that the bucket is reachable
func (s *S3Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return unavailable(s.Name(), "head bucket", err)
	}
	return nil
}
