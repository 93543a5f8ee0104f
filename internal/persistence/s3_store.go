package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store keeps the index artifact as a JSON object in an S3 bucket.
type S3Store struct {
	client S3API
	bucket string
	key    string
}

var _ services.IndexStore = (*S3Store)(nil)

// NewS3Store creates a store using the given client.
func NewS3Store(client S3API, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key}
}

// NewS3StoreFromEnv builds an S3 client from the default AWS credential chain.
func NewS3StoreFromEnv(ctx context.Context, region, bucket, key string) (*S3Store, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, key), nil
}

func (s *S3Store) location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Import downloads the artifact. A missing object or an invalid body yields nil, nil.
func (s *S3Store) Import(ctx context.Context) (*model.SearchIndexData, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			logger.Debug("no index artifact at %s", s.location())
		} else {
			logger.Warn("failed to download index artifact %s: %v", s.location(), err)
		}
		return nil, nil
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		logger.Warn("failed to read index artifact %s: %v", s.location(), err)
		return nil, nil
	}
	return decodeArtifact(raw, s.location()), nil
}

// Export uploads the artifact. An existing object is kept unless opts.Override is set.
func (s *S3Store) Export(ctx context.Context, data *model.SearchIndexData, opts services.ExportOptions) error {
	raw, err := encodeArtifact(data)
	if err != nil {
		return err
	}

	if !opts.Override {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key),
		})
		if err == nil {
			logger.Info("index artifact %s already exists, keeping it", s.location())
			return nil
		}
		var notFound *types.NotFound
		if !errors.As(err, &notFound) {
			return fmt.Errorf("checking index artifact %s: %w", s.location(), err)
		}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading index artifact %s: %w", s.location(), err)
	}

	logger.Info("index artifact written to %s (%d chunks)", s.location(), len(data.Keys))
	return nil
}
