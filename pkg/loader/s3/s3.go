package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of *s3.Client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3FileLoader reads document bodies from a bucket. Objects are cached for
// the lifetime of the loader.
type S3FileLoader struct {
	bucket string
	client ObjectGetter
	cache  *loader.Cache
}

func NewS3FileLoaderWithClient(bucket string, client ObjectGetter) *S3FileLoader {
	return &S3FileLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(),
	}
}

// NewS3ClientParams configures a client for S3 or an S3-compatible store
// such as MinIO. Endpoint may be empty for AWS.
type NewS3ClientParams struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func NewS3Client(ctx context.Context, params NewS3ClientParams) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	if params.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = params.UsePathStyle
	}), nil
}

func (l *S3FileLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.Key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %q: %w", file.Key, err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read object %q: %w", file.Key, err)
		}
		return buf.Bytes(), nil
	})
}
