package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/pnm-media/filmsync/internal/config"
	"github.com/pnm-media/filmsync/internal/httpclient"
)

// S3Store implements ObjectStore against an S3-compatible bucket.
// Safe for concurrent use; the underlying SDK client pools connections
// through the shared HTTP client.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store creates a store bound to the configured bucket. Static
// credentials from the config take precedence; with none configured the SDK
// default chain (env, shared config, IMDS) applies. A non-empty endpoint URL
// switches the client to path-style addressing for S3-compatible services.
func NewS3Store(ctx context.Context, cfg *appconfig.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("no bucket configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(httpclient.New()),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Bucket returns the bucket name the store is bound to.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// ListTopLevelGroups lists immediate child prefixes of the bucket root using
// a delimiter listing, returning the common prefixes sorted.
func (s *S3Store) ListTopLevelGroups(ctx context.Context) ([]string, error) {
	var prefixes []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("list groups", err)
		}
		for _, cp := range page.CommonPrefixes {
			if cp.Prefix != nil && *cp.Prefix != "" {
				prefixes = append(prefixes, *cp.Prefix)
			}
		}
	}

	sort.Strings(prefixes)
	return prefixes, nil
}

// ListObjects returns all keys under prefix in listing order.
func (s *S3Store) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("list objects", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && *obj.Key != "" {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

// FetchObject opens an object for streaming reads.
func (s *S3Store) FetchObject(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify("get "+key, err)
	}
	return resp.Body, nil
}

// DownloadObject streams an object into localPath. The body is written to a
// ".part" sibling and renamed into place on success, so the destination file
// never exists in a half-written state (the engine's idempotency check keys
// off destination existence).
func (s *S3Store) DownloadObject(ctx context.Context, key, localPath string) (int64, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, classify("download "+key, err)
	}
	defer resp.Body.Close()

	partPath := localPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return 0, &LocalIOError{Path: partPath, Err: err}
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return 0, classify("download "+key, err)
	}

	if err := os.Rename(partPath, localPath); err != nil {
		os.Remove(partPath)
		return 0, &LocalIOError{Path: localPath, Err: err}
	}
	return written, nil
}

// Compile-time interface verification.
var _ ObjectStore = (*S3Store)(nil)
