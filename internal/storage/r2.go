package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by R2Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// R2Config holds the Cloudflare R2 connection settings.
type R2Config struct {
	Endpoint  string
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Enabled reports whether enough settings are present to reach a bucket.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != "" &&
		(c.Endpoint != "" || c.AccountID != "")
}

func (c R2Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// R2Store keeps page shells as objects in an R2 bucket.
type R2Store struct {
	client S3API
	bucket string
	prefix string
}

// NewR2Store connects to R2 through the S3 API.
func NewR2Store(ctx context.Context, cfg R2Config) (*R2Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.endpoint())
		o.UsePathStyle = true
	})
	return NewR2StoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewR2StoreWithClient wraps an existing S3 client.
func NewR2StoreWithClient(client S3API, bucket, prefix string) *R2Store {
	if prefix == "" {
		prefix = "pages"
	}
	return &R2Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (r *R2Store) key(name string) string {
	return path.Join(r.prefix, name)
}

func (r *R2Store) GetPage(ctx context.Context, name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return "", ErrPageNotFound
		}
		return "", fmt.Errorf("failed to get page %s from R2: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page %s from R2: %w", name, err)
	}
	return string(data), nil
}

func (r *R2Store) SavePage(ctx context.Context, name, html string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(name)),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to put page %s to R2: %w", name, err)
	}
	return nil
}

func (r *R2Store) DeletePage(ctx context.Context, name string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	// S3 deletes are idempotent, so probe first to report missing pages.
	if _, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(name)),
	}); err != nil {
		if isNotFound(err) {
			return ErrPageNotFound
		}
		return fmt.Errorf("failed to check page %s in R2: %w", name, err)
	}

	if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(name)),
	}); err != nil {
		return fmt.Errorf("failed to delete page %s from R2: %w", name, err)
	}
	return nil
}

func (r *R2Store) ListPages(ctx context.Context) ([]PageInfo, error) {
	var pages []PageInfo

	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix + "/"),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pages in R2: %w", err)
		}
		for _, obj := range out.Contents {
			name := path.Base(aws.ToString(obj.Key))
			if !strings.HasSuffix(name, ".html") {
				continue
			}
			pages = append(pages, PageInfo{
				Name:    name,
				Size:    aws.ToInt64(obj.Size),
				Updated: aws.ToTime(obj.LastModified),
				Source:  "r2",
			})
		}
	}
	return pages, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
