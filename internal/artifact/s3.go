package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options configures the S3 client.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// NewS3Client loads the default AWS configuration, with static credentials
// and a custom endpoint when given (MinIO, LocalStack).
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	}), nil
}

// S3Store keeps artifacts as "<prefix>/<TICKER>/<stamp>.json" objects.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store returns a store writing under prefix in bucket.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) key(ticker, stamp string) string {
	return path.Join(s.prefix, ticker, stamp+fileExt)
}

func (s *S3Store) tickerPrefix(ticker string) string {
	return path.Join(s.prefix, ticker) + "/"
}

func (s *S3Store) Put(ctx context.Context, info models.ArtifactInfo, payload []byte) error {
	if err := checkTicker(info.Ticker); err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(info.Ticker, info.FittedAt.UTC().Format(stampLayout))),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"artifact-id":      info.ID,
			"artifact-format":  Format,
			"artifact-version": fmt.Sprint(Version),
		},
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, id string) ([]byte, error) {
	ticker, at, err := ParseID(id)
	if err != nil {
		return nil, notFound(id)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ticker, at.Format(stampLayout))),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("download artifact %s: %w: %w", id, errs.ErrRepository, err)
	}
	defer func() { _ = out.Body.Close() }()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w: %w", id, errs.ErrRepository, err)
	}
	return b, nil
}

func (s *S3Store) List(ctx context.Context, ticker string) ([]models.ArtifactInfo, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	prefix := s.tickerPrefix(ticker)
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	out := []models.ArtifactInfo{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list artifacts %s: %w: %w", ticker, errs.ErrRepository, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, fileExt) {
				continue
			}
			if a, ok := info(ticker + "_" + strings.TrimSuffix(name, fileExt)); ok {
				out = append(out, a)
			}
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}
