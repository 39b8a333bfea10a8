package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements Storage using S3-compatible object storage.
type S3Storage struct {
	client *s3.Client
	cfg    Config
}

// New creates a new S3Storage with the given configuration.
func New(cfg Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Storage{
		client: s3.New(s3.Options{}, opts...),
		cfg:    cfg,
	}, nil
}

// Prefix returns the configured fragment key prefix.
func (s *S3Storage) Prefix() string {
	return s.cfg.Prefix
}

// Put uploads data from r under key.
func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader, size int64, opts ...Option) (*ObjectInfo, error) {
	key = cleanKey(key)
	if key == "" {
		return nil, ErrInvalidKey
	}

	o := &putOptions{contentType: DefaultContentType}
	for _, opt := range opts {
		opt(o)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(o.contentType),
	}
	if o.cacheControl != "" {
		input.CacheControl = aws.String(o.cacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &ObjectInfo{Key: key, Size: size, ContentType: o.contentType}, nil
}

// Get retrieves an object from S3. It satisfies i18n.ObjectGetter.
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(cleanKey(key)),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return output.Body, nil
}

// Delete removes an object from S3.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(cleanKey(key)),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// List returns every object whose key starts with prefix.
func (s *S3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(cleanKey(prefix)),
	})

	var objects []ObjectInfo
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, ErrListFailed)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// cleanKey strips leading slashes and rejects path traversal segments.
func cleanKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return ""
		}
	}
	return key
}

var _ Storage = (*S3Storage)(nil)
