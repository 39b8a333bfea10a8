package storage

import (
	"context"
	"io"
)

// Storage is the object store holding published translation fragments.
type Storage interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, opts ...Option) (*ObjectInfo, error)

	// Get returns the object stored under key.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// List returns the objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"S3_BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"S3_ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL, for MinIO or other S3-compatible services.
	Endpoint string `env:"S3_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// Prefix is the key prefix fragments are stored under (default: i18n).
	Prefix string `env:"S3_PREFIX" envDefault:"i18n"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE"`
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	contentType  string
	cacheControl string
}

// WithContentType overrides the default application/json content type.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithCacheControl sets the Cache-Control header served with the object,
// e.g. "public, max-age=300" for fragments delivered through a CDN.
func WithCacheControl(v string) Option {
	return func(o *putOptions) {
		o.cacheControl = v
	}
}

// Default configuration values.
const (
	DefaultRegion      = "us-east-1"
	DefaultPrefix      = "i18n"
	DefaultContentType = "application/json"
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
