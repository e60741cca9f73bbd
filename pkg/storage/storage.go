package storage

import (
	"context"
	"io"
)

// Storage is an object store that published files are written to.
type Storage interface {
	// Put uploads size bytes from r under the key chosen by opts.
	Put(ctx context.Context, r io.ReadSeeker, size int64, opts ...Option) (*FileInfo, error)

	// Get retrieves an object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key, or a signed one with WithSigned.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds S3-compatible storage configuration. Fields carry env tags
// so it can be embedded in a config struct loaded with pkg/config.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"S3_BUCKET"`

	// AccessKey is the access key ID (required).
	AccessKey string `env:"S3_ACCESS_KEY"`

	// SecretKey is the secret access key (required).
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is a custom endpoint URL, for MinIO or other S3-compatible
	// services.
	Endpoint string `env:"S3_ENDPOINT"`

	// Region defaults to us-east-1.
	Region string `env:"S3_REGION"`

	// Prefix is prepended to every key written by Publish.
	Prefix string `env:"S3_PREFIX"`

	// PublicURL is the CDN or public URL prefix for published files.
	PublicURL string `env:"S3_PUBLIC_URL"`

	// DefaultACL defaults to public-read; published sites are meant to be
	// served.
	DefaultACL ACL `env:"S3_ACL"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE"`
}

// FileInfo describes a stored object.
type FileInfo struct {
	Key          string
	ContentType  string
	CacheControl string
	ACL          ACL
	Size         int64
}

// ACL represents access control levels for stored files.
type ACL string

const (
	// ACLPrivate makes the file accessible only via signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the file publicly readable.
	ACLPublicRead ACL = "public-read"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// Enabled reports whether enough is configured to publish.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPublicRead
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	switch c.DefaultACL {
	case ACLPrivate, ACLPublicRead:
	default:
		return ErrInvalidConfig
	}
	return nil
}
