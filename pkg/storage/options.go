package storage

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	key          string
	contentType  string
	cacheControl string
	acl          ACL
}

// WithKey sets the object key. Put fails without one.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithContentType sets the stored Content-Type. The default is derived
// from the key's extension.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithCacheControl sets the Cache-Control header served with the object.
func WithCacheControl(cc string) Option {
	return func(o *putOptions) {
		o.cacheControl = cc
	}
}

// WithACL overrides the default ACL for this upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}
