package storage

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-process Storage. It backs dry-run publishing and tests.
type Memory struct {
	objects map[string]memObject
	baseURL string
	mu      sync.RWMutex
}

type memObject struct {
	info FileInfo
	data []byte
}

// NewMemory returns an empty Memory whose URLs are baseURL + "/" + key.
func NewMemory(baseURL string) *Memory {
	return &Memory{objects: make(map[string]memObject), baseURL: baseURL}
}

func (m *Memory) Put(ctx context.Context, r io.ReadSeeker, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{acl: ACLPublicRead}
	for _, opt := range opts {
		opt(o)
	}
	key, err := cleanKey(o.key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}
	contentType := o.contentType
	if contentType == "" {
		contentType = ContentTypeFor(key)
	}
	info := FileInfo{
		Key:          key,
		ContentType:  contentType,
		CacheControl: o.cacheControl,
		ACL:          o.acl,
		Size:         size,
	}

	m.mu.Lock()
	m.objects[key] = memObject{info: info, data: data}
	m.mu.Unlock()
	return &info, nil
}

func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	return m.baseURL + "/" + key, nil
}

// Stat returns the metadata stored for key.
func (m *Memory) Stat(key string) (FileInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.info, ok
}

// Keys lists stored keys in lexical order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.objects))
}

var _ Storage = (*Memory)(nil)
