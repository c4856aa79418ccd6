// internal/storage/store.go

// Package storage provides path-addressed object storage for entity
// attachments and the uploader that associates stored objects with record
// document slots.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PutOptions carry the object's cache policy and visibility. Documents are
// displayed directly by URL with no signed-access step, so uploads are
// publicly readable with a short cache TTL.
type PutOptions struct {
	ContentType  string
	CacheControl string
	Public       bool
	Upsert       bool
}

// ObjectStore is the storage boundary: path-addressed upload returning a
// publicly resolvable URL.
type ObjectStore interface {
	Put(ctx context.Context, bucket, objectPath string, r io.Reader, opts PutOptions) (string, error)
}

// DiskStore keeps objects on the local filesystem under root, served back at
// baseURL by the API's media file server.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Put(ctx context.Context, bucket, objectPath string, r io.Reader, opts PutOptions) (string, error) {
	clean := path.Clean("/" + objectPath)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("storing object: invalid path %q", objectPath)
	}

	full := filepath.Join(s.root, bucket, filepath.FromSlash(clean))
	if !opts.Upsert {
		if _, err := os.Stat(full); err == nil {
			return "", fmt.Errorf("storing object: %q already exists", objectPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storing object: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storing object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storing object: %w", err)
	}

	return s.publicURL(bucket, clean), nil
}

func (s *DiskStore) publicURL(bucket, clean string) string {
	escaped := make([]string, 0, 8)
	for _, seg := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	return s.baseURL + "/" + bucket + "/" + strings.Join(escaped, "/")
}
