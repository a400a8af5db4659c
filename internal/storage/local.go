package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalBlobStore keeps uploads on local disk for development setups without
// object storage. URLs are served by the HTTP server under /files/.
type LocalBlobStore struct {
	root    string
	urlBase string
}

var _ BlobStorage = (*LocalBlobStore)(nil)

func NewLocalBlobStore(root, urlBase string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalBlobStore{
		root:    root,
		urlBase: strings.TrimSuffix(urlBase, "/"),
	}, nil
}

// Root returns the directory uploads are written to.
func (b *LocalBlobStore) Root() string { return b.root }

func (b *LocalBlobStore) Put(_ context.Context, data []byte, key string, _ string) (string, error) {
	cleaned := path.Clean("/" + key)
	absPath := filepath.Join(b.root, filepath.FromSlash(cleaned))

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return b.urlBase + cleaned, nil
}
