package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadImage stores an image in blob storage under a random key and returns
// its public URL.
func (s *Service) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if int64(len(data)) > s.maxUpload {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxUpload)
	}
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}

	ext := strings.ToLower(path.Ext(filename))
	key := uuid.NewString() + ext
	if s.keyPrefix != "" {
		key = strings.TrimSuffix(s.keyPrefix, "/") + "/" + key
	}

	url, err := s.blobs.Put(ctx, data, key, contentType)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return url, nil
}
