// Package storage persists uploaded images either on local disk or in an
// S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sachpatra/internal/config"
	_ "golang.org/x/image/webp"
)

// DefaultMaxUploadBytes caps one upload.
const DefaultMaxUploadBytes = 5 << 20

var (
	ErrTooLarge  = errors.New("file exceeds the upload limit")
	ErrNotImage  = errors.New("only image uploads are allowed")
	ErrEmptyFile = errors.New("file is empty")
)

// ObjectStore stores a blob under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ImageInfo describes a validated upload.
type ImageInfo struct {
	ContentType string
	Format      string
	Width       int
	Height      int
}

// InspectImage checks size and declared type, then decodes the header to
// confirm the bytes really are an image.
func InspectImage(data []byte, declaredType string, maxBytes int64) (ImageInfo, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if len(data) == 0 {
		return ImageInfo{}, ErrEmptyFile
	}
	if int64(len(data)) > maxBytes {
		return ImageInfo{}, ErrTooLarge
	}
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return ImageInfo{}, ErrNotImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, ErrNotImage
	}
	return ImageInfo{
		ContentType: "image/" + format,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// ObjectKey builds a dated, collision-free key keeping the format extension.
func ObjectKey(prefix, format string, now time.Time) string {
	ext := strings.ToLower(strings.TrimSpace(format))
	if ext == "jpeg" {
		ext = "jpg"
	}
	name := fmt.Sprintf("%s-%s", now.Format("20060102"), uuid.NewString())
	if ext != "" {
		name += "." + ext
	}
	return path.Join(strings.Trim(prefix, "/"), now.Format("2006/01"), name)
}

// New returns the S3 store when a bucket is configured, local disk otherwise.
func New(ctx context.Context, cfg config.AppConfig) (ObjectStore, error) {
	if cfg.S3Enabled() {
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3Bucket, s3BaseURL(cfg)), nil
	}
	return NewLocalStore(cfg.UploadDir, cfg.UploadURLPath)
}
