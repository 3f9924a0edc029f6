package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sachpatra/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspectImage(t *testing.T) {
	data := pngBytes(t, 4, 3)

	info, err := InspectImage(data, "image/png", 0)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{ContentType: "image/png", Format: "png", Width: 4, Height: 3}, info)

	_, err = InspectImage(data, "text/plain", 0)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = InspectImage([]byte("not an image"), "image/png", 0)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = InspectImage(data, "image/png", 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = InspectImage(nil, "image/png", 0)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	key := ObjectKey("/images/", "jpeg", now)
	assert.True(t, strings.HasPrefix(key, "images/2025/03/20250309-"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ObjectKey("images", "jpeg", now))
}

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "images/a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/a.png", url)

	stored, err := os.ReadFile(filepath.Join(dir, "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), stored)

	url, err = store.Put(context.Background(), "../../escape.png", "image/png", []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.png", url)
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StorePut(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "news", "https://cdn.example.in/")

	url, err := store.Put(context.Background(), "/images/a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.in/images/a.png", url)
	assert.Equal(t, "news", *client.input.Bucket)
	assert.Equal(t, "images/a.png", *client.input.Key)
	assert.Equal(t, "image/png", *client.input.ContentType)

	client.err = errors.New("denied")
	_, err = store.Put(context.Background(), "b.png", "image/png", nil)
	assert.Error(t, err)
}

func TestS3BaseURL(t *testing.T) {
	cfg := config.AppConfig{S3Bucket: "news", S3Region: "ap-south-1"}
	assert.Equal(t, "https://news.s3.ap-south-1.amazonaws.com", s3BaseURL(cfg))

	cfg.S3Endpoint = "http://minio:9000/"
	assert.Equal(t, "http://minio:9000/news", s3BaseURL(cfg))

	cfg.S3PublicURL = "https://cdn.example.in"
	assert.Equal(t, "https://cdn.example.in", s3BaseURL(cfg))
}

func TestNewFallsBackToLocal(t *testing.T) {
	store, err := New(context.Background(), config.AppConfig{UploadDir: t.TempDir(), UploadURLPath: "/uploads"})
	require.NoError(t, err)
	_, ok := store.(*LocalStore)
	assert.True(t, ok)
}
