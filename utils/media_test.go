package utils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage records uploads in memory and can be told to fail.
type fakeStorage struct {
	objects    map[string][]byte
	failUpload bool
	failStat   bool
	removed    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string, _ map[string]string) (string, error) {
	if s.failUpload {
		return "", fmt.Errorf("bucket unavailable")
	}
	s.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (s *fakeStorage) Stat(_ context.Context, path string) (*StorageObjectInfo, error) {
	if s.failStat {
		return nil, fmt.Errorf("stat unavailable")
	}
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("no such object %s", path)
	}
	return &StorageObjectInfo{
		Size:         int64(len(data)),
		ContentType:  "image/png",
		LastModified: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (s *fakeStorage) Remove(_ context.Context, path string) error {
	s.removed = append(s.removed, path)
	delete(s.objects, path)
	return nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestPipeline(storage ObjectStorage) *MediaPipeline {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	p := NewMediaPipeline(storage, logger)
	p.Now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestValidateMedia(t *testing.T) {
	t.Run("oversized image reports size", func(t *testing.T) {
		result := ValidateMedia("image/png", 15<<20, UploadOptions{})
		require.False(t, result.Valid())
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "size", result.Errors[0].Field)
		assert.Contains(t, result.Errors[0].Message, "10MB")
	})

	t.Run("video gets the larger cap", func(t *testing.T) {
		result := ValidateMedia("video/mp4", 80<<20, UploadOptions{})
		assert.True(t, result.Valid())
	})

	t.Run("unsupported type rejected regardless of size", func(t *testing.T) {
		result := ValidateMedia("application/pdf", 10, UploadOptions{})
		require.False(t, result.Valid())
		assert.Equal(t, "type", result.Errors[0].Field)
	})

	t.Run("aggregates every violation", func(t *testing.T) {
		result := ValidateMedia("application/pdf", 200<<20, UploadOptions{RequireImage: true})
		require.False(t, result.Valid())
		assert.Len(t, result.Errors, 3)
		assert.Contains(t, result.Error(), "unsupported file type")
		assert.Contains(t, result.Error(), "image file required")
	})

	t.Run("require video rejects images", func(t *testing.T) {
		result := ValidateMedia("image/png", 10, UploadOptions{RequireVideo: true})
		require.False(t, result.Valid())
		assert.Contains(t, result.Error(), "video file required")
	})

	t.Run("explicit cap overrides the default", func(t *testing.T) {
		result := ValidateMedia("image/png", 3<<20, UploadOptions{MaxSizeMB: 2})
		require.False(t, result.Valid())
		assert.Contains(t, result.Errors[0].Message, "2MB")
	})
}

func TestUploadCampaignMediaImage(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)

	var reports []int
	result, err := pipeline.UploadCampaignMedia(context.Background(),
		pngBytes(t, 2000, 500), "banner.png", "image/png", 12,
		UploadOptions{
			CompressImages: true,
			OnProgress:     func(p int) { reports = append(reports, p) },
		})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.StoragePath, "campaign-media/12/"))
	assert.True(t, strings.HasSuffix(result.StoragePath, ".png"))
	assert.Equal(t, "https://cdn.test/"+result.StoragePath, result.DownloadURL)
	assert.Empty(t, result.ThumbnailURL)

	// Stat-reported size and time merged with locally computed dimensions
	assert.Equal(t, int64(len(storage.objects[result.StoragePath])), result.Metadata.Size)
	assert.Equal(t, "image/png", result.Metadata.ContentType)
	assert.Equal(t, "banner.png", result.Metadata.OriginalName)
	require.NotNil(t, result.Metadata.LastModified)

	// 2000x500 fits down to 1024 wide preserving aspect
	assert.Equal(t, "1024x256", result.Metadata.Dimensions)

	require.NotEmpty(t, reports)
	assert.Equal(t, 0, reports[0])
	assert.Equal(t, 100, reports[len(reports)-1])
}

func TestUploadCampaignMediaCompressionFailureKeepsOriginal(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)
	pipeline.compressImage = func([]byte, string) ([]byte, error) {
		return nil, fmt.Errorf("decoder missing")
	}

	original := pngBytes(t, 64, 64)
	result, err := pipeline.UploadCampaignMedia(context.Background(),
		original, "tiny.png", "image/png", 3,
		UploadOptions{CompressImages: true})
	require.NoError(t, err)
	assert.Equal(t, original, storage.objects[result.StoragePath])
}

func TestUploadCampaignMediaUploadFailureIsFatal(t *testing.T) {
	storage := newFakeStorage()
	storage.failUpload = true
	pipeline := newTestPipeline(storage)

	_, err := pipeline.UploadCampaignMedia(context.Background(),
		pngBytes(t, 8, 8), "a.png", "image/png", 1, UploadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media upload failed")
}

func TestUploadCampaignMediaStatFailureIsFatal(t *testing.T) {
	storage := newFakeStorage()
	storage.failStat = true
	pipeline := newTestPipeline(storage)

	_, err := pipeline.UploadCampaignMedia(context.Background(),
		pngBytes(t, 8, 8), "a.png", "image/png", 1, UploadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata")
}

func TestUploadCampaignMediaValidationShortCircuits(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)

	_, err := pipeline.UploadCampaignMedia(context.Background(),
		[]byte("%PDF-1.4"), "doc.pdf", "application/pdf", 1, UploadOptions{})
	require.Error(t, err)

	var validation *MediaValidationResult
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, storage.objects)
}

func TestUploadCampaignMediaVideoThumbnail(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)
	pipeline.videoThumbnail = func(context.Context, []byte) ([]byte, error) {
		return []byte("jpeg-frame"), nil
	}
	pipeline.videoDuration = func(context.Context, []byte) (float64, error) {
		return 42.4, nil
	}

	result, err := pipeline.UploadCampaignMedia(context.Background(),
		[]byte("video-bytes"), "clip.mp4", "video/mp4", 9,
		UploadOptions{GenerateThumbnail: true})
	require.NoError(t, err)

	assert.Equal(t, 42, result.Metadata.DurationSeconds)
	require.NotEmpty(t, result.ThumbnailURL)
	assert.Contains(t, result.ThumbnailURL, "campaign-media/9/thumbnails/")
	assert.True(t, strings.HasSuffix(result.ThumbnailURL, ".jpg"))
}

func TestUploadCampaignMediaThumbnailFailureIsBestEffort(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)
	pipeline.videoThumbnail = func(context.Context, []byte) ([]byte, error) {
		return nil, fmt.Errorf("ffmpeg not installed")
	}
	pipeline.videoDuration = func(context.Context, []byte) (float64, error) {
		return 0, fmt.Errorf("ffprobe not installed")
	}

	result, err := pipeline.UploadCampaignMedia(context.Background(),
		[]byte("video-bytes"), "clip.mp4", "video/mp4", 9,
		UploadOptions{GenerateThumbnail: true})
	require.NoError(t, err)
	assert.Empty(t, result.ThumbnailURL)
	assert.Zero(t, result.Metadata.DurationSeconds)
}

func TestCompressImageResizesLargePNG(t *testing.T) {
	data := pngBytes(t, 2048, 1024)
	out, err := CompressImage(data, "image/png")
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 1024)
	assert.LessOrEqual(t, cfg.Height, 1024)
}

func TestCompressImageDownscalesPNGTowardByteTarget(t *testing.T) {
	// Random pixels defeat PNG's filters, so the first encode of an
	// 800x800 frame lands well over the byte target
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 800, 800))
	rng.Read(img.Pix)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.Greater(t, buf.Len(), 1<<20)

	out, err := CompressImage(buf.Bytes(), "image/png")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), 1<<20)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Less(t, cfg.Width, 800)
}

func TestCompressImageRejectsUndecodableInput(t *testing.T) {
	_, err := CompressImage([]byte("not an image"), "image/webp")
	assert.Error(t, err)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".png", fileExtension("photo.PNG", "image/jpeg"))
	assert.Equal(t, ".jpg", fileExtension("noext", "image/jpeg"))
	assert.Equal(t, ".mov", fileExtension("", "video/quicktime"))
	assert.Equal(t, "", fileExtension("", "application/unknown"))
}
