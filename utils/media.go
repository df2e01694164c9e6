package utils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"adboard/models"
)

var SupportedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
var SupportedVideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}

const (
	MaxImageSizeMB   = 10
	MaxVideoSizeMB   = 100
	DefaultMaxSizeMB = 50

	// Compression targets for uploaded images
	compressedMaxBytes = 1 << 20 // 1MB
	compressedMaxEdge  = 1024
	// Floor for the PNG downscale loop; below this the result is accepted
	// even when it still exceeds the byte target
	compressedMinEdge = 256
)

func IsImageType(contentType string) bool {
	for _, t := range SupportedImageTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func IsVideoType(contentType string) bool {
	for _, t := range SupportedVideoTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// MediaValidationError describes one violated upload rule.
type MediaValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MediaValidationResult aggregates every violated rule, not just the first.
// It implements error so the pipeline can return it directly.
type MediaValidationResult struct {
	Errors []MediaValidationError `json:"errors"`
}

func (r *MediaValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *MediaValidationResult) Error() string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, ", ")
}

// UploadOptions configures one pipeline run.
type UploadOptions struct {
	// 0 means the per-type default (10MB images, 100MB videos)
	MaxSizeMB         int
	RequireImage      bool
	RequireVideo      bool
	CompressImages    bool
	GenerateThumbnail bool
	// Called at least at 0 and 100; intermediate reports are best-effort
	// since the underlying upload is not resumable.
	OnProgress func(percent int)
}

// MediaUploadResult is the post-upload record handed back to the caller.
type MediaUploadResult struct {
	DownloadURL  string               `json:"download_url"`
	StoragePath  string               `json:"storage_path"`
	ThumbnailURL string               `json:"thumbnail_url,omitempty"`
	Metadata     models.MediaMetadata `json:"metadata"`
}

// ValidateMedia checks the declared content type and size against the
// configured limits and returns every violated rule.
func ValidateMedia(contentType string, size int64, opts UploadOptions) *MediaValidationResult {
	result := &MediaValidationResult{}

	isImage := IsImageType(contentType)
	isVideo := IsVideoType(contentType)

	maxMB := opts.MaxSizeMB
	if maxMB == 0 {
		switch {
		case isImage:
			maxMB = MaxImageSizeMB
		case isVideo:
			maxMB = MaxVideoSizeMB
		default:
			maxMB = DefaultMaxSizeMB
		}
	}

	if size > int64(maxMB)<<20 {
		result.Errors = append(result.Errors, MediaValidationError{
			Field:   "size",
			Message: fmt.Sprintf("file size exceeds %dMB limit", maxMB),
		})
	}

	if !isImage && !isVideo {
		result.Errors = append(result.Errors, MediaValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported file type %s", contentType),
		})
	}
	if opts.RequireImage && !isImage {
		result.Errors = append(result.Errors, MediaValidationError{
			Field:   "type",
			Message: "image file required",
		})
	}
	if opts.RequireVideo && !isVideo {
		result.Errors = append(result.Errors, MediaValidationError{
			Field:   "type",
			Message: "video file required",
		})
	}

	return result
}

// MediaPipeline validates, compresses, thumbnails and uploads campaign
// media, then assembles the merged metadata record. Compression and
// thumbnailing are best-effort; upload and metadata read failures propagate.
type MediaPipeline struct {
	Storage ObjectStorage
	Logger  *logrus.Logger
	Now     func() time.Time

	compressImage  func(data []byte, contentType string) ([]byte, error)
	videoThumbnail func(ctx context.Context, data []byte) ([]byte, error)
	videoDuration  func(ctx context.Context, data []byte) (float64, error)
}

func NewMediaPipeline(storage ObjectStorage, logger *logrus.Logger) *MediaPipeline {
	return &MediaPipeline{
		Storage:        storage,
		Logger:         logger,
		Now:            time.Now,
		compressImage:  CompressImage,
		videoThumbnail: ffmpegThumbnail,
		videoDuration:  ffprobeDuration,
	}
}

// UploadCampaignMedia runs the full validate > compress > thumbnail >
// upload > stat chain for one file and returns the assembled result.
func (p *MediaPipeline) UploadCampaignMedia(
	ctx context.Context,
	data []byte,
	filename string,
	contentType string,
	campaignID uint,
	opts UploadOptions,
) (*MediaUploadResult, error) {
	if validation := ValidateMedia(contentType, int64(len(data)), opts); !validation.Valid() {
		return nil, validation
	}

	progress := opts.OnProgress
	if progress == nil {
		progress = func(int) {}
	}
	progress(0)

	isImage := IsImageType(contentType)
	isVideo := IsVideoType(contentType)

	processed := data
	if isImage && opts.CompressImages {
		compressed, err := p.compressImage(data, contentType)
		if err != nil {
			p.Logger.WithError(err).Warn("Image compression failed, uploading original file")
		} else {
			processed = compressed
		}
	}

	var thumbnail []byte
	if isVideo && opts.GenerateThumbnail {
		thumb, err := p.videoThumbnail(ctx, data)
		if err != nil {
			p.Logger.WithError(err).Warn("Video thumbnail generation failed")
		} else {
			thumbnail = thumb
		}
	}

	now := p.Now()
	timestamp := now.UnixMilli()
	basePath := fmt.Sprintf("campaign-media/%d", campaignID)
	path := fmt.Sprintf("%s/%d%s", basePath, timestamp, fileExtension(filename, contentType))

	downloadURL, err := p.Storage.Upload(ctx, path, processed, contentType, map[string]string{
		"original-name": filename,
		"uploaded-at":   now.Format(time.RFC3339),
	})
	if err != nil {
		err = fmt.Errorf("media upload failed: %w", err)
		captureStorageError(err, path)
		return nil, err
	}

	info, err := p.Storage.Stat(ctx, path)
	if err != nil {
		err = fmt.Errorf("failed to read uploaded media metadata: %w", err)
		captureStorageError(err, path)
		return nil, err
	}

	metadata := models.MediaMetadata{
		Name:         filepath.Base(path),
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: &info.LastModified,
		OriginalName: filename,
	}
	if metadata.ContentType == "" {
		metadata.ContentType = contentType
	}

	if isImage {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(processed)); err == nil {
			metadata.Dimensions = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
		} else {
			p.Logger.WithError(err).Warn("Failed to read image dimensions")
		}
	}
	if isVideo {
		if duration, err := p.videoDuration(ctx, data); err == nil {
			metadata.DurationSeconds = int(duration + 0.5)
		} else {
			p.Logger.WithError(err).Warn("Failed to read video duration")
		}
	}

	result := &MediaUploadResult{
		DownloadURL: downloadURL,
		StoragePath: path,
		Metadata:    metadata,
	}

	if thumbnail != nil {
		thumbPath := fmt.Sprintf("%s/thumbnails/%d.jpg", basePath, timestamp)
		thumbURL, err := p.Storage.Upload(ctx, thumbPath, thumbnail, "image/jpeg", nil)
		if err != nil {
			p.Logger.WithError(err).Warn("Failed to upload video thumbnail")
		} else {
			result.ThumbnailURL = thumbURL
		}
	}

	progress(100)
	return result, nil
}

// captureStorageError reports a fatal storage failure to Sentry with the
// object path attached.
func captureStorageError(err error, path string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "media_pipeline")
		scope.SetExtra("path", path)
		sentry.CaptureException(err)
	})
}

// CompressImage re-encodes an image to fit the 1MB / 1024px compression
// targets, preserving its format. Formats the decoder does not know (webp)
// come back as an error so the caller keeps the original bytes.
func CompressImage(data []byte, contentType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > compressedMaxEdge || bounds.Dy() > compressedMaxEdge {
		img = imaging.Fit(img, compressedMaxEdge, compressedMaxEdge, imaging.Lanczos)
	}

	// PNG is lossless, so the byte target is chased by downscaling further
	// rather than by dropping encode quality
	if contentType == "image/png" {
		for {
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
				return nil, fmt.Errorf("failed to encode png: %w", err)
			}
			bounds := img.Bounds()
			if buf.Len() <= compressedMaxBytes ||
				(bounds.Dx() <= compressedMinEdge && bounds.Dy() <= compressedMinEdge) {
				return buf.Bytes(), nil
			}
			img = imaging.Fit(img, bounds.Dx()/2, bounds.Dy()/2, imaging.Lanczos)
		}
	}

	// JPEG: step quality down until the target size is met
	var buf bytes.Buffer
	for _, quality := range []int{85, 75, 65, 55, 45} {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		if buf.Len() <= compressedMaxBytes {
			break
		}
	}
	return buf.Bytes(), nil
}

// ffmpegThumbnail decodes a still frame at min(1s, 10% of playback) and
// encodes it as a JPEG, 320px wide.
func ffmpegThumbnail(ctx context.Context, data []byte) ([]byte, error) {
	tmp, err := writeTempFile(data)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	seek := 1.0
	if duration, err := ffprobeDuration(ctx, data); err == nil {
		if s := duration * 0.1; s < seek {
			seek = s
		}
	}

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", fmt.Sprintf("%.2f", seek),
		"-i", tmp,
		"-frames:v", "1",
		"-vf", "scale=320:-1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg thumbnail failed: %v: %s", err, stderr.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no thumbnail frame")
	}
	return out.Bytes(), nil
}

// ffprobeDuration reads the container-reported playback time in seconds.
func ffprobeDuration(ctx context.Context, data []byte) (float64, error) {
	tmp, err := writeTempFile(data)
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp)

	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		tmp,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration: %w", err)
	}
	return duration, nil
}

func writeTempFile(data []byte) (string, error) {
	f, err := os.CreateTemp("", "adboard-media-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}

func fileExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	}
	return ""
}
