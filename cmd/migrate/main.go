// Command migrate moves inline base64 campaign media out of the database
// and into object storage, and can roll the pointer fields back.
//
// Usage:
//
//	migrate migrate   upload every inline data URL and stamp storage fields
//	migrate rollback  clear storage fields where the inline original survives
//
// Uploaded blobs are never deleted by rollback; only the database pointers
// are reverted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"adboard/config"
	"adboard/models"
	"adboard/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	logger := log.New(os.Stdout, "MIGRATE: ", log.Ldate|log.Ltime)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <migrate|rollback>")
		os.Exit(2)
	}
	command := os.Args[1]

	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	switch command {
	case "migrate":
		storage, err := utils.NewMinioStorage(config.AppConfig.Storage)
		if err != nil {
			logger.Fatalf("Failed to initialize object storage: %v", err)
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			logger.Fatalf("Failed to prepare storage bucket: %v", err)
		}
		pipeline := utils.NewMediaPipeline(storage, logrus.New())
		if err := migrateInlineMedia(ctx, config.DB, pipeline, logger); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
	case "rollback":
		if err := rollbackInlineMedia(config.DB, logger); err != nil {
			logger.Fatalf("Rollback failed: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; want migrate or rollback\n", command)
		os.Exit(2)
	}
}

// uploadInlineMedia pushes one campaign's inline blob through the pipeline.
// The inline original stays on the record so the run can be rolled back.
func uploadInlineMedia(ctx context.Context, pipeline *utils.MediaPipeline, campaign models.Campaign) (*utils.MediaUploadResult, error) {
	contentType, data, err := utils.ParseDataURL(campaign.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("unreadable inline media: %w", err)
	}

	return pipeline.UploadCampaignMedia(ctx, data, fmt.Sprintf("campaign-%d", campaign.ID), contentType, campaign.ID, utils.UploadOptions{
		CompressImages:    false,
		GenerateThumbnail: utils.IsVideoType(contentType),
	})
}

// storageFieldUpdates maps an upload result onto the campaign columns the
// migration stamps.
func storageFieldUpdates(result *utils.MediaUploadResult) map[string]interface{} {
	return map[string]interface{}{
		"media_storage_path":          result.StoragePath,
		"media_download_url":          result.DownloadURL,
		"media_thumbnail_url":         result.ThumbnailURL,
		"media_meta_name":             result.Metadata.Name,
		"media_meta_size":             result.Metadata.Size,
		"media_meta_content_type":     result.Metadata.ContentType,
		"media_meta_last_modified":    result.Metadata.LastModified,
		"media_meta_dimensions":       result.Metadata.Dimensions,
		"media_meta_duration_seconds": result.Metadata.DurationSeconds,
		"media_meta_original_name":    result.Metadata.OriginalName,
	}
}

// rollbackUpdates returns the column updates that revert a migrated
// campaign, or nil when the inline original is gone and reverting would
// orphan the media. The stored blob is left in place either way.
func rollbackUpdates(campaign models.Campaign) map[string]interface{} {
	if !utils.IsDataURL(campaign.MediaURL) {
		return nil
	}
	return map[string]interface{}{
		"media_storage_path":          "",
		"media_download_url":          "",
		"media_thumbnail_url":         "",
		"media_meta_name":             "",
		"media_meta_size":             0,
		"media_meta_content_type":     "",
		"media_meta_last_modified":    nil,
		"media_meta_dimensions":       "",
		"media_meta_duration_seconds": 0,
		"media_meta_original_name":    "",
	}
}

// migrateInlineMedia uploads every campaign whose media_url still holds an
// inline data URL. Failures are counted and reported; one bad record does
// not stop the rest.
func migrateInlineMedia(ctx context.Context, db *gorm.DB, pipeline *utils.MediaPipeline, logger *log.Logger) error {
	var campaigns []models.Campaign
	if err := db.Where("media_url LIKE ?", "data:%").Find(&campaigns).Error; err != nil {
		return fmt.Errorf("failed to scan campaigns: %w", err)
	}

	logger.Printf("Found %d campaigns with inline media", len(campaigns))

	var migrated, skipped, failed int
	for _, campaign := range campaigns {
		if campaign.MediaStoragePath != "" {
			skipped++
			continue
		}

		result, err := uploadInlineMedia(ctx, pipeline, campaign)
		if err != nil {
			logger.Printf("Campaign %d: %v", campaign.ID, err)
			failed++
			continue
		}

		if err := db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Updates(storageFieldUpdates(result)).Error; err != nil {
			logger.Printf("Campaign %d: failed to record storage fields: %v", campaign.ID, err)
			failed++
			continue
		}

		detail := utils.FormatFileSize(result.Metadata.Size)
		if result.Metadata.DurationSeconds > 0 {
			detail += ", " + utils.FormatMediaDuration(result.Metadata.DurationSeconds)
		}
		logger.Printf("Campaign %d: migrated %s (%s)", campaign.ID, result.StoragePath, detail)
		migrated++
	}

	logger.Printf("Migration summary: %d migrated, %d skipped, %d failed", migrated, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d campaigns failed to migrate", failed)
	}
	return nil
}

// rollbackInlineMedia clears the storage pointer fields on campaigns that
// still hold their inline original.
func rollbackInlineMedia(db *gorm.DB, logger *log.Logger) error {
	var campaigns []models.Campaign
	if err := db.Where("media_storage_path <> ''").Find(&campaigns).Error; err != nil {
		return fmt.Errorf("failed to scan campaigns: %w", err)
	}

	logger.Printf("Found %d campaigns with storage-backed media", len(campaigns))

	var reverted, kept int
	for _, campaign := range campaigns {
		updates := rollbackUpdates(campaign)
		if updates == nil {
			logger.Printf("Campaign %d: no inline original retained, leaving storage fields in place", campaign.ID)
			kept++
			continue
		}

		if err := db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("campaign %d: failed to clear storage fields: %w", campaign.ID, err)
		}
		reverted++
	}

	logger.Printf("Rollback summary: %d reverted, %d kept (no inline original)", reverted, kept)
	return nil
}
