package controller

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MediaController struct {
	DB       *gorm.DB
	Pipeline *utils.MediaPipeline
	Storage  utils.ObjectStorage
	Hub      *ProgressHub
	Logger   *logrus.Logger
}

func NewMediaController(db *gorm.DB, pipeline *utils.MediaPipeline, storage utils.ObjectStorage, hub *ProgressHub, logger *logrus.Logger) *MediaController {
	return &MediaController{
		DB:       db,
		Pipeline: pipeline,
		Storage:  storage,
		Hub:      hub,
		Logger:   logger,
	}
}

// UploadCampaignMedia accepts a multipart "file" field, runs it through
// the processing pipeline and attaches the stored object to the campaign.
// Progress is broadcast to websocket subscribers of the campaign.
func (mc *MediaController) UploadCampaignMedia(c *fiber.Ctx) error {
	var campaign models.Campaign
	if err := mc.DB.First(&campaign, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing file field", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}

	contentType := fileHeader.Header.Get("Content-Type")

	opts := utils.UploadOptions{
		RequireImage:      campaign.MediaType == models.MediaTypeImage,
		RequireVideo:      campaign.MediaType == models.MediaTypeVideo,
		CompressImages:    true,
		GenerateThumbnail: true,
		OnProgress: func(percent int) {
			mc.Hub.Publish(ProgressEvent{
				CampaignID: campaign.ID,
				Percent:    percent,
			})
		},
	}

	result, err := mc.Pipeline.UploadCampaignMedia(c.Context(), data, fileHeader.Filename, contentType, campaign.ID, opts)
	if err != nil {
		if validation, ok := err.(*utils.MediaValidationResult); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Media validation failed",
				"errors":  validation.Errors,
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Media upload failed", err)
	}

	// Replacing media leaves no reference to the old object; remove it
	// best-effort so the bucket does not accumulate orphans.
	if previous := campaign.MediaStoragePath; previous != "" && previous != result.StoragePath {
		if err := mc.Storage.Remove(c.Context(), previous); err != nil {
			mc.Logger.WithError(err).WithField("path", previous).Warn("Failed to remove replaced media object")
		}
		if thumb := thumbnailPathFor(previous); thumb != "" {
			if err := mc.Storage.Remove(c.Context(), thumb); err != nil {
				mc.Logger.WithError(err).WithField("path", thumb).Warn("Failed to remove replaced media thumbnail")
			}
		}
	}

	campaign.MediaStoragePath = result.StoragePath
	campaign.MediaDownloadURL = result.DownloadURL
	campaign.MediaThumbnailURL = result.ThumbnailURL
	campaign.MediaMeta = result.Metadata

	if err := mc.DB.Save(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to attach media to campaign", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Media uploaded successfully.",
		"data":    result,
	})
}

// DeleteCampaignMedia removes the stored object and thumbnail and clears
// the campaign's media fields.
func (mc *MediaController) DeleteCampaignMedia(c *fiber.Ctx) error {
	var campaign models.Campaign
	if err := mc.DB.First(&campaign, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}

	if campaign.MediaStoragePath == "" {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign has no stored media", nil)
	}

	if err := mc.Storage.Remove(c.Context(), campaign.MediaStoragePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove media object", err)
	}
	if thumb := thumbnailPathFor(campaign.MediaStoragePath); thumb != "" {
		if err := mc.Storage.Remove(c.Context(), thumb); err != nil {
			mc.Logger.WithError(err).WithField("path", thumb).Warn("Failed to remove media thumbnail")
		}
	}

	updates := map[string]interface{}{
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
	if err := mc.DB.Model(&campaign).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to clear media fields", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Media deleted successfully.",
	})
}

// thumbnailPathFor maps campaign-media/<id>/<ts><ext> to its sibling
// campaign-media/<id>/thumbnails/<ts>.jpg. Video uploads are the only
// ones with thumbnails, but removal is idempotent for the rest.
func thumbnailPathFor(storagePath string) string {
	dir := filepath.Dir(storagePath)
	base := filepath.Base(storagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return ""
	}
	return fmt.Sprintf("%s/thumbnails/%s.jpg", dir, stem)
}
