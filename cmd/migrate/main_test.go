package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adboard/models"
	"adboard/utils"
)

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string, _ map[string]string) (string, error) {
	s.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (s *fakeStorage) Stat(_ context.Context, path string) (*utils.StorageObjectInfo, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("no such object %s", path)
	}
	return &utils.StorageObjectInfo{
		Size:         int64(len(data)),
		ContentType:  "image/png",
		LastModified: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (s *fakeStorage) Remove(_ context.Context, path string) error {
	delete(s.objects, path)
	return nil
}

func newTestPipeline(storage utils.ObjectStorage) *utils.MediaPipeline {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return utils.NewMediaPipeline(storage, logger)
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func inlineCampaign(id uint, mediaURL string) models.Campaign {
	return models.Campaign{
		Model:    gorm.Model{ID: id},
		MediaURL: mediaURL,
	}
}

func TestUploadInlineMedia(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)

	t.Run("uploads decoded blob and maps storage fields", func(t *testing.T) {
		campaign := inlineCampaign(7, pngDataURL(t))
		result, err := uploadInlineMedia(context.Background(), pipeline, campaign)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.StoragePath, "campaign-media/7/"))

		updates := storageFieldUpdates(result)
		assert.Equal(t, result.StoragePath, updates["media_storage_path"])
		assert.Equal(t, result.DownloadURL, updates["media_download_url"])
		assert.Equal(t, result.Metadata.Size, updates["media_meta_size"])
	})

	t.Run("unreadable inline media fails the record", func(t *testing.T) {
		campaign := inlineCampaign(8, "data:image/png;base64,@@@@")
		_, err := uploadInlineMedia(context.Background(), pipeline, campaign)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreadable inline media")
	})
}

func TestRollbackUpdates(t *testing.T) {
	t.Run("reverts when the inline original survives", func(t *testing.T) {
		campaign := inlineCampaign(1, "data:image/png;base64,AAAA")
		campaign.MediaStoragePath = "campaign-media/1/123.png"

		updates := rollbackUpdates(campaign)
		require.NotNil(t, updates)
		assert.Equal(t, "", updates["media_storage_path"])
		assert.Equal(t, "", updates["media_download_url"])
	})

	t.Run("refuses when the inline original is gone", func(t *testing.T) {
		campaign := inlineCampaign(2, "https://cdn.test/campaign-media/2/123.png")
		campaign.MediaStoragePath = "campaign-media/2/123.png"
		assert.Nil(t, rollbackUpdates(campaign))
	})
}

// Exercises the migrate-then-rollback decision chain over a mixed batch the
// way the command loops classify records: a clean inline record migrates
// and later reverts, an already-migrated record is skipped, a corrupt one
// fails, and a record that lost its inline original is kept on rollback.
func TestMigrateRollbackRoundTrip(t *testing.T) {
	storage := newFakeStorage()
	pipeline := newTestPipeline(storage)
	ctx := context.Background()

	alreadyMigrated := inlineCampaign(2, pngDataURL(t))
	alreadyMigrated.MediaStoragePath = "campaign-media/2/111.png"

	campaigns := []models.Campaign{
		inlineCampaign(1, pngDataURL(t)),
		alreadyMigrated,
		inlineCampaign(3, "data:image/png;base64,@@@@"),
	}

	var migrated, skipped, failed int
	for i, campaign := range campaigns {
		if campaign.MediaStoragePath != "" {
			skipped++
			continue
		}
		result, err := uploadInlineMedia(ctx, pipeline, campaign)
		if err != nil {
			failed++
			continue
		}
		campaigns[i].MediaStoragePath = result.StoragePath
		migrated++
	}

	assert.Equal(t, 1, migrated)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	// Simulate the inline original being cleaned off campaign 2 before the
	// rollback runs
	campaigns[1].MediaURL = "https://cdn.test/campaign-media/2/111.png"

	var reverted, kept int
	for _, campaign := range campaigns {
		if campaign.MediaStoragePath == "" {
			continue
		}
		if rollbackUpdates(campaign) == nil {
			kept++
			continue
		}
		reverted++
	}

	assert.Equal(t, 1, reverted)
	assert.Equal(t, 1, kept)

	// The rollback decision never touches stored blobs
	assert.Len(t, storage.objects, 1)
}
