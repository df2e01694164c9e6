package utils

import (
	"context"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adboard/models"
)

// recordSentryEvents points the global Sentry client at an in-memory sink
// for the duration of a test. BeforeSend returns nil so nothing leaves the
// process.
func recordSentryEvents(t *testing.T) *[]*sentry.Event {
	t.Helper()

	var events []*sentry.Event
	err := sentry.Init(sentry.ClientOptions{
		Dsn: "https://key@sentry.invalid/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sentry.Init(sentry.ClientOptions{}))
	})
	return &events
}

func TestUploadCampaignMediaReportsStorageFailures(t *testing.T) {
	events := recordSentryEvents(t)

	storage := newFakeStorage()
	storage.failUpload = true
	pipeline := newTestPipeline(storage)

	_, err := pipeline.UploadCampaignMedia(context.Background(),
		pngBytes(t, 8, 8), "a.png", "image/png", 1, UploadOptions{})
	require.Error(t, err)

	require.Len(t, *events, 1)
	assert.Contains(t, (*events)[0].Exception[0].Value, "media upload failed")
	assert.Equal(t, "media_pipeline", (*events)[0].Tags["component"])
}

func TestSweepExpiringReportsGenerationFailures(t *testing.T) {
	events := recordSentryEvents(t)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{failChannels: map[string]bool{
		models.NotificationEmail:    true,
		models.NotificationWhatsApp: true,
		models.NotificationSMS:      true,
	}}
	sweeper := newTestSweeper(gen, now)

	got := sweeper.SweepExpiring(context.Background(),
		[]models.Campaign{campaignEnding(1, 1, now.AddDate(0, 0, 2), true)},
		[]models.Lead{{Model: gorm.Model{ID: 1}, LeadName: "Asha", AssignedTo: 7}},
		nil,
		[]models.Admin{{Model: gorm.Model{ID: 7}, Name: "Priya"}})

	assert.Empty(t, got)
	require.Len(t, *events, 3)
	for _, event := range *events {
		assert.Equal(t, "expiry", event.Tags["sweep"])
	}
}
