package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adboard/models"
)

// fakeGenerator echoes its inputs and can be told to fail per channel.
type fakeGenerator struct {
	failChannels map[string]bool
	calls        []string
}

func (f *fakeGenerator) ExpiryMessage(_ context.Context, in ExpiryMessageInput) (string, error) {
	f.calls = append(f.calls, in.Channel)
	if f.failChannels[in.Channel] {
		return "", fmt.Errorf("generation unavailable for %s", in.Channel)
	}
	return fmt.Sprintf("%s reminder for contract %d (%v) ending %s",
		in.Channel, in.ContractID, in.ScreenNames, in.EndDate), nil
}

func (f *fakeGenerator) FollowUpMessage(_ context.Context, in FollowUpMessageInput) (string, error) {
	if f.failChannels["FollowUp"] {
		return "", fmt.Errorf("generation unavailable")
	}
	return fmt.Sprintf("follow up with %s, %s", in.LeadName, in.AdminName), nil
}

func newTestSweeper(gen MessageGenerator, now time.Time) *ExpirySweeper {
	s := NewExpirySweeper(gen, log.New(io.Discard, "", 0))
	s.Now = func() time.Time { return now }
	return s
}

func campaignEnding(id uint, leadID uint, end time.Time, reminder bool) models.Campaign {
	return models.Campaign{
		Model:           gorm.Model{ID: id},
		CampaignName:    fmt.Sprintf("campaign-%d", id),
		LeadID:          leadID,
		EndDate:         end,
		RenewalReminder: reminder,
		Amount:          4500,
	}
}

func TestSweepExpiringWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	lead := models.Lead{Model: gorm.Model{ID: 1}, LeadName: "Asha", AssignedTo: 7}
	admin := models.Admin{Model: gorm.Model{ID: 7}, Name: "Priya"}

	tests := []struct {
		name     string
		end      time.Time
		reminder bool
		want     int
	}{
		{"three days out is inside window", now.AddDate(0, 0, 3), true, 3},
		{"exactly seven days out is inside window", now.Add(7 * 24 * time.Hour), true, 3},
		{"eight days out is outside window", now.AddDate(0, 0, 8), true, 0},
		{"later today does not count as a whole day", now.Add(6 * time.Hour), true, 0},
		{"already expired is skipped", now.AddDate(0, 0, -1), true, 0},
		{"reminder opt-out is skipped", now.AddDate(0, 0, 3), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := newTestSweeper(&fakeGenerator{}, now)
			got := sweeper.SweepExpiring(context.Background(),
				[]models.Campaign{campaignEnding(1, 1, tt.end, tt.reminder)},
				[]models.Lead{lead}, nil, []models.Admin{admin})
			assert.Len(t, got, tt.want)
		})
	}
}

func TestSweepExpiringNotificationContent(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	lead := models.Lead{Model: gorm.Model{ID: 1}, LeadName: "Asha", AssignedTo: 7}
	admin := models.Admin{Model: gorm.Model{ID: 7}, Name: "Priya"}
	screen := models.Screen{Model: gorm.Model{ID: 11}, VenueName: "Cafe Uno"}

	campaign := campaignEnding(5, 1, now.AddDate(0, 0, 5), true)
	campaign.Screens = []models.Screen{{Model: gorm.Model{ID: 11}}, {Model: gorm.Model{ID: 99}}}

	sweeper := newTestSweeper(&fakeGenerator{}, now)
	got := sweeper.SweepExpiring(context.Background(),
		[]models.Campaign{campaign},
		[]models.Lead{lead}, []models.Screen{screen}, []models.Admin{admin})

	require.Len(t, got, 3)
	channels := []string{got[0].Type, got[1].Type, got[2].Type}
	assert.ElementsMatch(t, channels,
		[]string{models.NotificationEmail, models.NotificationWhatsApp, models.NotificationSMS})

	for _, n := range got {
		assert.Equal(t, models.StatusPending, n.Status)
		assert.Equal(t, admin.ID, n.Recipient)
		assert.Equal(t, now, n.SentAt)
		// Screen 99 no longer resolves, so the placeholder name goes out
		assert.Contains(t, n.Message, "Cafe Uno")
		assert.Contains(t, n.Message, "Unknown Screen")
		assert.Contains(t, n.Message, "05/09/2026")
	}
}

func TestSweepExpiringChannelFailureIsolation(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	lead := models.Lead{Model: gorm.Model{ID: 1}, LeadName: "Asha", AssignedTo: 7}
	admin := models.Admin{Model: gorm.Model{ID: 7}, Name: "Priya"}

	gen := &fakeGenerator{failChannels: map[string]bool{models.NotificationWhatsApp: true}}
	sweeper := newTestSweeper(gen, now)

	got := sweeper.SweepExpiring(context.Background(),
		[]models.Campaign{
			campaignEnding(1, 1, now.AddDate(0, 0, 2), true),
			campaignEnding(2, 1, now.AddDate(0, 0, 4), true),
		},
		[]models.Lead{lead}, nil, []models.Admin{admin})

	// WhatsApp generation failed for both campaigns; the other channels
	// still went out and every channel was attempted
	require.Len(t, got, 4)
	for _, n := range got {
		assert.NotEqual(t, models.NotificationWhatsApp, n.Type)
	}
	assert.Len(t, gen.calls, 6)
}

func TestSweepExpiringSkipsUnresolvedReferences(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	t.Run("missing lead", func(t *testing.T) {
		sweeper := newTestSweeper(&fakeGenerator{}, now)
		got := sweeper.SweepExpiring(context.Background(),
			[]models.Campaign{campaignEnding(1, 404, now.AddDate(0, 0, 2), true)},
			nil, nil, []models.Admin{{Model: gorm.Model{ID: 7}}})
		assert.Empty(t, got)
	})

	t.Run("missing admin", func(t *testing.T) {
		sweeper := newTestSweeper(&fakeGenerator{}, now)
		got := sweeper.SweepExpiring(context.Background(),
			[]models.Campaign{campaignEnding(1, 1, now.AddDate(0, 0, 2), true)},
			[]models.Lead{{Model: gorm.Model{ID: 1}, AssignedTo: 404}},
			nil, nil)
		assert.Empty(t, got)
	})
}

func TestSweepFollowUps(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	admin := models.Admin{Model: gorm.Model{ID: 7}, Name: "Priya"}

	today := now.Add(8 * time.Hour) // same calendar day, different hour
	tomorrow := now.AddDate(0, 0, 1)

	leads := []models.Lead{
		{Model: gorm.Model{ID: 1}, LeadName: "Due", AssignedTo: 7, FollowUpDate: &today},
		{Model: gorm.Model{ID: 2}, LeadName: "NotYet", AssignedTo: 7, FollowUpDate: &tomorrow},
		{Model: gorm.Model{ID: 3}, LeadName: "NoDate", AssignedTo: 7},
		{Model: gorm.Model{ID: 4}, LeadName: "Orphan", AssignedTo: 404, FollowUpDate: &today},
	}

	sweeper := newTestSweeper(&fakeGenerator{}, now)
	got := sweeper.SweepFollowUps(context.Background(), leads, []models.Admin{admin})

	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationFollowUp, got[0].Type)
	assert.Equal(t, admin.ID, got[0].Recipient)
	require.NotNil(t, got[0].RelatedLeadID)
	assert.Equal(t, uint(1), *got[0].RelatedLeadID)
	assert.Contains(t, got[0].Message, "Due")
}
