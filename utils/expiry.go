package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"adboard/models"
)

// Placeholder for screens that no longer resolve by ID
const unknownScreenName = "Unknown Screen"

// Expiry notices go out over these channels, one notification per channel.
var expiryChannels = []string{
	models.NotificationEmail,
	models.NotificationWhatsApp,
	models.NotificationSMS,
}

// ExpirySweeper scans read-only snapshots of the collections and produces
// notification records for contracts nearing renewal and leads due a
// follow-up. Failures generating one message are logged and skipped; they
// never abort the rest of the sweep.
type ExpirySweeper struct {
	Messages MessageGenerator
	Logger   *log.Logger
	Now      func() time.Time
}

func NewExpirySweeper(messages MessageGenerator, logger *log.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		Messages: messages,
		Logger:   logger,
		Now:      time.Now,
	}
}

// SweepExpiring selects campaigns that want a renewal reminder and expire
// within the next seven days (strictly more than zero whole days remaining)
// and returns one Pending notification per (campaign, channel) pair whose
// message generation succeeded. Campaigns whose lead or admin cannot be
// resolved are skipped silently.
func (s *ExpirySweeper) SweepExpiring(
	ctx context.Context,
	campaigns []models.Campaign,
	leads []models.Lead,
	screens []models.Screen,
	admins []models.Admin,
) []models.Notification {
	now := s.Now()

	leadByID := make(map[uint]models.Lead, len(leads))
	for _, l := range leads {
		leadByID[l.ID] = l
	}
	adminByID := make(map[uint]models.Admin, len(admins))
	for _, a := range admins {
		adminByID[a.ID] = a
	}
	screenByID := make(map[uint]models.Screen, len(screens))
	for _, sc := range screens {
		screenByID[sc.ID] = sc
	}

	var generated []models.Notification

	for _, campaign := range campaigns {
		if !campaign.RenewalReminder {
			continue
		}
		remaining := wholeDaysBetween(now, campaign.EndDate)
		if remaining <= 0 || remaining > 7 {
			continue
		}

		lead, ok := leadByID[campaign.LeadID]
		if !ok || lead.AssignedTo == 0 {
			continue
		}
		admin, ok := adminByID[lead.AssignedTo]
		if !ok {
			continue
		}

		screenNames := make([]string, 0, len(campaign.Screens))
		for _, sc := range campaign.Screens {
			if resolved, ok := screenByID[sc.ID]; ok {
				screenNames = append(screenNames, resolved.VenueName)
			} else {
				screenNames = append(screenNames, unknownScreenName)
			}
		}

		for _, channel := range expiryChannels {
			message, err := s.Messages.ExpiryMessage(ctx, ExpiryMessageInput{
				Channel:     channel,
				ContractID:  campaign.ID,
				ClientName:  lead.LeadName,
				CompanyName: lead.CompanyName,
				ScreenNames: screenNames,
				EndDate:     campaign.EndDate.Format("02/01/2006"),
				Amount:      campaign.Amount,
			})
			if err != nil {
				s.Logger.Printf("Failed to generate %s notification for campaign %d: %v", channel, campaign.ID, err)
				s.captureGenerationError(err, "expiry", fmt.Sprintf("%s generation failed for campaign %d", channel, campaign.ID))
				continue
			}

			generated = append(generated, models.Notification{
				Type:      channel,
				Message:   message,
				Recipient: admin.ID,
				Status:    models.StatusPending,
				SentAt:    now,
			})
		}
	}

	return generated
}

// SweepFollowUps returns one FollowUp notification for every lead whose
// follow-up date falls on the current day and whose assigned admin resolves.
func (s *ExpirySweeper) SweepFollowUps(
	ctx context.Context,
	leads []models.Lead,
	admins []models.Admin,
) []models.Notification {
	now := s.Now()

	adminByID := make(map[uint]models.Admin, len(admins))
	for _, a := range admins {
		adminByID[a.ID] = a
	}

	var generated []models.Notification

	for _, lead := range leads {
		if lead.FollowUpDate == nil || !sameDay(*lead.FollowUpDate, now) {
			continue
		}
		if lead.AssignedTo == 0 {
			continue
		}
		admin, ok := adminByID[lead.AssignedTo]
		if !ok {
			continue
		}

		message, err := s.Messages.FollowUpMessage(ctx, FollowUpMessageInput{
			LeadName:  lead.LeadName,
			AdminName: admin.Name,
		})
		if err != nil {
			s.Logger.Printf("Failed to generate follow-up notification for lead %d: %v", lead.ID, err)
			s.captureGenerationError(err, "follow_up", fmt.Sprintf("follow-up generation failed for lead %d", lead.ID))
			continue
		}

		leadID := lead.ID
		generated = append(generated, models.Notification{
			Type:          models.NotificationFollowUp,
			Message:       message,
			Recipient:     admin.ID,
			Status:        models.StatusPending,
			SentAt:        now,
			RelatedLeadID: &leadID,
		})
	}

	return generated
}

// captureGenerationError reports a skipped generation to Sentry with a
// breadcrumb marking where in the sweep it happened.
func (s *ExpirySweeper) captureGenerationError(err error, sweep, message string) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "error",
		Category:  "notification_sweep",
		Message:   message,
		Timestamp: s.Now(),
	})
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("sweep", sweep)
		sentry.CaptureException(err)
	})
}

// wholeDaysBetween counts full 24-hour periods from now until then,
// truncated toward zero. Same-day expiries therefore count as zero.
func wholeDaysBetween(now, then time.Time) int {
	return int(then.Sub(now).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
