package utils

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"adboard/config"
)

// ExpiryMessageInput carries everything the renewal reminder text needs.
type ExpiryMessageInput struct {
	Channel     string // Email, WhatsApp, SMS
	ContractID  uint
	ClientName  string
	CompanyName string
	ScreenNames []string
	EndDate     string // display-formatted
	Amount      float64
}

// FollowUpMessageInput carries the names for a lead follow-up reminder.
type FollowUpMessageInput struct {
	LeadName  string
	AdminName string
}

// MessageGenerator produces notification text. Implementations are
// best-effort collaborators; callers must only rely on a non-empty string.
type MessageGenerator interface {
	ExpiryMessage(ctx context.Context, in ExpiryMessageInput) (string, error)
	FollowUpMessage(ctx context.Context, in FollowUpMessageInput) (string, error)
}

// NewMessageGenerator returns a Gemini-backed generator when an API key is
// configured and the deterministic template generator otherwise.
func NewMessageGenerator(cfg config.Config) (MessageGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return &TemplateGenerator{}, nil
	}
	return NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
}

// TemplateGenerator renders fixed message templates per channel.
type TemplateGenerator struct{}

func (g *TemplateGenerator) ExpiryMessage(_ context.Context, in ExpiryMessageInput) (string, error) {
	client := in.ClientName
	if in.CompanyName != "" {
		client = fmt.Sprintf("%s (%s)", in.ClientName, in.CompanyName)
	}
	screens := strings.Join(in.ScreenNames, ", ")

	switch in.Channel {
	case "Email":
		return fmt.Sprintf(
			"Subject: Contract #%d renewal due %s\n\nDear %s,\n\nYour advertising contract covering %s expires on %s. The renewal amount is %.2f. Please arrange payment to keep your campaign running.\n\nBest regards,\nAdBoard Team",
			in.ContractID, in.EndDate, client, screens, in.EndDate, in.Amount), nil
	case "WhatsApp":
		return fmt.Sprintf(
			"Hi %s! Your ad contract #%d for %s wraps up on %s. Renew for %.2f to stay on screen - let us know!",
			in.ClientName, in.ContractID, screens, in.EndDate, in.Amount), nil
	case "SMS":
		return fmt.Sprintf(
			"AdBoard: contract #%d expires %s. Renewal %.2f. Reply to renew.",
			in.ContractID, in.EndDate, in.Amount), nil
	}
	return "", fmt.Errorf("unsupported notification channel %q", in.Channel)
}

func (g *TemplateGenerator) FollowUpMessage(_ context.Context, in FollowUpMessageInput) (string, error) {
	return fmt.Sprintf(
		"Hi %s, a reminder to follow up with %s today. Check their latest notes before reaching out.",
		in.AdminName, in.LeadName), nil
}

// GeminiGenerator asks the Gemini API for channel-appropriate message text.
type GeminiGenerator struct {
	client *genai.Client
	model  string

	// Fallback when the model returns an empty candidate
	templates TemplateGenerator
}

func NewGeminiGenerator(apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) ExpiryMessage(ctx context.Context, in ExpiryMessageInput) (string, error) {
	var guidelines string
	switch in.Channel {
	case "Email":
		guidelines = "a standard professional email with a clear subject line and body"
	case "WhatsApp":
		guidelines = "a friendly, conversational message suitable for a messaging app"
	case "SMS":
		guidelines = "a very short message, under 160 characters"
	default:
		return "", fmt.Errorf("unsupported notification channel %q", in.Channel)
	}

	company := ""
	if in.CompanyName != "" {
		company = fmt.Sprintf(" (%s)", in.CompanyName)
	}

	prompt := fmt.Sprintf(
		`You generate contract renewal reminders for an advertising operations team.
Write %s reminding the client to renew their contract and arrange payment.

Contract details:
- Client: %s%s
- Screens: %s
- Expiry date: %s
- Renewal amount: %.2f

Return only the message text.`,
		guidelines, in.ClientName, company,
		strings.Join(in.ScreenNames, ", "), in.EndDate, in.Amount)

	return g.generate(ctx, prompt, func() (string, error) {
		return g.templates.ExpiryMessage(ctx, in)
	})
}

func (g *GeminiGenerator) FollowUpMessage(ctx context.Context, in FollowUpMessageInput) (string, error) {
	prompt := fmt.Sprintf(
		`You generate lead follow-up reminders for an advertising sales team.
Write a friendly WhatsApp message for %s reminding them to follow up with the lead %s today.
Return only the message text.`,
		in.AdminName, in.LeadName)

	return g.generate(ctx, prompt, func() (string, error) {
		return g.templates.FollowUpMessage(ctx, in)
	})
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string, fallback func() (string, error)) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("message generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return fallback()
	}
	return text, nil
}
