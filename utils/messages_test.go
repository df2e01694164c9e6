package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateGeneratorExpiryMessage(t *testing.T) {
	gen := &TemplateGenerator{}
	input := ExpiryMessageInput{
		Channel:     "Email",
		ContractID:  42,
		ClientName:  "Asha",
		CompanyName: "Asha Foods",
		ScreenNames: []string{"Cafe Uno", "Gym Central"},
		EndDate:     "15/09/2026",
		Amount:      4500,
	}

	t.Run("email carries subject and details", func(t *testing.T) {
		msg, err := gen.ExpiryMessage(context.Background(), input)
		require.NoError(t, err)
		assert.Contains(t, msg, "Subject:")
		assert.Contains(t, msg, "Asha (Asha Foods)")
		assert.Contains(t, msg, "Cafe Uno, Gym Central")
		assert.Contains(t, msg, "15/09/2026")
		assert.Contains(t, msg, "4500.00")
	})

	t.Run("whatsapp is conversational", func(t *testing.T) {
		in := input
		in.Channel = "WhatsApp"
		msg, err := gen.ExpiryMessage(context.Background(), in)
		require.NoError(t, err)
		assert.Contains(t, msg, "Hi Asha!")
		assert.NotContains(t, msg, "Subject:")
	})

	t.Run("sms stays short", func(t *testing.T) {
		in := input
		in.Channel = "SMS"
		msg, err := gen.ExpiryMessage(context.Background(), in)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(msg), 160)
	})

	t.Run("unknown channel fails", func(t *testing.T) {
		in := input
		in.Channel = "Pigeon"
		_, err := gen.ExpiryMessage(context.Background(), in)
		assert.Error(t, err)
	})
}

func TestTemplateGeneratorFollowUpMessage(t *testing.T) {
	gen := &TemplateGenerator{}
	msg, err := gen.FollowUpMessage(context.Background(), FollowUpMessageInput{
		LeadName:  "Ravi",
		AdminName: "Priya",
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "Priya")
	assert.Contains(t, msg, "Ravi")
}
