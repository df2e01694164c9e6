package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCampaignPrice(t *testing.T) {
	tests := []struct {
		name     string
		screens  int
		slots    int
		duration int
		want     int
	}{
		{"one screen one month", 1, 1, 1, 2500},
		{"two screens one month", 2, 1, 1, 4500},
		{"three screens one month", 3, 1, 1, 7000},
		{"five screens one month", 5, 1, 1, 4500 + 3*2500},
		{"one screen three months", 1, 1, 3, 4500},
		{"two screens three months", 2, 1, 3, 1250 * 3},
		{"three screens three months", 3, 1, 3, (1250 + 1500) * 3},
		{"one screen two slots three months", 1, 2, 3, 9000},
		{"two screens two slots one month", 2, 2, 1, 9000},
		{"no screens prices at zero", 0, 5, 1, 0},
		{"unsupported duration prices at zero", 2, 1, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCampaignPrice(tt.screens, tt.slots, tt.duration))
		})
	}
}

func TestEstimateCampaignPriceMonotonicInScreens(t *testing.T) {
	for _, duration := range []int{1, 3} {
		previous := 0
		for screens := 1; screens <= 10; screens++ {
			price := EstimateCampaignPrice(screens, 1, duration)
			assert.Greater(t, price, previous,
				"price should rise with screen count (screens=%d duration=%d)", screens, duration)
			previous = price
		}
	}
}

func TestEstimateCampaignPriceScalesWithSlots(t *testing.T) {
	base := EstimateCampaignPrice(3, 1, 1)
	assert.Equal(t, base*4, EstimateCampaignPrice(3, 4, 1))
}
