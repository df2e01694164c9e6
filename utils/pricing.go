package utils

// Rack rates in currency-agnostic units. Two screens booked together get a
// flat combined rate; each screen past the second is billed at the single
// screen rate. Three-month bookings use discounted per-month rates.
const (
	OneScreenOneMonth             = 2500
	TwoScreensOneMonth            = 4500
	OneScreenThreeMonthsPerMonth  = 1500
	TwoScreensThreeMonthsPerMonth = 1250
)

// EstimateCampaignPrice computes the estimated price for a campaign booking
// screenCount screens with the given slot count for durationMonths (1 or 3).
// It is deterministic and side-effect-free; callers are responsible for
// passing sane inputs. Unsupported durations price at 0.
func EstimateCampaignPrice(screenCount, slots, durationMonths int) int {
	if screenCount == 0 {
		return 0
	}

	extra := screenCount - 2
	if extra < 0 {
		extra = 0
	}

	switch durationMonths {
	case 1:
		if screenCount == 1 {
			return OneScreenOneMonth * slots
		}
		return TwoScreensOneMonth*slots + extra*OneScreenOneMonth*slots
	case 3:
		if screenCount == 1 {
			return OneScreenThreeMonthsPerMonth * slots * 3
		}
		return (TwoScreensThreeMonthsPerMonth*slots + extra*OneScreenThreeMonthsPerMonth*slots) * 3
	}
	return 0
}
