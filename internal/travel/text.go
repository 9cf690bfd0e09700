package travel

import (
	"fmt"
	"math"
)

// durationText renders seconds the way Google Maps does: "1 min", "23 mins",
// "1 hour 5 mins".
func durationText(seconds int) string {
	mins := int(math.Round(float64(seconds) / 60))
	if mins < 1 {
		mins = 1
	}
	h, m := mins/60, mins%60

	unit := func(n int, s string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", s)
		}
		return fmt.Sprintf("%d %ss", n, s)
	}

	switch {
	case h == 0:
		return unit(m, "min")
	case m == 0:
		return unit(h, "hour")
	default:
		return unit(h, "hour") + " " + unit(m, "min")
	}
}

// distanceText renders metres as "850 m" or "12.3 km".
func distanceText(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
