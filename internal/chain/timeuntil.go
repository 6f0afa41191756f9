package chain

import (
	"fmt"
	"time"
)

// TimeUntil renders the interval from now to target as a coarse
// "N days N hours N minutes" string, with an "ago" suffix for past targets.
func TimeUntil(target, now time.Time) string {
	delta := target.Sub(now)
	past := delta < 0
	if past {
		delta = -delta
	}

	days := int(delta.Hours()) / 24
	hours := int(delta.Hours()) % 24
	minutes := int(delta.Minutes()) % 60

	s := fmt.Sprintf("%d %s %d %s %d %s",
		days, plural(days, "day"),
		hours, plural(hours, "hour"),
		minutes, plural(minutes, "minute"))
	if past {
		return s + " ago"
	}
	return s
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
