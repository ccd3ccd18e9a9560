package handlers

import (
	"time"

	"github.com/clinicops/clinic-backoffice/internal/timezone"
)

func parseDateIn(dateStr, tz, fallback string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tz, fallback),
	)
}
