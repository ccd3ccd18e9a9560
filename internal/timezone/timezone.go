package timezone

import "time"

// Zone handling is explicit everywhere: callers pass the requested zone and
// the configured fallback, there is no process-wide default.

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz, fallback string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(fallback); err == nil {
		return loc
	}

	return time.UTC
}
