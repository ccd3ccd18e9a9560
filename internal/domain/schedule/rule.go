package schedule

import (
	"sort"
	"time"

	"github.com/clinicops/clinic-backoffice/internal/httperr"
)

// Rule is one recurring weekly working interval for a staff member.
// StartTime and EndTime are zero-padded "HH:MM" local time-of-day.
type Rule struct {
	UserID    uint         `json:"user_id"`
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
}

// MinuteOfDay parses an "HH:MM" time-of-day into minutes since midnight.
func MinuteOfDay(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateRuleSet checks a full replacement set of rules:
//   - every time-of-day must be well-formed "HH:MM"
//   - start must be strictly before end (no overnight intervals)
//   - intervals on the same weekday must not overlap (half-open)
//
// The set is rejected as a whole: replacement is all-or-nothing.
func ValidateRuleSet(rules []Rule) error {
	type span struct{ start, end int }
	byDay := make(map[time.Weekday][]span)

	for _, r := range rules {
		start, err := MinuteOfDay(r.StartTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_format")
		}
		end, err := MinuteOfDay(r.EndTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_format")
		}
		if start >= end {
			return httperr.ErrBusiness("invalid_time_range")
		}
		byDay[r.Weekday] = append(byDay[r.Weekday], span{start, end})
	}

	for _, spans := range byDay {
		sort.Slice(spans, func(i, j int) bool {
			return spans[i].start < spans[j].start
		})
		for i := 0; i < len(spans)-1; i++ {
			if spans[i].end > spans[i+1].start {
				return httperr.ErrBusiness("overlapping_working_hours")
			}
		}
	}

	return nil
}

// WindowOnDate builds the absolute start and end instants of the rule's
// working window on the given calendar day, interpreting the stored
// time-of-day as wall-clock time in loc. Constructing boundaries from
// wall-clock values keeps configured hours stable across DST transitions.
func (r Rule) WindowOnDate(date time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	start, err := MinuteOfDay(r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := MinuteOfDay(r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	winStart := time.Date(
		date.Year(), date.Month(), date.Day(),
		start/60, start%60, 0, 0,
		loc,
	)
	winEnd := time.Date(
		date.Year(), date.Month(), date.Day(),
		end/60, end%60, 0, 0,
		loc,
	)

	if !winStart.Before(winEnd) {
		return time.Time{}, time.Time{}, false
	}

	return winStart, winEnd, true
}
