package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/clinicops/clinic-backoffice/internal/cache"
	domain "github.com/clinicops/clinic-backoffice/internal/domain/schedule"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/timezone"
)

type GetAvailableSlotsInput struct {
	UserID            uint
	Date              string // "2006-01-02"
	AppointmentTypeID uint
	Timezone          string // optional IANA zone, falls back to the configured default
}

// GetAvailableSlots computes the bookable slots for one staff member on one
// calendar day. It is a pure read path: two store reads, one lookup, then
// in-memory interval arithmetic. Safe for concurrent use; the result is
// advisory and the booking write path re-validates conflicts in a
// transaction.
type GetAvailableSlots struct {
	hours     domain.WorkingHoursSource
	booked    domain.BookedAppointmentsSource
	durations domain.AppointmentTypeDurationResolver
	slotCache *cache.SlotCache
	defaultTZ string
}

func NewGetAvailableSlots(
	hours domain.WorkingHoursSource,
	booked domain.BookedAppointmentsSource,
	durations domain.AppointmentTypeDurationResolver,
	slotCache *cache.SlotCache,
	defaultTZ string,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		hours:     hours,
		booked:    booked,
		durations: durations,
		slotCache: slotCache,
		defaultTZ: defaultTZ,
	}
}

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in GetAvailableSlotsInput,
) ([]domain.Slot, error) {

	durationMin, err := uc.durations.GetDurationMinutes(ctx, in.AppointmentTypeID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_type_not_found")
	}
	// The enumeration below advances the cursor by the duration; a
	// non-positive value would never terminate.
	if durationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	duration := time.Duration(durationMin) * time.Minute

	tz := in.Timezone
	if tz == "" {
		tz = uc.defaultTZ
	}
	if !timezone.IsValid(tz) {
		return nil, httperr.ErrBusiness("invalid_timezone")
	}
	loc := timezone.Location(tz, uc.defaultTZ)

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	cacheKey := cache.Key(in.UserID, in.Date, in.AppointmentTypeID, tz)
	if slots, ok := uc.slotCache.Get(ctx, cacheKey); ok {
		return slots, nil
	}

	// Day-of-week is determined by the date as seen in the requested zone,
	// not in UTC.
	rules, err := uc.hours.GetRulesForDay(ctx, in.UserID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []domain.Slot{}, nil
	}

	dayStart := date
	dayEnd := dayStart.AddDate(0, 0, 1)

	booked, err := uc.booked.GetBookedIntervals(ctx, in.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := []domain.Slot{}

	for _, rule := range rules {
		winStart, winEnd, ok := rule.WindowOnDate(date, loc)
		if !ok {
			continue
		}

		for cur := winStart; !cur.Add(duration).After(winEnd); cur = cur.Add(duration) {
			slotEnd := cur.Add(duration)

			conflict := false
			for _, b := range booked {
				if domain.Overlaps(cur, slotEnd, b.Start, b.End()) {
					conflict = true
					break
				}
			}

			if !conflict {
				slots = append(slots, domain.Slot{StartAt: cur, EndAt: slotEnd})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartAt.Before(slots[j].StartAt)
	})

	uc.slotCache.Store(ctx, cacheKey, slots)

	return slots, nil
}
