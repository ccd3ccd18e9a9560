package schedule

import (
	"context"
	"testing"
	"time"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/schedule"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
)

// ======================================================
// FAKES
// ======================================================

type fakeHours struct {
	rules map[time.Weekday][]domain.Rule
}

func (f *fakeHours) GetRulesForDay(
	_ context.Context,
	_ uint,
	weekday time.Weekday,
) ([]domain.Rule, error) {
	return f.rules[weekday], nil
}

type fakeBooked struct {
	intervals []domain.BookedInterval
}

func (f *fakeBooked) GetBookedIntervals(
	_ context.Context,
	_ uint,
	_ time.Time,
	_ time.Time,
) ([]domain.BookedInterval, error) {
	return f.intervals, nil
}

type fakeDurations struct {
	byType map[uint]int
}

func (f *fakeDurations) GetDurationMinutes(
	_ context.Context,
	typeID uint,
) (int, error) {
	d, ok := f.byType[typeID]
	if !ok {
		return 0, httperr.ErrBusiness("appointment_type_not_found")
	}
	return d, nil
}

func newEngine(
	rules map[time.Weekday][]domain.Rule,
	booked []domain.BookedInterval,
	durations map[uint]int,
) *GetAvailableSlots {
	return NewGetAvailableSlots(
		&fakeHours{rules: rules},
		&fakeBooked{intervals: booked},
		&fakeDurations{byType: durations},
		nil, // cache disabled
		"Europe/Prague",
	)
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

// 2026-06-01 is a Monday.
const monday = "2026-06-01"

func mondayAt(t *testing.T, hm string) time.Time {
	t.Helper()
	loc := mustLoc(t, "Europe/Prague")
	parsed, err := time.ParseInLocation("2006-01-02 15:04", monday+" "+hm, loc)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

// ======================================================
// ENUMERATION
// ======================================================

func TestGetAvailableSlots_FullDayNoBookings(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for i, want := range []string{"09:00", "10:00", "11:00"} {
		if !slots[i].StartAt.Equal(mondayAt(t, want)) {
			t.Errorf("slot %d starts at %v, want %s", i, slots[i].StartAt, want)
		}
		if slots[i].EndAt.Sub(slots[i].StartAt) != time.Hour {
			t.Errorf("slot %d has length %v, want 1h", i, slots[i].EndAt.Sub(slots[i].StartAt))
		}
	}
}

func TestGetAvailableSlots_PartialSlotAtWindowEndDropped(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "10:30"}},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00-10:00 fits; 10:00-11:00 would spill past 10:30.
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].StartAt.Equal(mondayAt(t, "09:00")) {
		t.Errorf("slot starts at %v, want 09:00", slots[0].StartAt)
	}
}

func TestGetAvailableSlots_BookedSlotRemoved(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}},
		},
		[]domain.BookedInterval{
			{Start: mondayAt(t, "10:00"), DurationMin: 60},
		},
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].StartAt.Equal(mondayAt(t, "09:00")) ||
		!slots[1].StartAt.Equal(mondayAt(t, "11:00")) {
		t.Errorf("got %v and %v, want 09:00 and 11:00", slots[0].StartAt, slots[1].StartAt)
	}
}

// A short booking still excludes every longer candidate it touches.
func TestGetAvailableSlots_ShortBookingExcludesLongerSlot(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}},
		},
		[]domain.BookedInterval{
			{Start: mondayAt(t, "10:00"), DurationMin: 30},
		},
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].StartAt.Equal(mondayAt(t, "09:00")) ||
		!slots[1].StartAt.Equal(mondayAt(t, "11:00")) {
		t.Errorf("got %v and %v, want 09:00 and 11:00", slots[0].StartAt, slots[1].StartAt)
	}
}

func TestGetAvailableSlots_WindowShorterThanDuration(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "09:45"}},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

// A booking that ends exactly when a slot starts must not knock the
// slot out: intervals are half-open.
func TestGetAvailableSlots_BackToBackBookingKeepsSlot(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"}},
		},
		[]domain.BookedInterval{
			{Start: mondayAt(t, "09:00"), DurationMin: 60},
		},
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].StartAt.Equal(mondayAt(t, "10:00")) {
		t.Errorf("slot starts at %v, want 10:00", slots[0].StartAt)
	}
}

func TestGetAvailableSlots_PartialOverlapRemovesSlot(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"}},
		},
		[]domain.BookedInterval{
			// 09:30-10:30 clips both hourly candidates.
			{Start: mondayAt(t, "09:30"), DurationMin: 60},
		},
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestGetAvailableSlots_MultipleIntervalsOrdered(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {
				// deliberately out of order
				{Weekday: time.Monday, StartTime: "14:00", EndTime: "16:00"},
				{Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
			},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].StartAt.Before(slots[i].StartAt) {
			t.Fatalf("slots not strictly ascending at index %d", i)
		}
	}
	if !slots[0].StartAt.Equal(mondayAt(t, "09:00")) {
		t.Errorf("first slot %v, want 09:00", slots[0].StartAt)
	}
}

func TestGetAvailableSlots_DurationChangesGrid(t *testing.T) {
	rules := map[time.Weekday][]domain.Rule{
		time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "10:30"}},
	}
	uc := newEngine(rules, nil, map[uint]int{1: 30, 2: 45})

	slots30, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots30) != 3 {
		t.Errorf("30min grid: expected 3 slots, got %d", len(slots30))
	}

	slots45, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots45) != 2 {
		t.Errorf("45min grid: expected 2 slots, got %d", len(slots45))
	}
}

// ======================================================
// EMPTY AND ERROR CASES
// ======================================================

func TestGetAvailableSlots_NoRulesIsEmptyNotError(t *testing.T) {
	uc := newEngine(map[time.Weekday][]domain.Rule{}, nil, map[uint]int{1: 60})

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty slice, got %v", slots)
	}
}

func TestGetAvailableSlots_UnknownType(t *testing.T) {
	uc := newEngine(nil, nil, map[uint]int{1: 60})

	_, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 99,
	})
	if !httperr.IsBusiness(err, "appointment_type_not_found") {
		t.Fatalf("expected appointment_type_not_found, got %v", err)
	}
}

// A misconfigured type with a zero or negative duration must be
// rejected before enumeration starts; stepping by it would never
// advance the cursor.
func TestGetAvailableSlots_NonPositiveDurationRejected(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}},
		},
		nil,
		map[uint]int{1: 0, 2: -30},
	)

	for _, typeID := range []uint{1, 2} {
		_, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
			UserID: 1, Date: monday, AppointmentTypeID: typeID,
		})
		if !httperr.IsBusiness(err, "invalid_duration") {
			t.Errorf("type %d: expected invalid_duration, got %v", typeID, err)
		}
	}
}

func TestGetAvailableSlots_InvalidTimezone(t *testing.T) {
	uc := newEngine(nil, nil, map[uint]int{1: 60})

	_, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1, Timezone: "Mars/Olympus",
	})
	if !httperr.IsBusiness(err, "invalid_timezone") {
		t.Fatalf("expected invalid_timezone, got %v", err)
	}
}

func TestGetAvailableSlots_InvalidDate(t *testing.T) {
	uc := newEngine(nil, nil, map[uint]int{1: 60})

	for _, d := range []string{"01-06-2026", "2026-13-01", "yesterday", ""} {
		_, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
			UserID: 1, Date: d, AppointmentTypeID: 1,
		})
		if !httperr.IsBusiness(err, "invalid_date") {
			t.Errorf("date %q: expected invalid_date, got %v", d, err)
		}
	}
}

// ======================================================
// DETERMINISM AND TIMEZONES
// ======================================================

func TestGetAvailableSlots_Deterministic(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}},
		},
		[]domain.BookedInterval{
			{Start: mondayAt(t, "10:00"), DurationMin: 60},
		},
		map[uint]int{1: 60},
	)

	in := GetAvailableSlotsInput{UserID: 1, Date: monday, AppointmentTypeID: 1}

	first, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartAt.Equal(second[i].StartAt) || !first[i].EndAt.Equal(second[i].EndAt) {
			t.Fatalf("slot %d differs between runs", i)
		}
	}
}

func TestGetAvailableSlots_RequestedZoneSetsWallClock(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Monday: {{Weekday: time.Monday, StartTime: "09:00", EndTime: "10:00"}},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: monday, AppointmentTypeID: 1, Timezone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}

	ny := mustLoc(t, "America/New_York")
	want := time.Date(2026, 6, 1, 9, 0, 0, 0, ny)
	if !slots[0].StartAt.Equal(want) {
		t.Errorf("slot starts at %v, want %v", slots[0].StartAt, want)
	}
}

// On the spring-forward day a 09:00-17:00 window still yields the full
// wall-clock grid; the jump happens at 02:00, outside working hours.
func TestGetAvailableSlots_DSTDayKeepsWallClockGrid(t *testing.T) {
	uc := newEngine(
		map[time.Weekday][]domain.Rule{
			time.Sunday: {{Weekday: time.Sunday, StartTime: "09:00", EndTime: "17:00"}},
		},
		nil,
		map[uint]int{1: 60},
	)

	slots, err := uc.Execute(context.Background(), GetAvailableSlotsInput{
		UserID: 1, Date: "2026-03-29", AppointmentTypeID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}

	loc := mustLoc(t, "Europe/Prague")
	if got := slots[0].StartAt.In(loc).Hour(); got != 9 {
		t.Errorf("first slot local hour = %d, want 9", got)
	}
	if got := slots[7].StartAt.In(loc).Hour(); got != 16 {
		t.Errorf("last slot local hour = %d, want 16", got)
	}
}
