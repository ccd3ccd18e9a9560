package schedule

import "time"

// Slot is a candidate bookable interval. End - Start always equals the
// requested appointment-type duration. Slots are computed per query and
// never persisted.
type Slot struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// BookedInterval is the projection of an existing appointment the engine
// needs: when it starts and how long it lasts.
type BookedInterval struct {
	Start       time.Time
	DurationMin int
}

func (b BookedInterval) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMin) * time.Minute)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open semantics: back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
