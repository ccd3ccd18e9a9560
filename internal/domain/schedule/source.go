package schedule

import (
	"context"
	"time"
)

// WorkingHoursSource returns the recurring weekly rules for a staff member.
type WorkingHoursSource interface {
	GetRulesForDay(
		ctx context.Context,
		userID uint,
		weekday time.Weekday,
	) ([]Rule, error)
}

// BookedAppointmentsSource returns existing appointments whose start instant
// falls within [dayStart, dayEnd).
type BookedAppointmentsSource interface {
	GetBookedIntervals(
		ctx context.Context,
		userID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]BookedInterval, error)
}

// AppointmentTypeDurationResolver resolves an appointment type to its
// duration in minutes.
type AppointmentTypeDurationResolver interface {
	GetDurationMinutes(
		ctx context.Context,
		appointmentTypeID uint,
	) (int, error)
}

// RuleStore persists working-hour rules. ReplaceRules swaps a staff
// member's entire rule set in one transaction.
type RuleStore interface {
	ListRules(ctx context.Context, userID uint) ([]Rule, error)
	ReplaceRules(ctx context.Context, userID uint, rules []Rule) error
}
