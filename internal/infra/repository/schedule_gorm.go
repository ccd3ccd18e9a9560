package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/domain/schedule"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

// ScheduleGormRepository backs the slot engine's collaborators with the
// working_hours, appointments and appointment_types tables.
type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// WorkingHoursSource
// --------------------------------------------------

func (r *ScheduleGormRepository) GetRulesForDay(
	ctx context.Context,
	userID uint,
	weekday time.Weekday,
) ([]schedule.Rule, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekday = ?", userID, int(weekday)).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]schedule.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, schedule.Rule{
			UserID:    row.UserID,
			Weekday:   time.Weekday(row.Weekday),
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		})
	}

	return rules, nil
}

// --------------------------------------------------
// BookedAppointmentsSource
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBookedIntervals(
	ctx context.Context,
	userID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]schedule.BookedInterval, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"consultant_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
			userID, "upcoming", dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	intervals := make([]schedule.BookedInterval, 0, len(apps))
	for _, ap := range apps {
		intervals = append(intervals, schedule.BookedInterval{
			Start:       ap.StartTime,
			DurationMin: int(ap.EndTime.Sub(ap.StartTime) / time.Minute),
		})
	}

	return intervals, nil
}

// --------------------------------------------------
// AppointmentTypeDurationResolver
// --------------------------------------------------

func (r *ScheduleGormRepository) GetDurationMinutes(
	ctx context.Context,
	appointmentTypeID uint,
) (int, error) {

	var apType models.AppointmentType
	if err := r.db.WithContext(ctx).
		First(&apType, appointmentTypeID).Error; err != nil {
		return 0, err
	}

	return apType.DurationMin, nil
}

// --------------------------------------------------
// RuleStore
// --------------------------------------------------

func (r *ScheduleGormRepository) ListRules(
	ctx context.Context,
	userID uint,
) ([]schedule.Rule, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]schedule.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, schedule.Rule{
			UserID:    row.UserID,
			Weekday:   time.Weekday(row.Weekday),
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		})
	}

	return rules, nil
}

func (r *ScheduleGormRepository) ReplaceRules(
	ctx context.Context,
	userID uint,
	rules []schedule.Rule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("user_id = ?", userID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(rules) == 0 {
			return nil
		}

		rows := make([]models.WorkingHours, 0, len(rules))
		for _, rule := range rules {
			rows = append(rows, models.WorkingHours{
				UserID:    userID,
				Weekday:   int(rule.Weekday),
				StartTime: rule.StartTime,
				EndTime:   rule.EndTime,
			})
		}

		return tx.Create(&rows).Error
	})
}

// Compile-time checks
var (
	_ schedule.WorkingHoursSource              = (*ScheduleGormRepository)(nil)
	_ schedule.BookedAppointmentsSource        = (*ScheduleGormRepository)(nil)
	_ schedule.AppointmentTypeDurationResolver = (*ScheduleGormRepository)(nil)
	_ schedule.RuleStore                       = (*ScheduleGormRepository)(nil)
)
