package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/domain/schedule"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment type
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentType(
	ctx context.Context,
	appointmentTypeID uint,
) (*models.AppointmentType, error) {

	var apType models.AppointmentType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", appointmentTypeID, true).
		First(&apType).Error; err != nil {
		return nil, err
	}
	return &apType, nil
}

func (r *AppointmentGormRepository) IsTypeVisibleToConsultant(
	ctx context.Context,
	appointmentTypeID uint,
	consultantID uint,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AppointmentType{}).
		Where(
			"id = ? AND (visible_to_all = ? OR id IN (?))",
			appointmentTypeID,
			true,
			r.db.
				Table("appointment_type_consultants").
				Select("appointment_type_id").
				Where("user_id = ?", consultantID),
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	patientID uint,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, patientID).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) TouchPatientVisit(
	ctx context.Context,
	patientID uint,
	visit time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND (last_visit IS NULL OR last_visit < ?)", patientID, visit).
		Update("last_visit", visit).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment re-validates the time conflict and inserts in one
// transaction. The availability read path is advisory only, so this is the
// authoritative double-booking guard.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"consultant_id = ? AND status = ? AND start_time < ? AND end_time > ?",
				ap.ConsultantID,
				string(domain.StatusUpcoming),
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) GetAppointmentForConsultant(
	ctx context.Context,
	appointmentID uint,
	consultantID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND consultant_id = ?", appointmentID, consultantID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Scheduling checks / listings
// --------------------------------------------------

// IsWithinWorkingHours reports whether [start, end) fits entirely inside one
// of the consultant's working intervals for that weekday, interpreted in
// start's location.
func (r *AppointmentGormRepository) IsWithinWorkingHours(
	ctx context.Context,
	consultantID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	loc := start.Location()

	var rules []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekday = ?", consultantID, int(start.Weekday())).
		Find(&rules).Error; err != nil {
		return false, err
	}

	for _, wh := range rules {
		rule := schedule.Rule{
			UserID:    wh.UserID,
			Weekday:   time.Weekday(wh.Weekday),
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
		}

		winStart, winEnd, ok := rule.WindowOnDate(start, loc)
		if !ok {
			continue
		}

		if !start.Before(winStart) && !end.After(winEnd) {
			return true, nil
		}
	}

	return false, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	consultantID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("AppointmentType").
		Where(
			"consultant_id = ? AND start_time >= ? AND start_time < ?",
			consultantID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
