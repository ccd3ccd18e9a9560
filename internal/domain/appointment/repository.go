package appointment

import (
	"context"
	"time"

	"github.com/clinicops/clinic-backoffice/internal/models"
)

type Repository interface {
	// -------- Appointment type --------
	GetAppointmentType(
		ctx context.Context,
		appointmentTypeID uint,
	) (*models.AppointmentType, error)

	// IsTypeVisibleToConsultant reports whether the type is offered to
	// everyone or assigned to this consultant specifically.
	IsTypeVisibleToConsultant(
		ctx context.Context,
		appointmentTypeID uint,
		consultantID uint,
	) (bool, error)

	// -------- Patient --------
	GetPatient(
		ctx context.Context,
		patientID uint,
	) (*models.Patient, error)

	TouchPatientVisit(
		ctx context.Context,
		patientID uint,
		visit time.Time,
	) error

	// -------- Appointment (create) --------
	// CreateAppointment re-checks for overlapping upcoming appointments and
	// inserts inside a single transaction; slot computation is advisory only.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForConsultant(
		ctx context.Context,
		appointmentID uint,
		consultantID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Scheduling checks / listings --------
	IsWithinWorkingHours(
		ctx context.Context,
		consultantID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		consultantID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
