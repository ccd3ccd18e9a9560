package appointment

import (
	"context"
	"time"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/cache"
	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/models"
	"github.com/clinicops/clinic-backoffice/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PatientID         uint
	ConsultantID      uint
	AppointmentTypeID uint

	// RequestedBy is the authenticated user recorded in the audit trail.
	RequestedBy uint

	// RequestedByAdmin skips the per-consultant visibility check; admins
	// may book any type on anyone's behalf.
	RequestedByAdmin bool

	Date     string // "2006-01-02"
	Time     string // "15:04"
	Timezone string // optional IANA zone
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	slotCache *cache.SlotCache
	defaultTZ string
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slotCache *cache.SlotCache,
	defaultTZ string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		audit:     audit,
		slotCache: slotCache,
		defaultTZ: defaultTZ,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	apType, err := uc.repo.GetAppointmentType(ctx, in.AppointmentTypeID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_type_not_found")
	}

	if !in.RequestedByAdmin {
		visible, err := uc.repo.IsTypeVisibleToConsultant(ctx, apType.ID, in.ConsultantID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, httperr.ErrBusiness("appointment_type_not_available")
		}
	}

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	loc := timezone.Location(in.Timezone, uc.defaultTZ)
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	end := start.Add(time.Duration(apType.DurationMin) * time.Minute)

	ok, err := uc.repo.IsWithinWorkingHours(ctx, in.ConsultantID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	ap := &models.Appointment{
		PatientID:         patient.ID,
		ConsultantID:      in.ConsultantID,
		AppointmentTypeID: apType.ID,
		StartTime:         start,
		EndTime:           end,
		Status:            string(domain.InitialStatus()),
		TotalPrice:        apType.Price,
		Notes:             in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	if err := uc.repo.TouchPatientVisit(ctx, patient.ID, start); err != nil {
		return nil, err
	}

	uc.slotCache.InvalidateUser(ctx, in.ConsultantID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.RequestedBy,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
