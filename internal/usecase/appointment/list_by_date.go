package appointment

import (
	"context"
	"time"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/dto"
	"github.com/clinicops/clinic-backoffice/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo      domain.Repository
	defaultTZ string
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	defaultTZ string,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:      repo,
		defaultTZ: defaultTZ,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	consultantID uint,
	date time.Time,
	tz string,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(tz, uc.defaultTZ)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		consultantID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			PatientName: ap.Patient.Name,
			TypeName:    ap.AppointmentType.Name,
		})
	}

	return out, nil
}
