package appointment

import (
	"context"
	"time"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/dto"
	"github.com/clinicops/clinic-backoffice/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo      domain.Repository
	defaultTZ string
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	defaultTZ string,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:      repo,
		defaultTZ: defaultTZ,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	consultantID uint,
	year int,
	month int,
	tz string,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(tz, uc.defaultTZ)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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
