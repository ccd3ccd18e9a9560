package appointment

import (
	"context"
	"time"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/cache"
	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

type CompleteAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	slotCache *cache.SlotCache
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slotCache *cache.SlotCache,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:      repo,
		audit:     audit,
		slotCache: slotCache,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	consultantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForConsultant(ctx, appointmentID, consultantID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Complete(ap, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.slotCache.InvalidateUser(ctx, consultantID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &consultantID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
