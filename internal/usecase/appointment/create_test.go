package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/appointment"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	types    map[uint]*models.AppointmentType
	patients map[uint]*models.Patient

	// typeID -> consultantIDs a restricted type is assigned to
	assigned map[uint]map[uint]bool

	withinHours bool
	createErr   error

	created      *models.Appointment
	touchedAt    *time.Time
	stored       map[uint]*models.Appointment
	updated      *models.Appointment
	listedPeriod []models.Appointment
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetAppointmentType(_ context.Context, id uint) (*models.AppointmentType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (f *fakeRepo) IsTypeVisibleToConsultant(_ context.Context, typeID, consultantID uint) (bool, error) {
	t, ok := f.types[typeID]
	if !ok {
		return false, nil
	}
	if t.VisibleToAll {
		return true, nil
	}
	return f.assigned[typeID][consultantID], nil
}

func (f *fakeRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (f *fakeRepo) TouchPatientVisit(_ context.Context, _ uint, visit time.Time) error {
	f.touchedAt = &visit
	return nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	ap.ID = 42
	f.created = ap
	return nil
}

func (f *fakeRepo) GetAppointmentForConsultant(_ context.Context, id, consultantID uint) (*models.Appointment, error) {
	ap, ok := f.stored[id]
	if !ok || ap.ConsultantID != consultantID {
		return nil, errors.New("not found")
	}
	return ap, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.updated = ap
	return nil
}

func (f *fakeRepo) IsWithinWorkingHours(_ context.Context, _ uint, _, _ time.Time) (bool, error) {
	return f.withinHours, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, _ uint, _, _ time.Time) ([]models.Appointment, error) {
	return f.listedPeriod, nil
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		types: map[uint]*models.AppointmentType{
			1: {ID: 1, Name: "Consultation", DurationMin: 60, Price: 1200, Active: true, VisibleToAll: true},
		},
		assigned: map[uint]map[uint]bool{},
		patients: map[uint]*models.Patient{
			7: {Name: "Jana Novak"},
		},
		withinHours: true,
		stored:      map[uint]*models.Appointment{},
	}
}

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		PatientID:         7,
		ConsultantID:      3,
		AppointmentTypeID: 1,
		RequestedBy:       3,
		Date:              "2026-06-01",
		Time:              "10:00",
	}
}

// ======================================================
// CREATE
// ======================================================

func TestCreateAppointment_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.types[1].ID = 1
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	ap, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ap.Status != string(domain.StatusUpcoming) {
		t.Errorf("status = %s, want upcoming", ap.Status)
	}
	if ap.EndTime.Sub(ap.StartTime) != time.Hour {
		t.Errorf("duration = %v, want 1h", ap.EndTime.Sub(ap.StartTime))
	}
	if ap.TotalPrice != 1200 {
		t.Errorf("total_price = %v, want the type price", ap.TotalPrice)
	}

	loc, _ := time.LoadLocation("Europe/Prague")
	want := time.Date(2026, 6, 1, 10, 0, 0, 0, loc)
	if !ap.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", ap.StartTime, want)
	}

	if repo.touchedAt == nil || !repo.touchedAt.Equal(want) {
		t.Errorf("patient last visit not updated to appointment start")
	}
}

func TestCreateAppointment_UnknownType(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	in := validInput()
	in.AppointmentTypeID = 99

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "appointment_type_not_found") {
		t.Fatalf("expected appointment_type_not_found, got %v", err)
	}
}

func TestCreateAppointment_UnknownPatient(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	in := validInput()
	in.PatientID = 99

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "patient_not_found") {
		t.Fatalf("expected patient_not_found, got %v", err)
	}
}

func TestCreateAppointment_BadDateTime(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	for _, tc := range []struct{ date, tm string }{
		{"01-06-2026", "10:00"},
		{"2026-06-01", "10am"},
		{"", "10:00"},
	} {
		in := validInput()
		in.Date, in.Time = tc.date, tc.tm

		_, err := uc.Execute(context.Background(), in)
		if !httperr.IsBusiness(err, "invalid_date_or_time") {
			t.Errorf("%q %q: expected invalid_date_or_time, got %v", tc.date, tc.tm, err)
		}
	}
}

func TestCreateAppointment_RestrictedTypeRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.types[1].VisibleToAll = false
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	_, err := uc.Execute(context.Background(), validInput())
	if !httperr.IsBusiness(err, "appointment_type_not_available") {
		t.Fatalf("expected appointment_type_not_available, got %v", err)
	}
	if repo.created != nil {
		t.Error("nothing must be written for an unassigned restricted type")
	}
}

func TestCreateAppointment_RestrictedTypeAllowedWhenAssigned(t *testing.T) {
	repo := newFakeRepo()
	repo.types[1].VisibleToAll = false
	repo.assigned[1] = map[uint]bool{3: true}
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	if _, err := uc.Execute(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_AdminBypassesVisibility(t *testing.T) {
	repo := newFakeRepo()
	repo.types[1].VisibleToAll = false
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	in := validInput()
	in.RequestedByAdmin = true

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	repo.withinHours = false
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	_, err := uc.Execute(context.Background(), validInput())
	if !httperr.IsBusiness(err, "outside_working_hours") {
		t.Fatalf("expected outside_working_hours, got %v", err)
	}
	if repo.created != nil {
		t.Error("nothing must be written when the interval is outside working hours")
	}
}

func TestCreateAppointment_ConflictFromRepo(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = httperr.ErrBusiness("time_conflict")
	uc := NewCreateAppointment(repo, nil, nil, "Europe/Prague")

	_, err := uc.Execute(context.Background(), validInput())
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
	if repo.touchedAt != nil {
		t.Error("patient visit must not be touched on conflict")
	}
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func TestCancelAppointment(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[5] = &models.Appointment{
		ConsultantID: 3,
		Status:       string(domain.StatusUpcoming),
	}
	repo.stored[5].ID = 5

	uc := NewCancelAppointment(repo, nil, nil)

	ap, err := uc.Execute(context.Background(), 3, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %s, want cancelled", ap.Status)
	}
	if repo.updated == nil {
		t.Error("cancellation must be persisted")
	}
}

func TestCancelAppointment_WrongConsultant(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[5] = &models.Appointment{
		ConsultantID: 3,
		Status:       string(domain.StatusUpcoming),
	}

	uc := NewCancelAppointment(repo, nil, nil)

	_, err := uc.Execute(context.Background(), 8, 5)
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

func TestCompleteAppointment_AlreadyCancelled(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[5] = &models.Appointment{
		ConsultantID: 3,
		Status:       string(domain.StatusCancelled),
	}

	uc := NewCompleteAppointment(repo, nil, nil)

	_, err := uc.Execute(context.Background(), 3, 5)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if repo.updated != nil {
		t.Error("invalid transition must not be persisted")
	}
}
