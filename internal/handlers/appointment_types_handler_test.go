package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

// ======================================================
// TEST HELPERS
// ======================================================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.AppointmentType{},
		&models.Appointment{},
		&models.InventoryItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func requestCtx(userID uint, role string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = params
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextUserRole, role)
	return c, w
}

func idParam(id string) gin.Params {
	return gin.Params{{Key: "id", Value: id}}
}

// ======================================================
// GET
// ======================================================

func TestAppointmentTypesGet(t *testing.T) {
	db := newTestDB(t)
	h := NewAppointmentTypesHandler(db, nil)

	db.Create(&models.AppointmentType{
		ID: 1, Name: "Consultation", DurationMin: 60, Active: true, VisibleToAll: true,
	})

	c, w := requestCtx(3, models.RoleConsultant, idParam("1"))
	h.Get(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	c, w = requestCtx(3, models.RoleConsultant, idParam("99"))
	h.Get(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id: status = %d, want 404", w.Code)
	}
}

func TestAppointmentTypesGet_RestrictedType(t *testing.T) {
	db := newTestDB(t)
	h := NewAppointmentTypesHandler(db, nil)

	db.Create(&models.AppointmentType{
		ID: 1, Name: "Laser", DurationMin: 30, Active: true, VisibleToAll: false,
	})
	db.Exec("INSERT INTO appointment_type_consultants (appointment_type_id, user_id) VALUES (1, 5)")

	// unassigned consultant reads it as missing
	c, w := requestCtx(3, models.RoleConsultant, idParam("1"))
	h.Get(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unassigned consultant: status = %d, want 404", w.Code)
	}

	// assigned consultant and admin both see it
	c, w = requestCtx(5, models.RoleConsultant, idParam("1"))
	h.Get(c)
	if w.Code != http.StatusOK {
		t.Fatalf("assigned consultant: status = %d, want 200", w.Code)
	}

	c, w = requestCtx(1, models.RoleAdmin, idParam("1"))
	h.Get(c)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", w.Code)
	}
}

// ======================================================
// DELETE
// ======================================================

func TestAppointmentTypesDelete_InUseRejected(t *testing.T) {
	db := newTestDB(t)
	h := NewAppointmentTypesHandler(db, nil)

	db.Create(&models.AppointmentType{ID: 1, Name: "Consultation", DurationMin: 60, Active: true})
	db.Create(&models.Appointment{AppointmentTypeID: 1, PatientID: 7, ConsultantID: 3})

	c, w := requestCtx(1, models.RoleAdmin, idParam("1"))
	h.Delete(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var count int64
	db.Model(&models.AppointmentType{}).Count(&count)
	if count != 1 {
		t.Error("referenced type must survive the delete attempt")
	}
}

func TestAppointmentTypesDelete_RemovesUnusedType(t *testing.T) {
	db := newTestDB(t)
	h := NewAppointmentTypesHandler(db, nil)

	db.Create(&models.AppointmentType{ID: 1, Name: "Obsolete", DurationMin: 15, Active: false})

	c, w := requestCtx(1, models.RoleAdmin, idParam("1"))
	h.Delete(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var count int64
	db.Model(&models.AppointmentType{}).Count(&count)
	if count != 0 {
		t.Error("unused type must be removed")
	}
}

func TestAppointmentTypesDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	h := NewAppointmentTypesHandler(db, nil)

	c, w := requestCtx(1, models.RoleAdmin, idParam("42"))
	h.Delete(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
