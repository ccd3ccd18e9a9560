package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/clinic-backoffice/internal/models"
)

func putJSON(c *gin.Context, body string) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func assignedTypeIDs(t *testing.T, h *ConsultantsHandler, userID uint) map[uint]bool {
	t.Helper()
	set, err := h.assignedIDs("appointment_type_consultants", "appointment_type_id", userID)
	if err != nil {
		t.Fatalf("read assignments: %v", err)
	}
	return set
}

func TestUpdateAppointmentTypeVisibility_ReplacesAssignments(t *testing.T) {
	db := newTestDB(t)
	h := NewConsultantsHandler(db, nil)

	db.Create(&models.User{ID: 5, Name: "Eva", Email: "eva@example.com", Role: models.RoleConsultant})
	for i, name := range []string{"Consultation", "Laser", "Massage"} {
		db.Create(&models.AppointmentType{ID: uint(i + 1), Name: name, DurationMin: 30, VisibleToAll: false})
	}

	c, w := requestCtx(1, models.RoleAdmin, idParam("5"))
	putJSON(c, `{"ids":[1,2]}`)
	h.UpdateAppointmentTypeVisibility(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	set := assignedTypeIDs(t, h, 5)
	if !set[1] || !set[2] || set[3] {
		t.Fatalf("after first update assignments = %v, want {1,2}", set)
	}

	// the set is replaced wholesale, not merged
	c, w = requestCtx(1, models.RoleAdmin, idParam("5"))
	putJSON(c, `{"ids":[3]}`)
	h.UpdateAppointmentTypeVisibility(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	set = assignedTypeIDs(t, h, 5)
	if set[1] || set[2] || !set[3] {
		t.Fatalf("after second update assignments = %v, want {3}", set)
	}
}

func TestUpdateAppointmentTypeVisibility_DropsUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	h := NewConsultantsHandler(db, nil)

	db.Create(&models.User{ID: 5, Name: "Eva", Email: "eva@example.com", Role: models.RoleConsultant})
	db.Create(&models.AppointmentType{ID: 1, Name: "Consultation", DurationMin: 60, VisibleToAll: false})

	c, w := requestCtx(1, models.RoleAdmin, idParam("5"))
	putJSON(c, `{"ids":[1,99]}`)
	h.UpdateAppointmentTypeVisibility(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	set := assignedTypeIDs(t, h, 5)
	if !set[1] || set[99] {
		t.Fatalf("assignments = %v, want only {1}", set)
	}
}

func TestUpdateAppointmentTypeVisibility_UnknownConsultant(t *testing.T) {
	db := newTestDB(t)
	h := NewConsultantsHandler(db, nil)

	c, w := requestCtx(1, models.RoleAdmin, idParam("5"))
	putJSON(c, `{"ids":[]}`)
	h.UpdateAppointmentTypeVisibility(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateInventoryVisibility_ReplacesAssignments(t *testing.T) {
	db := newTestDB(t)
	h := NewConsultantsHandler(db, nil)

	db.Create(&models.User{ID: 5, Name: "Eva", Email: "eva@example.com", Role: models.RoleConsultant})
	db.Create(&models.InventoryItem{ID: 1, Name: "Serum", VisibleToAll: false})
	db.Create(&models.InventoryItem{ID: 2, Name: "Cream", VisibleToAll: false})

	c, w := requestCtx(1, models.RoleAdmin, idParam("5"))
	putJSON(c, `{"ids":[2]}`)
	h.UpdateInventoryVisibility(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	set, err := h.assignedIDs("inventory_item_consultants", "inventory_item_id", 5)
	if err != nil {
		t.Fatalf("read assignments: %v", err)
	}
	if set[1] || !set[2] {
		t.Fatalf("assignments = %v, want {2}", set)
	}
}
