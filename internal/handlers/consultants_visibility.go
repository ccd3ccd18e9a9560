package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

// Per-consultant catalog assignment. Types and items marked visible_to_all
// are offered to every consultant; the join tables below list the extra
// assignments for restricted entries.

type VisibilityUpdateRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

func (h *ConsultantsHandler) loadConsultant(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultant_not_found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_consultant"})
		}
		return nil, false
	}
	return &user, true
}

// assignedIDs returns the restricted-entry ids assigned to one consultant.
func (h *ConsultantsHandler) assignedIDs(joinTable, idColumn string, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := h.db.
		Table(joinTable).
		Where("user_id = ?", userID).
		Pluck(idColumn, &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// replaceAssignments swaps the consultant's whole assignment set for one
// join table; ids that do not exist in the referenced catalog are dropped.
func (h *ConsultantsHandler) replaceAssignments(
	c *gin.Context,
	joinTable, idColumn string,
	model any,
	userID uint,
	ids []uint,
) ([]uint, error) {

	var kept []uint
	if len(ids) > 0 {
		if err := h.db.Model(model).Where("id IN ?", ids).Pluck("id", &kept).Error; err != nil {
			return nil, err
		}
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM "+joinTable+" WHERE user_id = ?", userID,
		).Error; err != nil {
			return err
		}
		for _, id := range kept {
			if err := tx.Exec(
				"INSERT INTO "+joinTable+" ("+idColumn+", user_id) VALUES (?, ?)",
				id, userID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return kept, nil
}

// --------- Appointment types ---------

func (h *ConsultantsHandler) GetAppointmentTypeVisibility(c *gin.Context) {
	user, ok := h.loadConsultant(c)
	if !ok {
		return
	}

	assigned, err := h.assignedIDs("appointment_type_consultants", "appointment_type_id", user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_visibility"})
		return
	}

	var types []models.AppointmentType
	if err := h.db.Order("id ASC").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_visibility"})
		return
	}

	out := make([]gin.H, 0, len(types))
	for _, t := range types {
		out = append(out, gin.H{
			"id":             t.ID,
			"name":           t.Name,
			"visible_to_all": t.VisibleToAll,
			"visible":        t.VisibleToAll || assigned[t.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"appointment_types": out})
}

func (h *ConsultantsHandler) UpdateAppointmentTypeVisibility(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	user, ok := h.loadConsultant(c)
	if !ok {
		return
	}

	var req VisibilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	kept, err := h.replaceAssignments(
		c,
		"appointment_type_consultants", "appointment_type_id",
		&models.AppointmentType{},
		user.ID,
		req.IDs,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_visibility"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "consultant_appointment_types_assigned",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"appointment_type_ids": kept},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "assigned_ids": kept})
}

// --------- Inventory ---------

func (h *ConsultantsHandler) GetInventoryVisibility(c *gin.Context) {
	user, ok := h.loadConsultant(c)
	if !ok {
		return
	}

	assigned, err := h.assignedIDs("inventory_item_consultants", "inventory_item_id", user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_visibility"})
		return
	}

	var items []models.InventoryItem
	if err := h.db.Order("name ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_visibility"})
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"id":             item.ID,
			"name":           item.Name,
			"visible_to_all": item.VisibleToAll,
			"visible":        item.VisibleToAll || assigned[item.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"inventory_items": out})
}

func (h *ConsultantsHandler) UpdateInventoryVisibility(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	user, ok := h.loadConsultant(c)
	if !ok {
		return
	}

	var req VisibilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	kept, err := h.replaceAssignments(
		c,
		"inventory_item_consultants", "inventory_item_id",
		&models.InventoryItem{},
		user.ID,
		req.IDs,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_visibility"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "consultant_inventory_assigned",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"inventory_item_ids": kept},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "assigned_ids": kept})
}

// --------- Stats ---------

// Stats summarizes one consultant's activity: patient base, completed
// appointments, revenue and the most recent bookings.
func (h *ConsultantsHandler) Stats(c *gin.Context) {
	user, ok := h.loadConsultant(c)
	if !ok {
		return
	}

	var totalPatients int64
	if err := h.db.Model(&models.Patient{}).
		Where("consultant_id = ?", user.ID).
		Count(&totalPatients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_stats"})
		return
	}

	var completed int64
	if err := h.db.Model(&models.Appointment{}).
		Where("consultant_id = ? AND status = ?", user.ID, "completed").
		Count(&completed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_stats"})
		return
	}

	var revenue float64
	if err := h.db.Model(&models.Appointment{}).
		Where("consultant_id = ? AND status = ?", user.ID, "completed").
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_stats"})
		return
	}

	type typeCount struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var byType []typeCount
	if err := h.db.Model(&models.Appointment{}).
		Joins("JOIN appointment_types ON appointment_types.id = appointments.appointment_type_id").
		Where("appointments.consultant_id = ?", user.ID).
		Group("appointment_types.name").
		Order("count DESC").
		Select("appointment_types.name AS name, COUNT(*) AS count").
		Scan(&byType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_stats"})
		return
	}

	var recent []models.Appointment
	if err := h.db.
		Preload("Patient").
		Preload("AppointmentType").
		Where("consultant_id = ?", user.ID).
		Order("start_time DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_patients":         totalPatients,
		"completed_appointments": completed,
		"total_revenue":          revenue,
		"appointments_by_type":   byType,
		"recent_appointments":    recent,
	})
}
