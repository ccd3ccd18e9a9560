package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/httpresp"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

type AppointmentTypesHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAppointmentTypesHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *AppointmentTypesHandler {
	return &AppointmentTypesHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateAppointmentTypeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DurationMin  int     `json:"duration_min" binding:"required,min=1"`
	Price        float64 `json:"price" binding:"required"`
	VisibleToAll *bool   `json:"visible_to_all,omitempty"`
}

type UpdateAppointmentTypeRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	DurationMin  *int     `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Price        *float64 `json:"price,omitempty"`
	Active       *bool    `json:"active,omitempty"`
	VisibleToAll *bool    `json:"visible_to_all,omitempty"`
}

// --------- Handlers ---------

// visibleScope narrows the catalog for consultants to types offered to
// everyone or assigned to them; admins see the full catalog.
func (h *AppointmentTypesHandler) visibleScope(q *gorm.DB, role string, userID uint) *gorm.DB {
	if role == models.RoleAdmin {
		return q
	}
	return q.Where(
		"visible_to_all = ? OR id IN (?)",
		true,
		h.db.
			Table("appointment_type_consultants").
			Select("appointment_type_id").
			Where("user_id = ?", userID),
	)
}

func (h *AppointmentTypesHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	q := h.visibleScope(h.db.Model(&models.AppointmentType{}), role, userID)

	activeStr := c.Query("active")
	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var types []models.AppointmentType
	if err := q.
		Order("id ASC").
		Find(&types).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_appointment_types"})
		return
	}

	httpresp.List(c, types)
}

func (h *AppointmentTypesHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var apType models.AppointmentType
	err := h.visibleScope(h.db.Model(&models.AppointmentType{}), role, userID).
		Where("id = ?", c.Param("id")).
		First(&apType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Restricted types read as missing rather than forbidden so the
			// response does not leak the catalog.
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment_type_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_appointment_type"})
		return
	}

	c.JSON(http.StatusOK, apType)
}

func (h *AppointmentTypesHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var apType models.AppointmentType
	if err := h.db.First(&apType, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment_type_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_appointment_type"})
		return
	}

	var inUse int64
	if err := h.db.Model(&models.Appointment{}).
		Where("appointment_type_id = ?", apType.ID).
		Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_appointment_type"})
		return
	}
	if inUse > 0 {
		httperr.BadRequest(c, "appointment_type_in_use",
			"Appointment type is referenced by existing appointments; deactivate it instead.")
		return
	}

	if err := h.db.Select(clause.Associations).Delete(&apType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_appointment_type"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_type_deleted",
		Entity:   "appointment_type",
		EntityID: &apType.ID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AppointmentTypesHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	apType := models.AppointmentType{
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Active:       true,
		VisibleToAll: req.VisibleToAll == nil || *req.VisibleToAll,
	}

	if err := h.db.Create(&apType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_appointment_type"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_type_created",
		Entity:   "appointment_type",
		EntityID: &apType.ID,
	})

	httpresp.Created(c, apType)
}

func (h *AppointmentTypesHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var apType models.AppointmentType
	if err := h.db.First(&apType, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment_type_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_appointment_type"})
		return
	}

	var req UpdateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		apType.Name = *req.Name
	}
	if req.Description != nil {
		apType.Description = *req.Description
	}
	if req.DurationMin != nil {
		apType.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		apType.Price = *req.Price
	}
	if req.Active != nil {
		apType.Active = *req.Active
	}
	if req.VisibleToAll != nil {
		apType.VisibleToAll = *req.VisibleToAll
	}

	if err := h.db.Save(&apType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_appointment_type"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_type_updated",
		Entity:   "appointment_type",
		EntityID: &apType.ID,
	})

	c.JSON(http.StatusOK, apType)
}
