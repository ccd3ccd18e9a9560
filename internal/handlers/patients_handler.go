package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

type PatientsHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPatientsHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PatientsHandler {
	return &PatientsHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreatePatientRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DateOfBirth  string `json:"date_of_birth"`
	Notes        string `json:"notes"`
	ConsultantID uint   `json:"consultant_id"`
}

type UpdatePatientRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	ConsultantID *uint   `json:"consultant_id,omitempty"`
}

// --------- Handlers ---------

func (h *PatientsHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit := pagination(c)

	q := h.db.Model(&models.Patient{})

	// consultants only see their own patients
	if role != models.RoleAdmin {
		q = q.Where("consultant_id = ?", userID)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_count_patients"})
		return
	}

	var patients []models.Patient
	if err := q.
		Preload("Consultant").
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&patients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_patients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"limit":    limit,
		"total":    total,
		"patients": patients,
	})
}

func (h *PatientsHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var patient models.Patient
	if err := h.db.
		Preload("Consultant").
		First(&patient, c.Param("id")).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "patient_not_found"})
		return
	}

	if role != models.RoleAdmin && patient.ConsultantID != userID {
		httperr.Forbidden(c, "forbidden", "Patient belongs to another consultant.")
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientsHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	consultantID := req.ConsultantID
	if role != models.RoleAdmin || consultantID == 0 {
		consultantID = userID
	}

	patient := models.Patient{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Address:      req.Address,
		DateOfBirth:  req.DateOfBirth,
		Notes:        req.Notes,
		ConsultantID: consultantID,
	}

	if err := h.db.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_patient"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "patient_created",
		Entity:   "patient",
		EntityID: &patient.ID,
	})

	c.JSON(http.StatusCreated, patient)
}

func (h *PatientsHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var patient models.Patient
	if err := h.db.First(&patient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patient_not_found"})
		return
	}

	if role != models.RoleAdmin && patient.ConsultantID != userID {
		httperr.Forbidden(c, "forbidden", "Patient belongs to another consultant.")
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}
	if req.ConsultantID != nil && role == models.RoleAdmin {
		patient.ConsultantID = *req.ConsultantID
	}

	if err := h.db.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_patient"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "patient_updated",
		Entity:   "patient",
		EntityID: &patient.ID,
	})

	c.JSON(http.StatusOK, patient)
}

func (h *PatientsHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var patient models.Patient
	if err := h.db.First(&patient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patient_not_found"})
		return
	}

	// soft delete, history stays reachable for purchases and appointments
	if err := h.db.Delete(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_patient"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "patient_deleted",
		Entity:   "patient",
		EntityID: &patient.ID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------- Shared ---------

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	return page, limit
}
