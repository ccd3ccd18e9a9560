package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/clinic-backoffice/internal/config"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
	ucAppointment "github.com/clinicops/clinic-backoffice/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	cfg *config.Config

	createUC      *ucAppointment.CreateAppointment
	completeUC    *ucAppointment.CompleteAppointment
	cancelUC      *ucAppointment.CancelAppointment
	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	cfg *config.Config,
	createUC *ucAppointment.CreateAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		cfg:           cfg,
		createUC:      createUC,
		completeUC:    completeUC,
		cancelUC:      cancelUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID         uint   `json:"patient_id" binding:"required"`
	ConsultantID      uint   `json:"consultant_id"`
	AppointmentTypeID uint   `json:"appointment_type_id" binding:"required"`
	Date              string `json:"date" binding:"required"`
	Time              string `json:"time" binding:"required"`
	Timezone          string `json:"timezone"`
	Notes             string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	consultantID := req.ConsultantID
	if role != models.RoleAdmin {
		// consultants book only for themselves
		consultantID = userID
	}
	if consultantID == 0 {
		httperr.BadRequest(c, "missing_consultant", "Admin must specify consultant_id.")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		PatientID:         req.PatientID,
		ConsultantID:      consultantID,
		AppointmentTypeID: req.AppointmentTypeID,
		RequestedBy:       userID,
		RequestedByAdmin:  role == models.RoleAdmin,
		Date:              req.Date,
		Time:              req.Time,
		Timezone:          req.Timezone,
		Notes:             req.Notes,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_type_not_found"):
			httperr.NotFound(c, "appointment_type_not_found", "Appointment type not found.")
		case httperr.IsBusiness(err, "appointment_type_not_available"):
			httperr.Forbidden(c, "appointment_type_not_available", "This appointment type is not available to you.")
		case httperr.IsBusiness(err, "patient_not_found"):
			httperr.NotFound(c, "patient_not_found", "Patient not found.")
		case httperr.IsBusiness(err, "invalid_date_or_time"):
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		case httperr.IsBusiness(err, "outside_working_hours"):
			httperr.BadRequest(c, "outside_working_hours", "Outside working hours.")
		case httperr.IsBusiness(err, "time_conflict"):
			httperr.BadRequest(c, "time_conflict", "Time conflict with another appointment.")
		default:
			httperr.Internal(c, "failed_to_create_appointment", "Could not create appointment.")
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	tz := c.Query("timezone")

	date, err := parseDateIn(dateStr, tz, h.cfg.DefaultTimezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	consultantID := h.targetConsultant(c, userID)

	out, err := h.listByDateUC.Execute(c.Request.Context(), consultantID, date, tz)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	consultantID := h.targetConsultant(c, userID)

	out, err := h.listByMonthUC.Execute(
		c.Request.Context(),
		consultantID,
		year,
		month,
		c.Query("timezone"),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

// targetConsultant lets an admin inspect any consultant's calendar via
// ?consultant_id=; everyone else sees their own.
func (h *AppointmentHandler) targetConsultant(c *gin.Context, userID uint) uint {
	role := c.MustGet(middleware.ContextUserRole).(string)
	if role != models.RoleAdmin {
		return userID
	}

	if idStr := c.Query("consultant_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			return uint(id)
		}
	}

	return userID
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "Appointment cannot be completed.")
		default:
			httperr.Internal(c, "failed_to_complete_appointment", "Could not complete appointment.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "Appointment cannot be cancelled.")
		default:
			httperr.Internal(c, "failed_to_cancel_appointment", "Could not cancel appointment.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}
