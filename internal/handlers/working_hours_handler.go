package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/clinicops/clinic-backoffice/internal/domain/schedule"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/httpresp"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
	ucschedule "github.com/clinicops/clinic-backoffice/internal/usecase/schedule"
)

type WorkingHoursHandler struct {
	db           *gorm.DB
	replaceRules *ucschedule.ReplaceRules
	getSlots     *ucschedule.GetAvailableSlots
}

func NewWorkingHoursHandler(
	db *gorm.DB,
	replaceRules *ucschedule.ReplaceRules,
	getSlots *ucschedule.GetAvailableSlots,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		db:           db,
		replaceRules: replaceRules,
		getSlots:     getSlots,
	}
}

// --------- Requests ---------

type WorkingHoursEntry struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type WorkingHoursUpdateRequest struct {
	Entries []WorkingHoursEntry `json:"entries" binding:"required"`
}

// --------- Handlers ---------

func (h *WorkingHoursHandler) GetMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.listForUser(c, userID)
}

func (h *WorkingHoursHandler) GetForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "Invalid user id.")
		return
	}
	h.listForUser(c, uint(userID))
}

func (h *WorkingHoursHandler) listForUser(c *gin.Context, userID uint) {
	var hours []models.WorkingHours
	if err := h.db.
		Where("user_id = ?", userID).
		Order("weekday ASC, start_time ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Could not load working hours.")
		return
	}

	httpresp.List(c, hours)
}

func (h *WorkingHoursHandler) UpdateMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.replaceForUser(c, userID)
}

func (h *WorkingHoursHandler) UpdateForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "Invalid user id.")
		return
	}
	h.replaceForUser(c, uint(userID))
}

func (h *WorkingHoursHandler) replaceForUser(c *gin.Context, targetID uint) {
	requestedBy := c.MustGet(middleware.ContextUserID).(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rules := make([]domain.Rule, 0, len(req.Entries))
	for _, e := range req.Entries {
		rules = append(rules, domain.Rule{
			UserID:    targetID,
			Weekday:   time.Weekday(e.Weekday),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}

	saved, err := h.replaceRules.Execute(c.Request.Context(), ucschedule.ReplaceRulesInput{
		UserID:      targetID,
		RequestedBy: requestedBy,
		Rules:       rules,
	})
	if err != nil {
		for _, code := range []string{"invalid_time_format", "invalid_time_range", "overlapping_working_hours"} {
			if httperr.IsBusiness(err, code) {
				httperr.BadRequest(c, code, "Invalid working hours.")
				return
			}
		}
		httperr.Internal(c, "failed_to_save_working_hours", "Could not save working hours.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rules":  saved,
	})
}

// Slots serves the availability computation for one staff member, one day
// and one appointment type.
func (h *WorkingHoursHandler) Slots(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "Invalid user id.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	typeID, err := strconv.ParseUint(c.Query("appointment_type_id"), 10, 32)
	if err != nil || typeID == 0 {
		httperr.BadRequest(c, "missing_appointment_type", "Query parameter appointment_type_id is required.")
		return
	}

	slots, err := h.getSlots.Execute(c.Request.Context(), ucschedule.GetAvailableSlotsInput{
		UserID:            uint(userID),
		Date:              date,
		AppointmentTypeID: uint(typeID),
		Timezone:          c.Query("timezone"),
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_type_not_found"):
			httperr.NotFound(c, "appointment_type_not_found", "Appointment type not found.")
		case httperr.IsBusiness(err, "invalid_timezone"):
			httperr.BadRequest(c, "invalid_timezone", "Unrecognized IANA timezone.")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		case httperr.IsBusiness(err, "invalid_duration"):
			httperr.BadRequest(c, "invalid_duration", "Appointment type has no usable duration.")
		default:
			httperr.Internal(c, "failed_to_compute_slots", "Could not compute availability.")
		}
		return
	}

	httpresp.OK(c, gin.H{"slots": slots})
}
