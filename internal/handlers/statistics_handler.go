package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/models"
)

type StatisticsHandler struct {
	db *gorm.DB
}

func NewStatisticsHandler(db *gorm.DB) *StatisticsHandler {
	return &StatisticsHandler{db: db}
}

// Revenue sums recorded purchases plus completed appointments.
func (h *StatisticsHandler) Revenue(c *gin.Context) {
	var purchaseRevenue float64
	if err := h.db.Model(&models.Purchase{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&purchaseRevenue).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_compute_revenue"})
		return
	}

	var appointmentRevenue float64
	if err := h.db.Model(&models.Appointment{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ?", "completed").
		Scan(&appointmentRevenue).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_compute_revenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_revenue":    purchaseRevenue,
		"appointment_revenue": appointmentRevenue,
		"total_revenue":       purchaseRevenue + appointmentRevenue,
	})
}
