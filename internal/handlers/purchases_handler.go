package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

type PurchasesHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPurchasesHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PurchasesHandler {
	return &PurchasesHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type PurchaseItemRequest struct {
	InventoryItemID uint `json:"inventory_item_id" binding:"required"`
	Quantity        int  `json:"quantity" binding:"required,min=1"`
}

type CreatePurchaseRequest struct {
	PatientID uint                  `json:"patient_id" binding:"required"`
	Items     []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes     string                `json:"notes"`
}

// --------- Handlers ---------

// Create records a multi-item sale: stock is checked and decremented, prices
// and VAT rates are captured per line as they are at purchase time, and the
// patient's running total is bumped. Everything happens in one transaction.
func (h *PurchasesHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var created models.Purchase

	err := h.db.Transaction(func(tx *gorm.DB) error {

		var patient models.Patient
		if err := tx.First(&patient, req.PatientID).Error; err != nil {
			return httperr.ErrBusiness("patient_not_found")
		}

		purchase := models.Purchase{
			Reference:    uuid.NewString(),
			PatientID:    patient.ID,
			ConsultantID: userID,
			PurchaseDate: time.Now(),
			Notes:        req.Notes,
		}

		var total float64

		for _, line := range req.Items {
			var item models.InventoryItem
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&item, line.InventoryItemID).Error; err != nil {
				return httperr.ErrBusiness("inventory_item_not_found")
			}

			if item.Quantity < line.Quantity {
				return httperr.ErrBusiness("insufficient_stock")
			}

			if err := tx.Model(&item).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity)).Error; err != nil {
				return err
			}

			subTotal := round2(float64(line.Quantity) * item.PriceWithoutVAT * (1 + item.VATRate/100))
			total += subTotal

			purchase.Items = append(purchase.Items, models.PurchaseItem{
				InventoryItemID:   item.ID,
				Quantity:          line.Quantity,
				PriceAtPurchase:   item.PriceWithoutVAT,
				VATRateAtPurchase: item.VATRate,
				SubTotal:          subTotal,
			})
		}

		purchase.TotalAmount = round2(total)

		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		if err := tx.Model(&patient).
			Update("total_spent", gorm.Expr("total_spent + ?", purchase.TotalAmount)).Error; err != nil {
			return err
		}

		created = purchase
		return nil
	})

	if err != nil {
		for _, code := range []string{"patient_not_found", "inventory_item_not_found"} {
			if httperr.IsBusiness(err, code) {
				httperr.NotFound(c, code, "Not found.")
				return
			}
		}
		if httperr.IsBusiness(err, "insufficient_stock") {
			httperr.BadRequest(c, "insufficient_stock", "Not enough stock.")
			return
		}
		httperr.Internal(c, "failed_to_create_purchase", "Could not record purchase.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "purchase_created",
		Entity:   "purchase",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"reference": created.Reference,
			"total":     created.TotalAmount,
		},
	})

	c.JSON(http.StatusCreated, created)
}

func (h *PurchasesHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	page, limit := pagination(c)

	q := h.db.Model(&models.Purchase{})

	if role != models.RoleAdmin {
		q = q.Where("consultant_id = ?", userID)
	}

	if patientID := c.Query("patient_id"); patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_count_purchases"})
		return
	}

	var purchases []models.Purchase
	if err := q.
		Preload("Patient").
		Preload("Items").
		Preload("Items.InventoryItem").
		Order("purchase_date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&purchases).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"limit":     limit,
		"total":     total,
		"purchases": purchases,
	})
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
