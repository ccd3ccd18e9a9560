package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/httperr"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
)

const lowStockThreshold = 5

type InventoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewInventoryHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *InventoryHandler {
	return &InventoryHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateInventoryItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity" binding:"min=0"`
	PriceWithoutVAT float64 `json:"price_without_vat" binding:"required"`
	VATRate         float64 `json:"vat_rate"`
}

type UpdateInventoryItemRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	PriceWithoutVAT *float64 `json:"price_without_vat,omitempty"`
	VATRate         *float64 `json:"vat_rate,omitempty"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// --------- Handlers ---------

// visibleScope narrows the catalog for consultants to items offered to
// everyone or assigned to them; admins see the full catalog.
func (h *InventoryHandler) visibleScope(q *gorm.DB, role string, userID uint) *gorm.DB {
	if role == models.RoleAdmin {
		return q
	}
	return q.Where(
		"visible_to_all = ? OR id IN (?)",
		true,
		h.db.
			Table("inventory_item_consultants").
			Select("inventory_item_id").
			Where("user_id = ?", userID),
	)
}

func (h *InventoryHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit := pagination(c)

	q := h.visibleScope(h.db.Model(&models.InventoryItem{}), role, userID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if c.Query("low_stock") == "true" {
		q = q.Where("quantity < ?", lowStockThreshold)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_count_inventory"})
		return
	}

	var items []models.InventoryItem
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"items": items,
	})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var item models.InventoryItem
	err := h.visibleScope(h.db.Model(&models.InventoryItem{}), role, userID).
		Where("id = ?", c.Param("id")).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory_item_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_inventory_item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var item models.InventoryItem
	if err := h.db.First(&item, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory_item_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_inventory_item"})
		return
	}

	// Purchase lines keep their history; an item that was ever sold can only
	// be hidden, not removed.
	var inUse int64
	if err := h.db.Model(&models.PurchaseItem{}).
		Where("inventory_item_id = ?", item.ID).
		Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_inventory_item"})
		return
	}
	if inUse > 0 {
		httperr.BadRequest(c, "inventory_item_in_use",
			"Inventory item appears on existing purchases and cannot be deleted.")
		return
	}

	if err := h.db.Select(clause.Associations).Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_inventory_item"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "inventory_item_deleted",
		Entity:   "inventory_item",
		EntityID: &item.ID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InventoryHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	item := models.InventoryItem{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		PriceWithoutVAT: req.PriceWithoutVAT,
		VATRate:         req.VATRate,
		CreatedByID:     &userID,
	}
	item.RecalculatePriceWithVAT()

	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_inventory_item"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "inventory_item_created",
		Entity:   "inventory_item",
		EntityID: &item.ID,
	})

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var item models.InventoryItem
	if err := h.db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inventory_item_not_found"})
		return
	}

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.PriceWithoutVAT != nil {
		item.PriceWithoutVAT = *req.PriceWithoutVAT
	}
	if req.VATRate != nil {
		item.VATRate = *req.VATRate
	}
	item.UpdatedByID = &userID
	item.RecalculatePriceWithVAT()

	if err := h.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_inventory_item"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "inventory_item_updated",
		Entity:   "inventory_item",
		EntityID: &item.ID,
	})

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var item models.InventoryItem
	if err := h.db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inventory_item_not_found"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if err := h.db.Model(&item).
		Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_restock_item"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "inventory_item_restocked",
		Entity:   "inventory_item",
		EntityID: &item.ID,
		Metadata: map[string]any{"added": req.Quantity},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InventoryHandler) Stats(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.db.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_load_inventory"})
		return
	}

	var totalWithoutVAT, totalWithVAT float64
	lowStock := 0

	for _, item := range items {
		totalWithoutVAT += item.PriceWithoutVAT * float64(item.Quantity)
		totalWithVAT += item.PriceWithVAT * float64(item.Quantity)
		if item.Quantity < lowStockThreshold {
			lowStock++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"item_count":              len(items),
		"total_value_without_vat": totalWithoutVAT,
		"total_value_with_vat":    totalWithVAT,
		"low_stock_count":         lowStock,
		"low_stock_threshold":     lowStockThreshold,
	})
}
