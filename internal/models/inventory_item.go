package models

import "time"

type InventoryItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Quantity    int    `gorm:"default:0" json:"quantity"`

	PriceWithoutVAT float64 `json:"price_without_vat"`
	VATRate         float64 `json:"vat_rate"`
	PriceWithVAT    float64 `json:"price_with_vat"`

	VisibleToAll bool   `gorm:"default:true" json:"visible_to_all"`
	VisibleTo    []User `gorm:"many2many:inventory_item_consultants;" json:"-"`

	CreatedByID *uint `json:"created_by_id"`
	UpdatedByID *uint `json:"updated_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecalculatePriceWithVAT keeps the derived gross price consistent with the
// net price and VAT rate. Rounded to cents.
func (i *InventoryItem) RecalculatePriceWithVAT() {
	gross := i.PriceWithoutVAT * (1 + i.VATRate/100)
	i.PriceWithVAT = float64(int64(gross*100+0.5)) / 100
}
