package models

import "time"

type Purchase struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	ConsultantID uint `json:"consultant_id"`
	Consultant   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"consultant"`

	Items []PurchaseItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`

	PurchaseDate time.Time `json:"purchase_date"`
	TotalAmount  float64   `json:"total_amount"`
	Notes        string    `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PurchaseItem struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PurchaseID uint `json:"purchase_id"`

	InventoryItemID uint          `json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"inventory_item"`

	Quantity          int     `json:"quantity"`
	PriceAtPurchase   float64 `json:"price_at_purchase"`
	VATRateAtPurchase float64 `json:"vat_rate_at_purchase"`
	SubTotal          float64 `json:"sub_total"`
}
