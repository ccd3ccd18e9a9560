package models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	DateOfBirth string `gorm:"size:10" json:"date_of_birth"`
	Notes       string `gorm:"type:text" json:"notes"`

	ConsultantID uint `json:"consultant_id"`
	Consultant   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"consultant"`

	LastVisit  *time.Time `json:"last_visit"`
	TotalSpent float64    `gorm:"default:0" json:"total_spent"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
