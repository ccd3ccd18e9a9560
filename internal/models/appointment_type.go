package models

import "time"

type AppointmentType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `gorm:"default:60" json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	// VisibleToAll = false restricts the type to the consultants listed in
	// the join table; admins always see everything.
	VisibleToAll bool   `gorm:"default:true" json:"visible_to_all"`
	VisibleTo    []User `gorm:"many2many:appointment_type_consultants;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
