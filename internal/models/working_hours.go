package models

import "time"

// WorkingHours is one recurring weekly interval during which a consultant
// accepts appointments. A consultant may have several rows per weekday
// (e.g. a morning and an afternoon block). The whole set is replaced
// atomically on update, never patched row by row.
type WorkingHours struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	// 0 = Sunday ... 6 = Saturday, matching time.Weekday.
	Weekday int `json:"weekday"`

	// Zero-padded "HH:MM" local time-of-day, start strictly before end.
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
