package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment statuses as stored. "completed" is never written: any
// non-cancelled appointment whose end time has passed reads as completed.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Appointment struct {
	gorm.Model
	UserID      uint       `gorm:"column:user_id;not null;index" json:"user_id"`
	Reference   string     `gorm:"column:reference;size:64;uniqueIndex" json:"reference"`
	StartTime   time.Time  `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     time.Time  `gorm:"column:end_time;not null" json:"end_time"`
	Location    string     `gorm:"column:location;size:255;not null" json:"location"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	IsVirtual   bool       `gorm:"column:is_virtual;default:true" json:"is_virtual"`
	Status      string     `gorm:"column:status;size:20;not null;default:scheduled" json:"status"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	Feedback    string     `gorm:"column:feedback;type:text" json:"feedback,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
