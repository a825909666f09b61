package models

import (
	"gorm.io/gorm"
)

type WorkshopCategory struct {
	gorm.Model
	Title    string `gorm:"column:title;size:255;not null;uniqueIndex" json:"title"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`

	Activities []WorkshopActivity `gorm:"foreignKey:CategoryID" json:"activities,omitempty"`
}

func (WorkshopCategory) TableName() string {
	return "workshop_categories"
}

type WorkshopActivity struct {
	gorm.Model
	CategoryID uint   `gorm:"column:category_id;not null;index" json:"category_id"`
	Title      string `gorm:"column:title;size:255;not null" json:"title"`
	Votes      int    `gorm:"column:votes;not null;default:0" json:"votes"`

	Category *WorkshopCategory `gorm:"foreignKey:CategoryID" json:"-"`
}

func (WorkshopActivity) TableName() string {
	return "workshop_activities"
}

// WorkshopVote records one vote per user per activity. The unique index is
// what prevents re-voting across sessions.
type WorkshopVote struct {
	gorm.Model
	UserID     uint `gorm:"column:user_id;not null;uniqueIndex:idx_user_activity" json:"user_id"`
	ActivityID uint `gorm:"column:activity_id;not null;uniqueIndex:idx_user_activity" json:"activity_id"`
}

func (WorkshopVote) TableName() string {
	return "workshop_votes"
}
