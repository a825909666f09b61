package models

import (
	"gorm.io/gorm"
)

// ChatMessage is a message in the single community support room. Name and
// avatar are snapshotted at send time so old messages keep their author's
// identity as it was.
type ChatMessage struct {
	gorm.Model
	UserID    uint   `gorm:"column:user_id;not null;index" json:"user_id"`
	UserName  string `gorm:"column:user_name;size:255;not null" json:"user_name"`
	AvatarURL string `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	Content   string `gorm:"column:content;type:text;not null" json:"content"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
