package types

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string     `gorm:"not null;column:content" json:"content"`
	UserID     uuid.UUID  `gorm:"index;not null" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	ActivityID uuid.UUID  `gorm:"index;not null" json:"activity_id"`
	Activity   *Activity  `gorm:"foreignKey:ActivityID;references:ID" json:"-"`
	ParentID   *uuid.UUID `gorm:"index" json:"parent_id,omitempty"`
	IsDeleted  bool       `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`

	// Replies is populated on reads; not a gorm association to keep the
	// one-level thread shape explicit in the service.
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comment"
}
