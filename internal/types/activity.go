package types

import (
	"time"

	"github.com/google/uuid"
)

type ActivityStatus string

const (
	ActivityStatusDraft     ActivityStatus = "draft"
	ActivityStatusOpen      ActivityStatus = "open"
	ActivityStatusFull      ActivityStatus = "full"
	ActivityStatusClosed    ActivityStatus = "closed"
	ActivityStatusOngoing   ActivityStatus = "ongoing"
	ActivityStatusEnded     ActivityStatus = "ended"
	ActivityStatusCancelled ActivityStatus = "cancelled"
)

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityStatusDraft, ActivityStatusOpen, ActivityStatusFull,
		ActivityStatusClosed, ActivityStatusOngoing, ActivityStatusEnded,
		ActivityStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition may leave this status.
func (s ActivityStatus) Terminal() bool {
	return s == ActivityStatusEnded || s == ActivityStatusCancelled
}

type ActivityType string

const (
	ActivityTypeBasketball ActivityType = "basketball"
	ActivityTypeFootball   ActivityType = "football"
	ActivityTypeBadminton  ActivityType = "badminton"
	ActivityTypeTennis     ActivityType = "tennis"
	ActivityTypeRunning    ActivityType = "running"
	ActivityTypeSwimming   ActivityType = "swimming"
	ActivityTypeOther      ActivityType = "other"
)

type Activity struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title                string         `gorm:"not null;column:title" json:"title"`
	Description          string         `gorm:"column:description" json:"description"`
	Type                 ActivityType   `gorm:"not null;default:'other';column:type" json:"type"`
	Status               ActivityStatus `gorm:"index;not null;default:'open';column:status" json:"status"`
	StartTime            time.Time      `gorm:"not null;column:start_time" json:"start_time"`
	EndTime              time.Time      `gorm:"not null;column:end_time" json:"end_time"`
	RegistrationDeadline time.Time      `gorm:"not null;column:registration_deadline" json:"registration_deadline"`
	MaxParticipants      int            `gorm:"not null;column:max_participants" json:"max_participants"`
	CurrentParticipants  int            `gorm:"not null;default:0;column:current_participants" json:"current_participants"`
	Notes                string         `gorm:"column:notes" json:"notes"`
	AllowComments        bool           `gorm:"not null;default:true;column:allow_comments" json:"allow_comments"`
	CreatorID            uuid.UUID      `gorm:"index;not null" json:"creator_id"`
	Creator              *User          `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
	VenueID              uuid.UUID      `gorm:"index;not null" json:"venue_id"`
	Venue                *Venue         `gorm:"foreignKey:VenueID;references:ID" json:"-"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
}

func (Activity) TableName() string {
	return "activity"
}
