package types

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusAttended  RegistrationStatus = "attended"
	RegistrationStatusAbsent    RegistrationStatus = "absent"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed,
		RegistrationStatusCancelled, RegistrationStatusAttended,
		RegistrationStatusAbsent:
		return true
	default:
		return false
	}
}

// Registration is a user's claim on one seat in an activity. The
// (user_id, activity_id) pair is unique: re-registering after a
// cancellation reactivates the existing row instead of inserting.
type Registration struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID          `gorm:"uniqueIndex:idx_registration_user_activity;not null" json:"user_id"`
	User         *User              `gorm:"foreignKey:UserID;references:ID" json:"-"`
	ActivityID   uuid.UUID          `gorm:"uniqueIndex:idx_registration_user_activity;index;not null" json:"activity_id"`
	Activity     *Activity          `gorm:"foreignKey:ActivityID;references:ID" json:"-"`
	Status       RegistrationStatus `gorm:"index;not null;default:'confirmed';column:status" json:"status"`
	RegisteredAt time.Time          `gorm:"column:registered_at" json:"registered_at"`
	CancelledAt  *time.Time         `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"not null" json:"updated_at"`
}

func (Registration) TableName() string {
	return "registration"
}
