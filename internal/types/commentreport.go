package types

import (
	"time"

	"github.com/google/uuid"
)

type CommentReportStatus string

const (
	CommentReportStatusPending  CommentReportStatus = "pending"
	CommentReportStatusResolved CommentReportStatus = "resolved"
)

// CommentReport records every report against a comment so moderation has
// a queue to read, whether or not the keyword heuristic already removed
// the comment.
type CommentReport struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID   uuid.UUID           `gorm:"index;not null" json:"comment_id"`
	Comment     *Comment            `gorm:"foreignKey:CommentID;references:ID" json:"-"`
	ReporterID  uuid.UUID           `gorm:"index;not null" json:"reporter_id"`
	Reporter    *User               `gorm:"foreignKey:ReporterID;references:ID" json:"-"`
	Reason      string              `gorm:"not null;column:reason" json:"reason"`
	AutoDeleted bool                `gorm:"not null;default:false;column:auto_deleted" json:"auto_deleted"`
	Status      CommentReportStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	CreatedAt   time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null" json:"updated_at"`
}

func (CommentReport) TableName() string {
	return "comment_report"
}
