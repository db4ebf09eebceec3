package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
	"github.com/yungbote/sporthub-backend/internal/platform/clock"
	"github.com/yungbote/sporthub-backend/internal/repos"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type CreateActivityInput struct {
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Type                 types.ActivityType `json:"type"`
	StartTime            time.Time          `json:"start_time"`
	EndTime              time.Time          `json:"end_time"`
	RegistrationDeadline time.Time          `json:"registration_deadline"`
	MaxParticipants      int                `json:"max_participants"`
	Notes                string             `json:"notes"`
	AllowComments        *bool              `json:"allow_comments,omitempty"`
	VenueID              uuid.UUID          `json:"venue_id"`
}

type UpdateActivityInput struct {
	Title                *string             `json:"title,omitempty"`
	Description          *string             `json:"description,omitempty"`
	Type                 *types.ActivityType `json:"type,omitempty"`
	StartTime            *time.Time          `json:"start_time,omitempty"`
	EndTime              *time.Time          `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time          `json:"registration_deadline,omitempty"`
	MaxParticipants      *int                `json:"max_participants,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	AllowComments        *bool               `json:"allow_comments,omitempty"`
	VenueID              *uuid.UUID          `json:"venue_id,omitempty"`
}

// ActivityDetail is an activity annotated with its creator, venue and the
// live confirmed-registration count.
type ActivityDetail struct {
	types.Activity
	CreatorName    string `json:"creator_name"`
	VenueName      string `json:"venue_name"`
	ConfirmedCount int64  `json:"confirmed_count"`
}

// SweepResult reports what one pass of the automatic promotion did.
type SweepResult struct {
	Closed  int64       `json:"closed"`
	Started int64       `json:"started"`
	Ended   []uuid.UUID `json:"ended"`
}

type ActivityService interface {
	CreateActivity(ctx context.Context, creatorID uuid.UUID, input CreateActivityInput) (*ActivityDetail, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*ActivityDetail, error)
	GetActivities(ctx context.Context, filters repos.ActivityFilters, page, pageSize int) ([]*ActivityDetail, int64, error)
	UpdateActivity(ctx context.Context, operatorID, id uuid.UUID, input UpdateActivityInput) (*ActivityDetail, error)
	UpdateActivityStatus(ctx context.Context, operatorID, id uuid.UUID, newStatus types.ActivityStatus) error
	AutoUpdateActivityStatus(ctx context.Context) (*SweepResult, error)
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	clk          clock.Clock
	policy       RolePolicy
	userRepo     repos.UserRepo
	venueRepo    repos.VenueRepo
	activityRepo repos.ActivityRepo
	regRepo      repos.RegistrationRepo
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	policy RolePolicy,
	userRepo repos.UserRepo,
	venueRepo repos.VenueRepo,
	activityRepo repos.ActivityRepo,
	regRepo repos.RegistrationRepo,
) ActivityService {
	return &activityService{
		db:           db,
		log:          log.With("service", "ActivityService"),
		clk:          clk,
		policy:       policy,
		userRepo:     userRepo,
		venueRepo:    venueRepo,
		activityRepo: activityRepo,
		regRepo:      regRepo,
	}
}

func validateActivityTimes(now, start, end, deadline time.Time) error {
	if !start.Before(end) {
		return apierr.Invalid("invalid_time_order", "start time must be before end time")
	}
	if !deadline.Before(start) {
		return apierr.Invalid("invalid_time_order", "registration deadline must be before start time")
	}
	if !deadline.After(now) {
		return apierr.Invalid("deadline_passed", "registration deadline must be in the future")
	}
	return nil
}

func (s *activityService) CreateActivity(ctx context.Context, creatorID uuid.UUID, input CreateActivityInput) (*ActivityDetail, error) {
	creator, err := s.userRepo.GetByID(ctx, nil, creatorID)
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	if creator == nil {
		return nil, apierr.NotFound("not_found", "creator not found")
	}
	if !s.policy.CanPublishActivities(creator) {
		return nil, apierr.Forbidden("permission_denied", "admin role required to publish activities")
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Invalid("invalid_input", "title is required")
	}
	if input.MaxParticipants < 1 {
		return nil, apierr.Invalid("invalid_input", "max participants must be at least 1")
	}
	if err := validateActivityTimes(s.clk.Now(), input.StartTime, input.EndTime, input.RegistrationDeadline); err != nil {
		return nil, err
	}

	venue, err := s.venueRepo.GetByID(ctx, nil, input.VenueID)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, apierr.NotFound("not_found", "venue not found")
	}
	if !venue.IsActive {
		return nil, apierr.Invalid("venue_inactive", "venue is not active")
	}

	allowComments := true
	if input.AllowComments != nil {
		allowComments = *input.AllowComments
	}
	activityType := input.Type
	if activityType == "" {
		activityType = types.ActivityTypeOther
	}
	activity := &types.Activity{
		ID:                   uuid.New(),
		Title:                strings.TrimSpace(input.Title),
		Description:          input.Description,
		Type:                 activityType,
		Status:               types.ActivityStatusOpen,
		StartTime:            input.StartTime,
		EndTime:              input.EndTime,
		RegistrationDeadline: input.RegistrationDeadline,
		MaxParticipants:      input.MaxParticipants,
		Notes:                input.Notes,
		AllowComments:        allowComments,
		CreatorID:            creator.ID,
		VenueID:              venue.ID,
	}
	if err := s.activityRepo.Create(ctx, nil, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	s.log.Info("Activity created", "activity_id", activity.ID, "title", activity.Title)

	activity.Creator = creator
	activity.Venue = venue
	return s.annotate(ctx, activity)
}

func (s *activityService) annotate(ctx context.Context, activity *types.Activity) (*ActivityDetail, error) {
	confirmed, err := s.regRepo.CountByStatus(ctx, nil, activity.ID, types.RegistrationStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed registrations: %w", err)
	}
	detail := &ActivityDetail{Activity: *activity, ConfirmedCount: confirmed}
	if activity.Creator != nil {
		detail.CreatorName = activity.Creator.Username
	}
	if activity.Venue != nil {
		detail.VenueName = activity.Venue.Name
	}
	return detail, nil
}

func (s *activityService) GetActivity(ctx context.Context, id uuid.UUID) (*ActivityDetail, error) {
	activity, err := s.activityRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return nil, apierr.NotFound("not_found", "activity not found")
	}
	return s.annotate(ctx, activity)
}

func (s *activityService) GetActivities(ctx context.Context, filters repos.ActivityFilters, page, pageSize int) ([]*ActivityDetail, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	activities, total, err := s.activityRepo.List(ctx, nil, filters, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	details := make([]*ActivityDetail, 0, len(activities))
	for _, activity := range activities {
		detail, err := s.annotate(ctx, activity)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	return details, total, nil
}

func (s *activityService) loadForOperator(ctx context.Context, operatorID, id uuid.UUID) (*types.User, *types.Activity, error) {
	operator, err := s.userRepo.GetByID(ctx, nil, operatorID)
	if err != nil {
		return nil, nil, fmt.Errorf("load operator: %w", err)
	}
	if operator == nil {
		return nil, nil, apierr.NotFound("not_found", "operator not found")
	}
	activity, err := s.activityRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return nil, nil, apierr.NotFound("not_found", "activity not found")
	}
	if !s.policy.CanManageActivity(operator, activity) {
		return nil, nil, apierr.Forbidden("permission_denied", "only the creator or a super admin may modify this activity")
	}
	return operator, activity, nil
}

func (s *activityService) UpdateActivity(ctx context.Context, operatorID, id uuid.UUID, input UpdateActivityInput) (*ActivityDetail, error) {
	_, activity, err := s.loadForOperator(ctx, operatorID, id)
	if err != nil {
		return nil, err
	}
	if activity.Status.Terminal() {
		return nil, apierr.Invalid("activity_closed", "activity is %s and can no longer be updated", activity.Status)
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apierr.Invalid("invalid_input", "title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.AllowComments != nil {
		fields["allow_comments"] = *input.AllowComments
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants < 1 {
			return nil, apierr.Invalid("invalid_input", "max participants must be at least 1")
		}
		fields["max_participants"] = *input.MaxParticipants
	}

	// Time invariants are re-validated against the merged values: an
	// untouched field keeps its stored value.
	if input.StartTime != nil || input.EndTime != nil || input.RegistrationDeadline != nil {
		start := activity.StartTime
		end := activity.EndTime
		deadline := activity.RegistrationDeadline
		if input.StartTime != nil {
			start = *input.StartTime
			fields["start_time"] = start
		}
		if input.EndTime != nil {
			end = *input.EndTime
			fields["end_time"] = end
		}
		if input.RegistrationDeadline != nil {
			deadline = *input.RegistrationDeadline
			fields["registration_deadline"] = deadline
		}
		if err := validateActivityTimes(s.clk.Now(), start, end, deadline); err != nil {
			return nil, err
		}
	}

	if input.VenueID != nil && *input.VenueID != activity.VenueID {
		venue, err := s.venueRepo.GetByID(ctx, nil, *input.VenueID)
		if err != nil {
			return nil, fmt.Errorf("load venue: %w", err)
		}
		if venue == nil {
			return nil, apierr.NotFound("not_found", "venue not found")
		}
		if !venue.IsActive {
			return nil, apierr.Invalid("venue_inactive", "venue is not active")
		}
		fields["venue_id"] = venue.ID
	}

	if len(fields) > 0 {
		if err := s.activityRepo.Update(ctx, nil, id, fields); err != nil {
			return nil, fmt.Errorf("update activity: %w", err)
		}
	}
	return s.GetActivity(ctx, id)
}

func (s *activityService) UpdateActivityStatus(ctx context.Context, operatorID, id uuid.UUID, newStatus types.ActivityStatus) error {
	if !newStatus.Valid() {
		return apierr.Invalid("invalid_input", "unknown activity status %q", newStatus)
	}
	_, activity, err := s.loadForOperator(ctx, operatorID, id)
	if err != nil {
		return err
	}
	now := s.clk.Now()
	switch newStatus {
	case types.ActivityStatusOpen:
		if !now.Before(activity.RegistrationDeadline) {
			return apierr.Invalid("deadline_passed", "registration deadline has passed, cannot reopen")
		}
	case types.ActivityStatusOngoing:
		if now.Before(activity.StartTime) {
			return apierr.Invalid("not_started", "activity has not started yet")
		}
	case types.ActivityStatusEnded:
		// Always allowed.
	case types.ActivityStatusCancelled:
		if activity.Status == types.ActivityStatusEnded {
			return apierr.Invalid("activity_closed", "an ended activity cannot be cancelled")
		}
	}
	if err := s.activityRepo.Update(ctx, nil, id, map[string]interface{}{"status": newStatus}); err != nil {
		return fmt.Errorf("update activity status: %w", err)
	}
	s.log.Info("Activity status changed", "activity_id", id, "from", activity.Status, "to", newStatus)
	return nil
}

// AutoUpdateActivityStatus runs one pass of the time-driven promotion:
// open/full past deadline become closed, closed past start become
// ongoing, ongoing past end become ended. Absentee marking for freshly
// ended activities is the sweeper's job; the ended ids are returned.
func (s *activityService) AutoUpdateActivityStatus(ctx context.Context) (*SweepResult, error) {
	now := s.clk.Now()
	result := &SweepResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closed, err := s.activityRepo.CloseExpired(ctx, tx, now)
		if err != nil {
			return fmt.Errorf("close expired: %w", err)
		}
		started, err := s.activityRepo.StartDue(ctx, tx, now)
		if err != nil {
			return fmt.Errorf("start due: %w", err)
		}
		ended, err := s.activityRepo.EndFinished(ctx, tx, now)
		if err != nil {
			return fmt.Errorf("end finished: %w", err)
		}
		result.Closed = closed
		result.Started = started
		result.Ended = ended
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Closed+result.Started+int64(len(result.Ended)) > 0 {
		s.log.Info("Activity status sweep", "closed", result.Closed, "started", result.Started, "ended", len(result.Ended))
	}
	return result, nil
}
