package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
	"github.com/yungbote/sporthub-backend/internal/platform/clock"
	"github.com/yungbote/sporthub-backend/internal/repos"
	"github.com/yungbote/sporthub-backend/internal/types"
)

// cancelCutoff is how long before start time cancellation closes.
const cancelCutoff = 2 * time.Hour

// StatsCache caches registration aggregates; a nil implementation is
// valid and means "no cache".
type StatsCache interface {
	GetStats(ctx context.Context, key string) (*RegistrationStats, bool)
	SetStats(ctx context.Context, key string, stats *RegistrationStats)
	Invalidate(ctx context.Context, key string)
}

type RegistrationStats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	Confirmed      int64 `json:"confirmed"`
	Cancelled      int64 `json:"cancelled"`
	Attended       int64 `json:"attended"`
	Absent         int64 `json:"absent"`
	AttendanceRate int   `json:"attendance_rate"`
}

// CheckInResult reports one user of a batch check-in.
type CheckInResult struct {
	UserID  uuid.UUID `json:"user_id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

type RegistrationService interface {
	RegisterActivity(ctx context.Context, userID, activityID uuid.UUID) (*types.Registration, error)
	CancelRegistration(ctx context.Context, userID, activityID uuid.UUID) error
	UpdateRegistrationStatus(ctx context.Context, operatorID, registrationID uuid.UUID, status types.RegistrationStatus) error
	BatchCheckIn(ctx context.Context, operatorID, activityID uuid.UUID, userIDs []uuid.UUID) ([]CheckInResult, error)
	MarkAbsentUsers(ctx context.Context, operatorID, activityID uuid.UUID) (int64, error)
	MarkAbsentForEnded(ctx context.Context, activityIDs []uuid.UUID) error
	GetRegistrationStats(ctx context.Context, activityID *uuid.UUID) (*RegistrationStats, error)
}

type registrationService struct {
	db           *gorm.DB
	log          *logger.Logger
	clk          clock.Clock
	policy       RolePolicy
	userRepo     repos.UserRepo
	activityRepo repos.ActivityRepo
	regRepo      repos.RegistrationRepo
	statsCache   StatsCache
}

func NewRegistrationService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	policy RolePolicy,
	userRepo repos.UserRepo,
	activityRepo repos.ActivityRepo,
	regRepo repos.RegistrationRepo,
	statsCache StatsCache,
) RegistrationService {
	return &registrationService{
		db:           db,
		log:          log.With("service", "RegistrationService"),
		clk:          clk,
		policy:       policy,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		regRepo:      regRepo,
		statsCache:   statsCache,
	}
}

func statsKey(activityID *uuid.UUID) string {
	if activityID == nil {
		return "all"
	}
	return activityID.String()
}

func (rs *registrationService) invalidateStats(ctx context.Context, activityID uuid.UUID) {
	if rs.statsCache == nil {
		return
	}
	rs.statsCache.Invalidate(ctx, activityID.String())
	rs.statsCache.Invalidate(ctx, "all")
}

// RegisterActivity claims one seat. The capacity check, the counter
// increment and the FULL flip all run inside a single transaction that
// holds a row lock on the activity, so two concurrent registrations for
// the last seat cannot both pass the check.
func (rs *registrationService) RegisterActivity(ctx context.Context, userID, activityID uuid.UUID) (*types.Registration, error) {
	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("not_found", "user not found")
	}

	var registration *types.Registration
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := rs.activityRepo.GetByIDForUpdate(ctx, tx, activityID)
		if err != nil {
			return fmt.Errorf("lock activity: %w", err)
		}
		if activity == nil {
			return apierr.NotFound("not_found", "activity not found")
		}
		if activity.Status != types.ActivityStatusOpen {
			if activity.Status == types.ActivityStatusFull {
				return apierr.Invalid("activity_full", "activity is already full")
			}
			return apierr.Invalid("not_open", "activity is not open for registration")
		}
		now := rs.clk.Now()
		if now.After(activity.RegistrationDeadline) {
			return apierr.Invalid("deadline_passed", "registration deadline has passed")
		}

		existing, err := rs.regRepo.GetByUserAndActivity(ctx, tx, userID, activityID)
		if err != nil {
			return fmt.Errorf("load registration: %w", err)
		}
		if existing != nil && existing.Status != types.RegistrationStatusCancelled {
			return apierr.Invalid("already_registered", "you are already registered for this activity")
		}

		confirmed, err := rs.regRepo.CountByStatus(ctx, tx, activityID, types.RegistrationStatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		if confirmed >= int64(activity.MaxParticipants) {
			if uErr := rs.activityRepo.Update(ctx, tx, activityID, map[string]interface{}{
				"status":               types.ActivityStatusFull,
				"current_participants": confirmed,
			}); uErr != nil {
				return fmt.Errorf("mark activity full: %w", uErr)
			}
			return apierr.Invalid("activity_full", "activity has reached its participant limit")
		}

		if existing != nil {
			// The unique (user, activity) row is reactivated, never duplicated.
			if uErr := rs.regRepo.Update(ctx, tx, existing.ID, map[string]interface{}{
				"status":        types.RegistrationStatusConfirmed,
				"registered_at": now,
				"cancelled_at":  nil,
			}); uErr != nil {
				return fmt.Errorf("reactivate registration: %w", uErr)
			}
			existing.Status = types.RegistrationStatusConfirmed
			existing.RegisteredAt = now
			existing.CancelledAt = nil
			registration = existing
		} else {
			registration = &types.Registration{
				ID:           uuid.New(),
				UserID:       userID,
				ActivityID:   activityID,
				Status:       types.RegistrationStatusConfirmed,
				RegisteredAt: now,
			}
			if cErr := rs.regRepo.Create(ctx, tx, registration); cErr != nil {
				return fmt.Errorf("create registration: %w", cErr)
			}
		}

		confirmed++
		fields := map[string]interface{}{"current_participants": confirmed}
		if confirmed >= int64(activity.MaxParticipants) {
			fields["status"] = types.ActivityStatusFull
		}
		if uErr := rs.activityRepo.Update(ctx, tx, activityID, fields); uErr != nil {
			return fmt.Errorf("update participant counter: %w", uErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.invalidateStats(ctx, activityID)
	rs.log.Info("Registration confirmed", "activity_id", activityID, "user_id", userID)
	return registration, nil
}

func (rs *registrationService) CancelRegistration(ctx context.Context, userID, activityID uuid.UUID) error {
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := rs.activityRepo.GetByIDForUpdate(ctx, tx, activityID)
		if err != nil {
			return fmt.Errorf("lock activity: %w", err)
		}
		if activity == nil {
			return apierr.NotFound("not_found", "activity not found")
		}
		if activity.Status == types.ActivityStatusOngoing || activity.Status == types.ActivityStatusEnded {
			return apierr.Invalid("activity_closed", "activity already started or ended")
		}
		now := rs.clk.Now()
		if !now.Before(activity.StartTime.Add(-cancelCutoff)) {
			return apierr.Invalid("cutoff_passed", "registrations can only be cancelled up to 2 hours before start")
		}

		registration, err := rs.regRepo.GetByUserAndActivity(ctx, tx, userID, activityID)
		if err != nil {
			return fmt.Errorf("load registration: %w", err)
		}
		if registration == nil || registration.Status == types.RegistrationStatusCancelled {
			return apierr.NotFound("not_found", "no active registration for this activity")
		}

		if uErr := rs.regRepo.Update(ctx, tx, registration.ID, map[string]interface{}{
			"status":       types.RegistrationStatusCancelled,
			"cancelled_at": now,
		}); uErr != nil {
			return fmt.Errorf("cancel registration: %w", uErr)
		}

		confirmed, err := rs.regRepo.CountByStatus(ctx, tx, activityID, types.RegistrationStatusConfirmed)
		if err != nil {
			return fmt.Errorf("recount confirmed: %w", err)
		}
		fields := map[string]interface{}{"current_participants": confirmed}
		if activity.Status == types.ActivityStatusFull && confirmed < int64(activity.MaxParticipants) {
			if now.Before(activity.RegistrationDeadline) {
				fields["status"] = types.ActivityStatusOpen
			} else {
				fields["status"] = types.ActivityStatusClosed
			}
		}
		if uErr := rs.activityRepo.Update(ctx, tx, activityID, fields); uErr != nil {
			return fmt.Errorf("update participant counter: %w", uErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rs.invalidateStats(ctx, activityID)
	rs.log.Info("Registration cancelled", "activity_id", activityID, "user_id", userID)
	return nil
}

func (rs *registrationService) requireAdmin(ctx context.Context, operatorID uuid.UUID) (*types.User, error) {
	operator, err := rs.userRepo.GetByID(ctx, nil, operatorID)
	if err != nil {
		return nil, fmt.Errorf("load operator: %w", err)
	}
	if operator == nil {
		return nil, apierr.NotFound("not_found", "operator not found")
	}
	if !rs.policy.IsAdmin(operator) {
		return nil, apierr.Forbidden("permission_denied", "admin role required")
	}
	return operator, nil
}

// UpdateRegistrationStatus is the admin override: any status may be set,
// with registered_at/cancelled_at bookkeeping and a counter recount.
func (rs *registrationService) UpdateRegistrationStatus(ctx context.Context, operatorID, registrationID uuid.UUID, status types.RegistrationStatus) error {
	if !status.Valid() {
		return apierr.Invalid("invalid_input", "unknown registration status %q", status)
	}
	if _, err := rs.requireAdmin(ctx, operatorID); err != nil {
		return err
	}

	var activityID uuid.UUID
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registration, err := rs.regRepo.GetByID(ctx, tx, registrationID)
		if err != nil {
			return fmt.Errorf("load registration: %w", err)
		}
		if registration == nil {
			return apierr.NotFound("not_found", "registration not found")
		}
		activityID = registration.ActivityID

		now := rs.clk.Now()
		fields := map[string]interface{}{"status": status}
		switch status {
		case types.RegistrationStatusConfirmed:
			fields["registered_at"] = now
			fields["cancelled_at"] = nil
		case types.RegistrationStatusCancelled:
			fields["cancelled_at"] = now
		}
		if uErr := rs.regRepo.Update(ctx, tx, registrationID, fields); uErr != nil {
			return fmt.Errorf("update registration: %w", uErr)
		}

		confirmed, err := rs.regRepo.CountByStatus(ctx, tx, activityID, types.RegistrationStatusConfirmed)
		if err != nil {
			return fmt.Errorf("recount confirmed: %w", err)
		}
		if uErr := rs.activityRepo.Update(ctx, tx, activityID, map[string]interface{}{
			"current_participants": confirmed,
		}); uErr != nil {
			return fmt.Errorf("update participant counter: %w", uErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	rs.invalidateStats(ctx, activityID)
	return nil
}

// BatchCheckIn flips confirmed registrations to attended, one result per
// user id; a failed id never aborts the rest.
func (rs *registrationService) BatchCheckIn(ctx context.Context, operatorID, activityID uuid.UUID, userIDs []uuid.UUID) ([]CheckInResult, error) {
	if _, err := rs.requireAdmin(ctx, operatorID); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, apierr.Invalid("invalid_input", "no user ids given")
	}
	activity, err := rs.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return nil, apierr.NotFound("not_found", "activity not found")
	}
	if activity.Status != types.ActivityStatusOngoing {
		return nil, apierr.Invalid("not_ongoing", "check-in is only available while the activity is ongoing")
	}

	results := make([]CheckInResult, 0, len(userIDs))
	for _, userID := range userIDs {
		registration, err := rs.regRepo.GetByUserAndActivity(ctx, nil, userID, activityID)
		if err != nil {
			results = append(results, CheckInResult{UserID: userID, Error: "failed to load registration"})
			continue
		}
		if registration == nil {
			results = append(results, CheckInResult{UserID: userID, Error: "not registered for this activity"})
			continue
		}
		if registration.Status != types.RegistrationStatusConfirmed {
			results = append(results, CheckInResult{UserID: userID, Error: fmt.Sprintf("registration is %s, not confirmed", registration.Status)})
			continue
		}
		if err := rs.regRepo.Update(ctx, nil, registration.ID, map[string]interface{}{
			"status": types.RegistrationStatusAttended,
		}); err != nil {
			results = append(results, CheckInResult{UserID: userID, Error: "failed to update registration"})
			continue
		}
		results = append(results, CheckInResult{UserID: userID, Success: true})
	}
	rs.invalidateStats(ctx, activityID)
	return results, nil
}

func (rs *registrationService) MarkAbsentUsers(ctx context.Context, operatorID, activityID uuid.UUID) (int64, error) {
	if _, err := rs.requireAdmin(ctx, operatorID); err != nil {
		return 0, err
	}
	activity, err := rs.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		return 0, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return 0, apierr.NotFound("not_found", "activity not found")
	}
	if activity.Status != types.ActivityStatusEnded {
		return 0, apierr.Invalid("not_ended", "absentees can only be marked after the activity has ended")
	}
	marked, err := rs.regRepo.BulkUpdateStatus(ctx, nil, activityID, types.RegistrationStatusConfirmed, types.RegistrationStatusAbsent)
	if err != nil {
		return 0, fmt.Errorf("mark absentees: %w", err)
	}
	rs.invalidateStats(ctx, activityID)
	if marked > 0 {
		rs.log.Info("Marked absentees", "activity_id", activityID, "count", marked)
	}
	return marked, nil
}

// MarkAbsentForEnded is the sweep entry point: no operator check, the
// caller is the lifecycle job acting on activities it just ended.
func (rs *registrationService) MarkAbsentForEnded(ctx context.Context, activityIDs []uuid.UUID) error {
	for _, activityID := range activityIDs {
		if _, err := rs.regRepo.BulkUpdateStatus(ctx, nil, activityID, types.RegistrationStatusConfirmed, types.RegistrationStatusAbsent); err != nil {
			return fmt.Errorf("mark absentees for %s: %w", activityID, err)
		}
		rs.invalidateStats(ctx, activityID)
	}
	return nil
}

func (rs *registrationService) GetRegistrationStats(ctx context.Context, activityID *uuid.UUID) (*RegistrationStats, error) {
	key := statsKey(activityID)
	if rs.statsCache != nil {
		if stats, ok := rs.statsCache.GetStats(ctx, key); ok {
			return stats, nil
		}
	}
	counts, err := rs.regRepo.StatusCounts(ctx, nil, activityID)
	if err != nil {
		return nil, fmt.Errorf("aggregate registrations: %w", err)
	}
	stats := &RegistrationStats{
		Pending:   counts[types.RegistrationStatusPending],
		Confirmed: counts[types.RegistrationStatusConfirmed],
		Cancelled: counts[types.RegistrationStatusCancelled],
		Attended:  counts[types.RegistrationStatusAttended],
		Absent:    counts[types.RegistrationStatusAbsent],
	}
	stats.Total = stats.Pending + stats.Confirmed + stats.Cancelled + stats.Attended + stats.Absent
	if stats.Confirmed > 0 {
		stats.AttendanceRate = int(math.Round(float64(stats.Attended) / float64(stats.Confirmed) * 100))
	}
	if rs.statsCache != nil {
		rs.statsCache.SetStats(ctx, key, stats)
	}
	return stats, nil
}
