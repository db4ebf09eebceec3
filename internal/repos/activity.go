package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
)

// ActivityFilters narrows List; zero values mean "no filter".
type ActivityFilters struct {
	Status    types.ActivityStatus
	Type      types.ActivityType
	VenueID   *uuid.UUID
	CreatorID *uuid.UUID
}

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error)
	// GetByIDForUpdate loads the activity under a row-level write lock so
	// capacity check + counter increment are serialized per activity.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, tx *gorm.DB, filters ActivityFilters, page, pageSize int) ([]*types.Activity, int64, error)
	CloseExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
	StartDue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
	EndFinished(ctx context.Context, tx *gorm.DB, now time.Time) ([]uuid.UUID, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (ar *activityRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ar.db
}

func (ar *activityRepo) Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) error {
	return ar.handle(tx).WithContext(ctx).Create(activity).Error
}

func (ar *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error) {
	var activity types.Activity
	err := ar.handle(tx).WithContext(ctx).
		Preload("Creator").
		Preload("Venue").
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (ar *activityRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error) {
	var activity types.Activity
	q := ar.handle(tx).WithContext(ctx)
	// sqlite has no row locks; serialization there comes from its single writer.
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id = ?", id).First(&activity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (ar *activityRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return ar.handle(tx).WithContext(ctx).
		Model(&types.Activity{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (ar *activityRepo) List(ctx context.Context, tx *gorm.DB, filters ActivityFilters, page, pageSize int) ([]*types.Activity, int64, error) {
	q := ar.handle(tx).WithContext(ctx).Model(&types.Activity{})
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		q = q.Where("type = ?", filters.Type)
	}
	if filters.VenueID != nil {
		q = q.Where("venue_id = ?", *filters.VenueID)
	}
	if filters.CreatorID != nil {
		q = q.Where("creator_id = ?", *filters.CreatorID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var activities []*types.Activity
	if err := q.Preload("Creator").
		Preload("Venue").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (ar *activityRepo) CloseExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	res := ar.handle(tx).WithContext(ctx).
		Model(&types.Activity{}).
		Where("status IN ?", []types.ActivityStatus{types.ActivityStatusOpen, types.ActivityStatusFull}).
		Where("registration_deadline < ?", now).
		Update("status", types.ActivityStatusClosed)
	return res.RowsAffected, res.Error
}

func (ar *activityRepo) StartDue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	res := ar.handle(tx).WithContext(ctx).
		Model(&types.Activity{}).
		Where("status = ?", types.ActivityStatusClosed).
		Where("start_time <= ?", now).
		Update("status", types.ActivityStatusOngoing)
	return res.RowsAffected, res.Error
}

// EndFinished promotes ongoing activities past their end time and returns
// the affected ids so the caller can sweep absentees.
func (ar *activityRepo) EndFinished(ctx context.Context, tx *gorm.DB, now time.Time) ([]uuid.UUID, error) {
	h := ar.handle(tx).WithContext(ctx)
	var ids []uuid.UUID
	if err := h.Model(&types.Activity{}).
		Where("status = ?", types.ActivityStatusOngoing).
		Where("end_time < ?", now).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := h.Model(&types.Activity{}).
		Where("id IN ?", ids).
		Update("status", types.ActivityStatusEnded).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
