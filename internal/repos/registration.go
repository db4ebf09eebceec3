package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type RegistrationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reg *types.Registration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error)
	GetByUserAndActivity(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) (*types.Registration, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	CountByStatus(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, status types.RegistrationStatus) (int64, error)
	ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, status types.RegistrationStatus) ([]*types.Registration, error)
	BulkUpdateStatus(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, from, to types.RegistrationStatus) (int64, error)
	StatusCounts(ctx context.Context, tx *gorm.DB, activityID *uuid.UUID) (map[types.RegistrationStatus]int64, error)
}

type registrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegistrationRepo(db *gorm.DB, baseLog *logger.Logger) RegistrationRepo {
	return &registrationRepo{db: db, log: baseLog.With("repo", "RegistrationRepo")}
}

func (rr *registrationRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *registrationRepo) Create(ctx context.Context, tx *gorm.DB, reg *types.Registration) error {
	return rr.handle(tx).WithContext(ctx).Create(reg).Error
}

func (rr *registrationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error) {
	var reg types.Registration
	err := rr.handle(tx).WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (rr *registrationRepo) GetByUserAndActivity(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) (*types.Registration, error) {
	var reg types.Registration
	err := rr.handle(tx).WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		First(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (rr *registrationRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return rr.handle(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (rr *registrationRepo) CountByStatus(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, status types.RegistrationStatus) (int64, error) {
	var count int64
	if err := rr.handle(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Where("activity_id = ? AND status = ?", activityID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *registrationRepo) ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, status types.RegistrationStatus) ([]*types.Registration, error) {
	q := rr.handle(tx).WithContext(ctx).
		Where("activity_id = ?", activityID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var regs []*types.Registration
	if err := q.Order("registered_at ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (rr *registrationRepo) BulkUpdateStatus(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, from, to types.RegistrationStatus) (int64, error) {
	res := rr.handle(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Where("activity_id = ? AND status = ?", activityID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (rr *registrationRepo) StatusCounts(ctx context.Context, tx *gorm.DB, activityID *uuid.UUID) (map[types.RegistrationStatus]int64, error) {
	type row struct {
		Status types.RegistrationStatus
		Total  int64
	}
	q := rr.handle(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Select("status, COUNT(*) AS total").
		Group("status")
	if activityID != nil {
		q = q.Where("activity_id = ?", *activityID)
	}
	var rows []row
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[types.RegistrationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
