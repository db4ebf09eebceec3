package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type VenueRepo interface {
	Create(ctx context.Context, tx *gorm.DB, venue *types.Venue) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Venue, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, tx *gorm.DB, activeOnly bool, page, pageSize int) ([]*types.Venue, int64, error)
}

type venueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVenueRepo(db *gorm.DB, baseLog *logger.Logger) VenueRepo {
	return &venueRepo{db: db, log: baseLog.With("repo", "VenueRepo")}
}

func (vr *venueRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return vr.db
}

func (vr *venueRepo) Create(ctx context.Context, tx *gorm.DB, venue *types.Venue) error {
	return vr.handle(tx).WithContext(ctx).Create(venue).Error
}

func (vr *venueRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Venue, error) {
	var venue types.Venue
	err := vr.handle(tx).WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &venue, nil
}

func (vr *venueRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID *uuid.UUID) (bool, error) {
	q := vr.handle(tx).WithContext(ctx).
		Model(&types.Venue{}).
		Where("name = ?", name)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (vr *venueRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return vr.handle(tx).WithContext(ctx).
		Model(&types.Venue{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (vr *venueRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool, page, pageSize int) ([]*types.Venue, int64, error) {
	q := vr.handle(tx).WithContext(ctx).Model(&types.Venue{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var venues []*types.Venue
	if err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&venues).Error; err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}
