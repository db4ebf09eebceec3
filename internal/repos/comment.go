package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SoftDeleteReplies(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) (int64, error)
	ListTopLevel(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, page, pageSize int) ([]*types.Comment, int64, error)
	ListReplies(ctx context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]*types.Comment, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (cr *commentRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	return cr.handle(tx).WithContext(ctx).Create(comment).Error
}

func (cr *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error) {
	var comment types.Comment
	err := cr.handle(tx).WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (cr *commentRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return cr.handle(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (cr *commentRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return cr.handle(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (cr *commentRepo) SoftDeleteReplies(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) (int64, error) {
	res := cr.handle(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}

func (cr *commentRepo) ListTopLevel(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, page, pageSize int) ([]*types.Comment, int64, error) {
	q := cr.handle(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("activity_id = ? AND parent_id IS NULL AND is_deleted = ?", activityID, false)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []*types.Comment
	if err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (cr *commentRepo) ListReplies(ctx context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]*types.Comment, error) {
	var replies []*types.Comment
	if len(parentIDs) == 0 {
		return replies, nil
	}
	if err := cr.handle(tx).WithContext(ctx).
		Preload("User").
		Where("parent_id IN ? AND is_deleted = ?", parentIDs, false).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}
