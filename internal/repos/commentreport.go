package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type CommentReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *types.CommentReport) error
	ListPending(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]*types.CommentReport, int64, error)
}

type commentReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentReportRepo(db *gorm.DB, baseLog *logger.Logger) CommentReportRepo {
	return &commentReportRepo{db: db, log: baseLog.With("repo", "CommentReportRepo")}
}

func (cr *commentReportRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *commentReportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.CommentReport) error {
	return cr.handle(tx).WithContext(ctx).Create(report).Error
}

func (cr *commentReportRepo) ListPending(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]*types.CommentReport, int64, error) {
	q := cr.handle(tx).WithContext(ctx).
		Model(&types.CommentReport{}).
		Where("status = ?", types.CommentReportStatusPending)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reports []*types.CommentReport
	if err := q.Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
