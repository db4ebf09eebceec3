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

const (
	maxCommentLength  = 1000
	commentEditWindow = 30 * time.Minute
)

// seriousReportReasons triggers immediate removal when a report reason
// contains one of them; everything else waits for manual review.
var seriousReportReasons = []string{
	"porn", "violence", "gambling", "drugs", "scam", "harassment",
	"色情", "暴力", "赌博", "毒品", "诈骗",
}

type CreateCommentInput struct {
	ActivityID uuid.UUID  `json:"activity_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Content    string     `json:"content"`
}

type CommentService interface {
	CreateComment(ctx context.Context, userID uuid.UUID, input CreateCommentInput) (*types.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, content string) (*types.Comment, error)
	DeleteComment(ctx context.Context, operatorID, commentID uuid.UUID) error
	GetActivityComments(ctx context.Context, activityID uuid.UUID, page, pageSize int) ([]*types.Comment, int64, error)
	ReportComment(ctx context.Context, reporterID, commentID uuid.UUID, reason string) (*types.CommentReport, error)
	ListPendingReports(ctx context.Context, operatorID uuid.UUID, page, pageSize int) ([]*types.CommentReport, int64, error)
}

type commentService struct {
	db           *gorm.DB
	log          *logger.Logger
	clk          clock.Clock
	policy       RolePolicy
	userRepo     repos.UserRepo
	activityRepo repos.ActivityRepo
	commentRepo  repos.CommentRepo
	reportRepo   repos.CommentReportRepo
}

func NewCommentService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	policy RolePolicy,
	userRepo repos.UserRepo,
	activityRepo repos.ActivityRepo,
	commentRepo repos.CommentRepo,
	reportRepo repos.CommentReportRepo,
) CommentService {
	return &commentService{
		db:           db,
		log:          log.With("service", "CommentService"),
		clk:          clk,
		policy:       policy,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		commentRepo:  commentRepo,
		reportRepo:   reportRepo,
	}
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apierr.Invalid("invalid_input", "comment content cannot be empty")
	}
	if len([]rune(content)) > maxCommentLength {
		return "", apierr.Invalid("invalid_input", "comment content exceeds %d characters", maxCommentLength)
	}
	return content, nil
}

func (cs *commentService) CreateComment(ctx context.Context, userID uuid.UUID, input CreateCommentInput) (*types.Comment, error) {
	content, err := validateCommentContent(input.Content)
	if err != nil {
		return nil, err
	}
	user, err := cs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("not_found", "user not found")
	}
	activity, err := cs.activityRepo.GetByID(ctx, nil, input.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return nil, apierr.NotFound("not_found", "activity not found")
	}
	if !activity.AllowComments {
		return nil, apierr.Invalid("comments_disabled", "comments are disabled for this activity")
	}

	if input.ParentID != nil {
		parent, err := cs.commentRepo.GetByID(ctx, nil, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent == nil || parent.IsDeleted {
			return nil, apierr.NotFound("not_found", "parent comment not found")
		}
		if parent.ActivityID != input.ActivityID {
			return nil, apierr.Invalid("invalid_input", "parent comment belongs to another activity")
		}
		// One level of nesting: replying to a reply is rejected.
		if parent.ParentID != nil {
			return nil, apierr.Invalid("invalid_input", "replies cannot be nested")
		}
	}

	comment := &types.Comment{
		ID:         uuid.New(),
		Content:    content,
		UserID:     userID,
		ActivityID: input.ActivityID,
		ParentID:   input.ParentID,
	}
	if err := cs.commentRepo.Create(ctx, nil, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.User = user
	return comment, nil
}

func (cs *commentService) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, content string) (*types.Comment, error) {
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if comment == nil || comment.IsDeleted {
		return nil, apierr.NotFound("not_found", "comment not found")
	}
	if comment.UserID != userID {
		return nil, apierr.Forbidden("permission_denied", "only the author may edit a comment")
	}
	if cs.clk.Now().Sub(comment.CreatedAt) > commentEditWindow {
		return nil, apierr.Invalid("edit_window_closed", "comments can only be edited within 30 minutes of posting")
	}
	if err := cs.commentRepo.Update(ctx, nil, commentID, map[string]interface{}{"content": content}); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment soft-deletes; a deleted top-level comment takes its
// direct replies with it.
func (cs *commentService) DeleteComment(ctx context.Context, operatorID, commentID uuid.UUID) error {
	operator, err := cs.userRepo.GetByID(ctx, nil, operatorID)
	if err != nil {
		return fmt.Errorf("load operator: %w", err)
	}
	if operator == nil {
		return apierr.NotFound("not_found", "operator not found")
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}
	if comment == nil || comment.IsDeleted {
		return apierr.NotFound("not_found", "comment not found")
	}
	if comment.UserID != operatorID && !cs.policy.CanModerateComments(operator) {
		return apierr.Forbidden("permission_denied", "only the author or an admin may delete a comment")
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.commentRepo.SoftDelete(ctx, tx, commentID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if comment.ParentID == nil {
			if _, err := cs.commentRepo.SoftDeleteReplies(ctx, tx, commentID); err != nil {
				return fmt.Errorf("delete replies: %w", err)
			}
		}
		return nil
	})
}

func (cs *commentService) GetActivityComments(ctx context.Context, activityID uuid.UUID, page, pageSize int) ([]*types.Comment, int64, error) {
	activity, err := cs.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		return nil, 0, fmt.Errorf("load activity: %w", err)
	}
	if activity == nil {
		return nil, 0, apierr.NotFound("not_found", "activity not found")
	}
	page, pageSize = normalizePage(page, pageSize)
	comments, total, err := cs.commentRepo.ListTopLevel(ctx, nil, activityID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	parentIDs := make([]uuid.UUID, 0, len(comments))
	byID := make(map[uuid.UUID]*types.Comment, len(comments))
	for _, comment := range comments {
		parentIDs = append(parentIDs, comment.ID)
		byID[comment.ID] = comment
	}
	replies, err := cs.commentRepo.ListReplies(ctx, nil, parentIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies: %w", err)
	}
	for _, reply := range replies {
		if parent, ok := byID[*reply.ParentID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
	}
	return comments, total, nil
}

func isSeriousReason(reason string) bool {
	lowered := strings.ToLower(reason)
	for _, keyword := range seriousReportReasons {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// ReportComment always records the report; a reason matching the serious
// keyword list additionally removes the comment on the spot.
func (cs *commentService) ReportComment(ctx context.Context, reporterID, commentID uuid.UUID, reason string) (*types.CommentReport, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apierr.Invalid("invalid_input", "a report reason is required")
	}
	reporter, err := cs.userRepo.GetByID(ctx, nil, reporterID)
	if err != nil {
		return nil, fmt.Errorf("load reporter: %w", err)
	}
	if reporter == nil {
		return nil, apierr.NotFound("not_found", "reporter not found")
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if comment == nil || comment.IsDeleted {
		return nil, apierr.NotFound("not_found", "comment not found")
	}

	serious := isSeriousReason(reason)
	report := &types.CommentReport{
		ID:          uuid.New(),
		CommentID:   commentID,
		ReporterID:  reporterID,
		Reason:      reason,
		AutoDeleted: serious,
		Status:      types.CommentReportStatusPending,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if serious {
			if dErr := cs.commentRepo.SoftDelete(ctx, tx, commentID); dErr != nil {
				return fmt.Errorf("remove reported comment: %w", dErr)
			}
			if comment.ParentID == nil {
				if _, dErr := cs.commentRepo.SoftDeleteReplies(ctx, tx, commentID); dErr != nil {
					return fmt.Errorf("remove replies of reported comment: %w", dErr)
				}
			}
			report.Status = types.CommentReportStatusResolved
		}
		return cs.reportRepo.Create(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	if serious {
		cs.log.Warn("Comment auto-removed on report", "comment_id", commentID)
	}
	return report, nil
}

// ListPendingReports is the moderation queue: reports awaiting manual
// review, oldest first. Admin only.
func (cs *commentService) ListPendingReports(ctx context.Context, operatorID uuid.UUID, page, pageSize int) ([]*types.CommentReport, int64, error) {
	operator, err := cs.userRepo.GetByID(ctx, nil, operatorID)
	if err != nil {
		return nil, 0, fmt.Errorf("load operator: %w", err)
	}
	if operator == nil {
		return nil, 0, apierr.NotFound("not_found", "operator not found")
	}
	if !cs.policy.CanModerateComments(operator) {
		return nil, 0, apierr.Forbidden("permission_denied", "admin role required")
	}
	page, pageSize = normalizePage(page, pageSize)
	reports, total, err := cs.reportRepo.ListPending(ctx, nil, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending reports: %w", err)
	}
	return reports, total, nil
}
