package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/types"
)

func (e *testEnv) mustComment(t *testing.T, user *types.User, activityID uuid.UUID, parentID *uuid.UUID) *types.Comment {
	t.Helper()
	c := &types.Comment{
		ID:         uuid.New(),
		Content:    "see you there",
		UserID:     user.ID,
		ActivityID: activityID,
		ParentID:   parentID,
		CreatedAt:  e.clk.Now(),
		UpdatedAt:  e.clk.Now(),
	}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("create comment fixture: %v", err)
	}
	return c
}

func TestValidateCommentContent(t *testing.T) {
	if _, err := validateCommentContent("   "); err == nil {
		t.Fatalf("expected blank content rejected")
	}
	if _, err := validateCommentContent(strings.Repeat("x", maxCommentLength+1)); err == nil {
		t.Fatalf("expected over-length content rejected")
	}
	// Length is counted in runes, not bytes.
	got, err := validateCommentContent(strings.Repeat("好", maxCommentLength))
	if err != nil {
		t.Fatalf("expected max-length multibyte content accepted: %v", err)
	}
	if got != strings.Repeat("好", maxCommentLength) {
		t.Fatalf("content altered")
	}
	got, err = validateCommentContent("  hi  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hi" {
		t.Fatalf("expected trimmed content, got %q", got)
	}
}

func TestCreateComment_DisabledAndNesting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	user := env.mustUser(t, types.RoleUser)

	top, err := env.comment.CreateComment(ctx, user.ID, CreateCommentInput{
		ActivityID: activity.ID,
		Content:    "who is coming?",
	})
	if err != nil {
		t.Fatalf("create top-level comment: %v", err)
	}

	reply, err := env.comment.CreateComment(ctx, user.ID, CreateCommentInput{
		ActivityID: activity.ID,
		ParentID:   &top.ID,
		Content:    "me",
	})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	// Replying to a reply is refused.
	_, err = env.comment.CreateComment(ctx, user.ID, CreateCommentInput{
		ActivityID: activity.ID,
		ParentID:   &reply.ID,
		Content:    "nested",
	})
	assertErrCode(t, err, "invalid_input")

	// Parent must belong to the same activity.
	other := env.mustActivity(t, admin, env.mustVenue(t), 10)
	_, err = env.comment.CreateComment(ctx, user.ID, CreateCommentInput{
		ActivityID: other.ID,
		ParentID:   &top.ID,
		Content:    "crossed wires",
	})
	assertErrCode(t, err, "invalid_input")

	// Comments can be switched off per activity.
	if err := env.db.Model(&types.Activity{}).Where("id = ?", activity.ID).
		Update("allow_comments", false).Error; err != nil {
		t.Fatalf("disable comments: %v", err)
	}
	_, err = env.comment.CreateComment(ctx, user.ID, CreateCommentInput{
		ActivityID: activity.ID,
		Content:    "too late",
	})
	assertErrCode(t, err, "comments_disabled")
}

func TestUpdateComment_EditWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	author := env.mustUser(t, types.RoleUser)
	other := env.mustUser(t, types.RoleUser)
	comment := env.mustComment(t, author, activity.ID, nil)

	_, err := env.comment.UpdateComment(ctx, other.ID, comment.ID, "hijacked")
	assertErrCode(t, err, "permission_denied")

	env.clk.Advance(29 * time.Minute)
	updated, err := env.comment.UpdateComment(ctx, author.ID, comment.ID, "edited in time")
	if err != nil {
		t.Fatalf("edit inside window: %v", err)
	}
	if updated.Content != "edited in time" {
		t.Fatalf("content not updated: %q", updated.Content)
	}

	env.clk.Advance(2 * time.Minute)
	_, err = env.comment.UpdateComment(ctx, author.ID, comment.ID, "too late")
	assertErrCode(t, err, "edit_window_closed")
}

func TestDeleteComment_CascadesAndChecksRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	author := env.mustUser(t, types.RoleUser)
	bystander := env.mustUser(t, types.RoleUser)

	top := env.mustComment(t, author, activity.ID, nil)
	reply := env.mustComment(t, bystander, activity.ID, &top.ID)

	err := env.comment.DeleteComment(ctx, bystander.ID, top.ID)
	assertErrCode(t, err, "permission_denied")

	if err := env.comment.DeleteComment(ctx, admin.ID, top.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	var got types.Comment
	if err := env.db.First(&got, "id = ?", top.ID).Error; err != nil {
		t.Fatalf("reload top comment: %v", err)
	}
	if !got.IsDeleted {
		t.Fatalf("expected top comment soft-deleted")
	}
	got = types.Comment{}
	if err := env.db.First(&got, "id = ?", reply.ID).Error; err != nil {
		t.Fatalf("reload reply: %v", err)
	}
	if !got.IsDeleted {
		t.Fatalf("expected reply soft-deleted with its parent")
	}
}

func TestGetActivityComments_ThreadsReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	author := env.mustUser(t, types.RoleUser)

	first := env.mustComment(t, author, activity.ID, nil)
	env.clk.Advance(time.Minute)
	second := env.mustComment(t, author, activity.ID, nil)
	env.clk.Advance(time.Minute)
	reply := env.mustComment(t, author, activity.ID, &first.ID)

	comments, total, err := env.comment.GetActivityComments(ctx, activity.ID, 1, 20)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", total)
	}
	// Newest top-level first.
	if comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Fatalf("unexpected order: %v, %v", comments[0].ID, comments[1].ID)
	}
	if len(comments[1].Replies) != 1 || comments[1].Replies[0].ID != reply.ID {
		t.Fatalf("expected reply attached to its parent")
	}
}

func TestReportComment_SeriousReasonAutoRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	author := env.mustUser(t, types.RoleUser)
	reporter := env.mustUser(t, types.RoleUser)

	mild := env.mustComment(t, author, activity.ID, nil)
	report, err := env.comment.ReportComment(ctx, reporter.ID, mild.ID, "off topic")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.AutoDeleted || report.Status != types.CommentReportStatusPending {
		t.Fatalf("mild report should stay pending: %+v", report)
	}
	var got types.Comment
	if err := env.db.First(&got, "id = ?", mild.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if got.IsDeleted {
		t.Fatalf("mild report must not remove the comment")
	}

	nasty := env.mustComment(t, author, activity.ID, nil)
	report, err = env.comment.ReportComment(ctx, reporter.ID, nasty.ID, "obvious Gambling spam")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.AutoDeleted || report.Status != types.CommentReportStatusResolved {
		t.Fatalf("serious report should auto-resolve: %+v", report)
	}
	got = types.Comment{}
	if err := env.db.First(&got, "id = ?", nasty.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if !got.IsDeleted {
		t.Fatalf("serious report should remove the comment")
	}
}

func TestListPendingReports_QueueAndPermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, admin, env.mustVenue(t), 10)
	author := env.mustUser(t, types.RoleUser)
	reporter := env.mustUser(t, types.RoleUser)

	mild := env.mustComment(t, author, activity.ID, nil)
	if _, err := env.comment.ReportComment(ctx, reporter.ID, mild.ID, "off topic"); err != nil {
		t.Fatalf("report: %v", err)
	}
	nasty := env.mustComment(t, author, activity.ID, nil)
	if _, err := env.comment.ReportComment(ctx, reporter.ID, nasty.ID, "gambling links"); err != nil {
		t.Fatalf("report: %v", err)
	}

	_, _, err := env.comment.ListPendingReports(ctx, reporter.ID, 1, 10)
	assertErrCode(t, err, "permission_denied")

	reports, total, err := env.comment.ListPendingReports(ctx, admin.ID, 1, 10)
	if err != nil {
		t.Fatalf("list pending reports: %v", err)
	}
	// The auto-resolved report is already handled; only the mild one
	// waits for review.
	if total != 1 || len(reports) != 1 {
		t.Fatalf("expected one pending report, got total=%d len=%d", total, len(reports))
	}
	if reports[0].CommentID != mild.ID {
		t.Fatalf("expected the mild report queued, got comment %s", reports[0].CommentID)
	}
}
