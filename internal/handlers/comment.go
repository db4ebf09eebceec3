package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (ch *CommentHandler) Create(c *gin.Context) {
	var req services.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil || req.ActivityID == uuid.Nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	comment, err := ch.commentService.CreateComment(c.Request.Context(), rd.UserID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "comment posted", comment)
}

func (ch *CommentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid comment id")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	comment, err := ch.commentService.UpdateComment(c.Request.Context(), rd.UserID, id, req.Content)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "comment updated", comment)
}

func (ch *CommentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid comment id")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.commentService.DeleteComment(c.Request.Context(), rd.UserID, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "comment deleted", nil)
}

func (ch *CommentHandler) ListByActivity(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	page, pageSize := pageParams(c)
	comments, total, err := ch.commentService.GetActivityComments(c.Request.Context(), activityID, page, pageSize)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", gin.H{"comments": comments, "total": total, "page": page, "page_size": pageSize})
}

func (ch *CommentHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid comment id")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	report, err := ch.commentService.ReportComment(c.Request.Context(), rd.UserID, id, req.Reason)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "report received", gin.H{
		"report_id":    report.ID,
		"auto_deleted": report.AutoDeleted,
	})
}

func (ch *CommentHandler) ListReports(c *gin.Context) {
	page, pageSize := pageParams(c)
	rd := requestdata.GetRequestData(c.Request.Context())
	reports, total, err := ch.commentService.ListPendingReports(c.Request.Context(), rd.UserID, page, pageSize)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", gin.H{"reports": reports, "total": total, "page": page, "page_size": pageSize})
}
