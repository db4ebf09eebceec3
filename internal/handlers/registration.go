package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/services"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type RegistrationHandler struct {
	regService services.RegistrationService
}

func NewRegistrationHandler(regService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService}
}

func (rh *RegistrationHandler) Register(c *gin.Context) {
	var req struct {
		ActivityID uuid.UUID `json:"activity_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ActivityID == uuid.Nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	registration, err := rh.regService.RegisterActivity(c.Request.Context(), rd.UserID, req.ActivityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "registered for activity", registration)
}

func (rh *RegistrationHandler) Cancel(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := rh.regService.CancelRegistration(c.Request.Context(), rd.UserID, activityID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "registration cancelled", nil)
}

func (rh *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid registration id")
		return
	}
	var req struct {
		Status types.RegistrationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := rh.regService.UpdateRegistrationStatus(c.Request.Context(), rd.UserID, id, req.Status); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "registration updated", nil)
}

func (rh *RegistrationHandler) BatchCheckIn(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	var req struct {
		UserIDs []uuid.UUID `json:"user_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	results, err := rh.regService.BatchCheckIn(c.Request.Context(), rd.UserID, activityID, req.UserIDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "check-in processed", results)
}

func (rh *RegistrationHandler) MarkAbsent(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	marked, err := rh.regService.MarkAbsentUsers(c.Request.Context(), rd.UserID, activityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "absentees marked", gin.H{"marked": marked})
}

func (rh *RegistrationHandler) Stats(c *gin.Context) {
	var activityID *uuid.UUID
	if raw := c.Query("activity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "invalid activity id")
			return
		}
		activityID = &id
	}
	stats, err := rh.regService.GetRegistrationStats(c.Request.Context(), activityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", stats)
}
