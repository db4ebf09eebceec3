package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/repos"
	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/services"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type ActivityHandler struct {
	activityService services.ActivityService
	regService      services.RegistrationService
}

func NewActivityHandler(activityService services.ActivityService, regService services.RegistrationService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, regService: regService}
}

func (ah *ActivityHandler) Create(c *gin.Context) {
	var req services.CreateActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	detail, err := ah.activityService.CreateActivity(c.Request.Context(), rd.UserID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "activity created", detail)
}

func (ah *ActivityHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	detail, err := ah.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", detail)
}

func (ah *ActivityHandler) List(c *gin.Context) {
	filters := repos.ActivityFilters{
		Status: types.ActivityStatus(c.Query("status")),
		Type:   types.ActivityType(c.Query("type")),
	}
	if raw := c.Query("venue_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "invalid venue id")
			return
		}
		filters.VenueID = &id
	}
	if raw := c.Query("creator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "invalid creator id")
			return
		}
		filters.CreatorID = &id
	}
	page, pageSize := pageParams(c)
	details, total, err := ah.activityService.GetActivities(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", gin.H{"activities": details, "total": total, "page": page, "page_size": pageSize})
}

func (ah *ActivityHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	var req services.UpdateActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	detail, err := ah.activityService.UpdateActivity(c.Request.Context(), rd.UserID, id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "activity updated", detail)
}

func (ah *ActivityHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid activity id")
		return
	}
	var req struct {
		Status types.ActivityStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ah.activityService.UpdateActivityStatus(c.Request.Context(), rd.UserID, id, req.Status); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "status updated", nil)
}

// Sweep triggers one lifecycle pass on demand, for cron-style callers.
// Same sequence as the ticker: promote statuses, then mark absentees on
// whatever just ended, or those registrations stay confirmed forever.
func (ah *ActivityHandler) Sweep(c *gin.Context) {
	result, err := ah.activityService.AutoUpdateActivityStatus(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if len(result.Ended) > 0 {
		if err := ah.regService.MarkAbsentForEnded(c.Request.Context(), result.Ended); err != nil {
			RespondServiceError(c, err)
			return
		}
	}
	RespondOK(c, "sweep complete", result)
}
