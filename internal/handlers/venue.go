package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/services"
)

type VenueHandler struct {
	venueService services.VenueService
}

func NewVenueHandler(venueService services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

func (vh *VenueHandler) Create(c *gin.Context) {
	var req services.CreateVenueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	venue, err := vh.venueService.CreateVenue(c.Request.Context(), rd.UserID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "venue created", venue)
}

func (vh *VenueHandler) BatchCreate(c *gin.Context) {
	var req struct {
		Venues []services.CreateVenueInput `json:"venues"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	results, err := vh.venueService.BatchCreateVenues(c.Request.Context(), rd.UserID, req.Venues)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, "batch processed", results)
}

func (vh *VenueHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid venue id")
		return
	}
	var req services.UpdateVenueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	venue, err := vh.venueService.UpdateVenue(c.Request.Context(), rd.UserID, id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "venue updated", venue)
}

func (vh *VenueHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid venue id")
		return
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := vh.venueService.SetVenueActive(c.Request.Context(), rd.UserID, id, *req.Active); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "venue updated", nil)
}

func (vh *VenueHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid venue id")
		return
	}
	venue, err := vh.venueService.GetVenue(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", venue)
}

func (vh *VenueHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	activeOnly := c.DefaultQuery("active_only", "false") == "true"
	venues, total, err := vh.venueService.ListVenues(c.Request.Context(), activeOnly, page, pageSize)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", gin.H{"venues": venues, "total": total, "page": page, "page_size": pageSize})
}
