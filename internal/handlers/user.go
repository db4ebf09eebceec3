package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	profile, err := uh.userService.GetUser(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "", profile)
}

func (uh *UserHandler) UpdateAvatar(c *gin.Context) {
	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := uh.userService.UpdateAvatar(c.Request.Context(), rd.UserID, req.AvatarURL); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, "avatar updated", nil)
}
