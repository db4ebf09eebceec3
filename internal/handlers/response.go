package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func RespondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// RespondServiceError maps a service failure to an HTTP status: expected
// failures carry their own status via apierr, anything else is a 500
// with a generic message so internals never leak.
func RespondServiceError(c *gin.Context, err error) {
	if ae := apierr.From(err); ae != nil {
		status := ae.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, Envelope{Success: false, Message: ae.Error(), Data: nil})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error", Data: nil})
}

func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message, Data: nil})
}
