package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sporthub-backend/internal/handlers"
	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/server"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Venue        *handlers.VenueHandler
	Activity     *handlers.ActivityHandler
	Registration *handlers.RegistrationHandler
	Comment      *handlers.CommentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(services.Auth),
		User:         handlers.NewUserHandler(services.User),
		Venue:        handlers.NewVenueHandler(services.Venue),
		Activity:     handlers.NewActivityHandler(services.Activity, services.Registration),
		Registration: handlers.NewRegistrationHandler(services.Registration),
		Comment:      handlers.NewCommentHandler(services.Comment),
	}
}

func wireRouter(h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:      mw.Auth,
		AuthHandler:         h.Auth,
		UserHandler:         h.User,
		VenueHandler:        h.Venue,
		ActivityHandler:     h.Activity,
		RegistrationHandler: h.Registration,
		CommentHandler:      h.Comment,
	})
}
