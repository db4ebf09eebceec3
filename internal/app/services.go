package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/clock"
	"github.com/yungbote/sporthub-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Venue        services.VenueService
	Activity     services.ActivityService
	Registration services.RegistrationService
	Comment      services.CommentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")
	clk := clock.System()
	policy := services.NewRolePolicy()
	return Services{
		Auth:         services.NewAuthService(db, log, clk, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:         services.NewUserService(db, log, r.User),
		Venue:        services.NewVenueService(db, log, policy, r.User, r.Venue),
		Activity:     services.NewActivityService(db, log, clk, policy, r.User, r.Venue, r.Activity, r.Registration),
		Registration: services.NewRegistrationService(db, log, clk, policy, r.User, r.Activity, r.Registration, statsCacheOrNil(clients)),
		Comment:      services.NewCommentService(db, log, clk, policy, r.User, r.Activity, r.Comment, r.CommentReport),
	}
}
