package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Venue         repos.VenueRepo
	Activity      repos.ActivityRepo
	Registration  repos.RegistrationRepo
	Comment       repos.CommentRepo
	CommentReport repos.CommentReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Venue:         repos.NewVenueRepo(db, log),
		Activity:      repos.NewActivityRepo(db, log),
		Registration:  repos.NewRegistrationRepo(db, log),
		Comment:       repos.NewCommentRepo(db, log),
		CommentReport: repos.NewCommentReportRepo(db, log),
	}
}
