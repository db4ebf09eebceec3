package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/types"
	"github.com/yungbote/sporthub-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "sporthub", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Venue{},
		&types.Activity{},
		&types.Registration{},
		&types.Comment{},
		&types.CommentReport{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct {
		name string
		stmt string
	}{
		{"fk_user_token_user_id", `ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"fk_activity_creator_id", `ALTER TABLE "activity" ADD CONSTRAINT "fk_activity_creator_id" FOREIGN KEY ("creator_id") REFERENCES "user"("id")`},
		{"fk_activity_venue_id", `ALTER TABLE "activity" ADD CONSTRAINT "fk_activity_venue_id" FOREIGN KEY ("venue_id") REFERENCES "venue"("id")`},
		{"fk_registration_user_id", `ALTER TABLE "registration" ADD CONSTRAINT "fk_registration_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"fk_registration_activity_id", `ALTER TABLE "registration" ADD CONSTRAINT "fk_registration_activity_id" FOREIGN KEY ("activity_id") REFERENCES "activity"("id") ON DELETE CASCADE`},
		{"fk_comment_user_id", `ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"fk_comment_activity_id", `ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_activity_id" FOREIGN KEY ("activity_id") REFERENCES "activity"("id") ON DELETE CASCADE`},
		{"fk_comment_parent_id", `ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_parent_id" FOREIGN KEY ("parent_id") REFERENCES "comment"("id") ON DELETE CASCADE`},
		{"fk_comment_report_comment_id", `ALTER TABLE "comment_report" ADD CONSTRAINT "fk_comment_report_comment_id" FOREIGN KEY ("comment_id") REFERENCES "comment"("id") ON DELETE CASCADE`},
	}
	for _, fk := range fks {
		var exists bool
		if err := s.db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, fk.name).Scan(&exists).Error; err != nil {
			return fmt.Errorf("Failed to check constraint %s: %w", fk.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(fk.stmt).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
