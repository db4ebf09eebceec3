package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
	"github.com/yungbote/sporthub-backend/internal/repos"
	"github.com/yungbote/sporthub-backend/internal/types"
)

var testDBCounter atomic.Int64

// testClock is an adjustable clock so deadline and window rules can be
// exercised without sleeping.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	db  *gorm.DB
	clk *testClock

	auth         AuthService
	user         UserService
	venue        VenueService
	activity     ActivityService
	registration RegistrationService
	comment      CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	// A named shared-cache in-memory database so every pooled
	// connection sees the same tables.
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Venue{},
		&types.Activity{},
		&types.Registration{},
		&types.Comment{},
		&types.CommentReport{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	// Anchored at wall time so issued JWTs validate against real
	// clocks; tests only ever move it forward relative to this.
	clk := &testClock{t: time.Now().UTC()}
	policy := NewRolePolicy()

	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	venueRepo := repos.NewVenueRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	regRepo := repos.NewRegistrationRepo(db, log)
	commentRepo := repos.NewCommentRepo(db, log)
	reportRepo := repos.NewCommentReportRepo(db, log)

	return &testEnv{
		db:           db,
		clk:          clk,
		auth:         NewAuthService(db, log, clk, userRepo, tokenRepo, "test-secret", time.Hour, 24*time.Hour),
		user:         NewUserService(db, log, userRepo),
		venue:        NewVenueService(db, log, policy, userRepo, venueRepo),
		activity:     NewActivityService(db, log, clk, policy, userRepo, venueRepo, activityRepo, regRepo),
		registration: NewRegistrationService(db, log, clk, policy, userRepo, activityRepo, regRepo, nil),
		comment:      NewCommentService(db, log, clk, policy, userRepo, activityRepo, commentRepo, reportRepo),
	}
}

var fixtureCounter atomic.Int64

func (e *testEnv) mustUser(t *testing.T, role types.Role) *types.User {
	t.Helper()
	n := fixtureCounter.Add(1)
	u := &types.User{
		ID:        uuid.New(),
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  "not-a-real-hash",
		Role:      role,
		CreatedAt: e.clk.Now(),
		UpdatedAt: e.clk.Now(),
	}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user fixture: %v", err)
	}
	return u
}

func (e *testEnv) mustVenue(t *testing.T) *types.Venue {
	t.Helper()
	v := &types.Venue{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("Court %d", fixtureCounter.Add(1)),
		Location:  "1 Main St",
		IsActive:  true,
		CreatedAt: e.clk.Now(),
		UpdatedAt: e.clk.Now(),
	}
	if err := e.db.Create(v).Error; err != nil {
		t.Fatalf("create venue fixture: %v", err)
	}
	return v
}

// mustActivity inserts an open activity starting a day out with a
// registration deadline four hours before start.
func (e *testEnv) mustActivity(t *testing.T, creator *types.User, venue *types.Venue, maxParticipants int) *types.Activity {
	t.Helper()
	now := e.clk.Now()
	a := &types.Activity{
		ID:                   uuid.New(),
		Title:                fmt.Sprintf("Pickup game %d", fixtureCounter.Add(1)),
		Type:                 types.ActivityTypeBasketball,
		Status:               types.ActivityStatusOpen,
		StartTime:            now.Add(24 * time.Hour),
		EndTime:              now.Add(26 * time.Hour),
		RegistrationDeadline: now.Add(20 * time.Hour),
		MaxParticipants:      maxParticipants,
		AllowComments:        true,
		CreatorID:            creator.ID,
		VenueID:              venue.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := e.db.Create(a).Error; err != nil {
		t.Fatalf("create activity fixture: %v", err)
	}
	return a
}

func (e *testEnv) setActivityStatus(t *testing.T, id uuid.UUID, status types.ActivityStatus) {
	t.Helper()
	if err := e.db.Model(&types.Activity{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		t.Fatalf("set activity status: %v", err)
	}
}

func (e *testEnv) reloadActivity(t *testing.T, id uuid.UUID) *types.Activity {
	t.Helper()
	var a types.Activity
	if err := e.db.First(&a, "id = ?", id).Error; err != nil {
		t.Fatalf("reload activity: %v", err)
	}
	return &a
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	ae := apierr.From(err)
	if ae == nil {
		t.Fatalf("expected api error with code %q, got %v", code, err)
	}
	if ae.Code != code {
		t.Fatalf("expected error code %q, got %q (%v)", code, ae.Code, err)
	}
}

func (e *testEnv) reloadRegistration(t *testing.T, userID, activityID uuid.UUID) *types.Registration {
	t.Helper()
	var r types.Registration
	if err := e.db.First(&r, "user_id = ? AND activity_id = ?", userID, activityID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	return &r
}
