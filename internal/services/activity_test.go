package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/sporthub-backend/internal/types"
)

func TestValidateActivityTimes(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)
	end := now.Add(26 * time.Hour)
	deadline := now.Add(20 * time.Hour)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		deadline time.Time
		wantCode string
	}{
		{"valid", start, end, deadline, ""},
		{"start after end", end, start, deadline, "invalid_time_order"},
		{"start equals end", start, start, deadline, "invalid_time_order"},
		{"deadline after start", start, end, start.Add(time.Minute), "invalid_time_order"},
		{"deadline in the past", start, end, now.Add(-time.Minute), "deadline_passed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateActivityTimes(now, tc.start, tc.end, tc.deadline)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			assertErrCode(t, err, tc.wantCode)
		})
	}
}

func TestCreateActivity_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.mustUser(t, types.RoleUser)
	venue := env.mustVenue(t)

	_, err := env.activity.CreateActivity(ctx, user.ID, CreateActivityInput{
		Title:                "Morning run",
		Type:                 types.ActivityTypeRunning,
		StartTime:            env.clk.Now().Add(24 * time.Hour),
		EndTime:              env.clk.Now().Add(25 * time.Hour),
		RegistrationDeadline: env.clk.Now().Add(20 * time.Hour),
		MaxParticipants:      10,
		VenueID:              venue.ID,
	})
	assertErrCode(t, err, "permission_denied")
}

func TestCreateActivity_RejectsInactiveVenue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	venue := env.mustVenue(t)
	if err := env.db.Model(&types.Venue{}).Where("id = ?", venue.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate venue: %v", err)
	}

	_, err := env.activity.CreateActivity(ctx, admin.ID, CreateActivityInput{
		Title:                "Evening swim",
		Type:                 types.ActivityTypeSwimming,
		StartTime:            env.clk.Now().Add(24 * time.Hour),
		EndTime:              env.clk.Now().Add(25 * time.Hour),
		RegistrationDeadline: env.clk.Now().Add(20 * time.Hour),
		MaxParticipants:      10,
		VenueID:              venue.ID,
	})
	assertErrCode(t, err, "venue_inactive")
}

func TestCreateActivity_AnnotatesDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	venue := env.mustVenue(t)

	detail, err := env.activity.CreateActivity(ctx, admin.ID, CreateActivityInput{
		Title:                "  5v5 basketball  ",
		Type:                 types.ActivityTypeBasketball,
		StartTime:            env.clk.Now().Add(24 * time.Hour),
		EndTime:              env.clk.Now().Add(26 * time.Hour),
		RegistrationDeadline: env.clk.Now().Add(20 * time.Hour),
		MaxParticipants:      10,
		VenueID:              venue.ID,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if detail.Title != "5v5 basketball" {
		t.Fatalf("expected trimmed title, got %q", detail.Title)
	}
	if detail.Status != types.ActivityStatusOpen {
		t.Fatalf("expected status open, got %s", detail.Status)
	}
	if detail.CreatorName != admin.Username || detail.VenueName != venue.Name {
		t.Fatalf("expected annotation, got creator=%q venue=%q", detail.CreatorName, detail.VenueName)
	}
	if !detail.AllowComments {
		t.Fatalf("expected comments allowed by default")
	}
}

func TestUpdateActivity_OnlyCreatorOrSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.mustUser(t, types.RoleAdmin)
	otherAdmin := env.mustUser(t, types.RoleAdmin)
	superAdmin := env.mustUser(t, types.RoleSuperAdmin)
	activity := env.mustActivity(t, creator, env.mustVenue(t), 10)

	title := "Renamed"
	_, err := env.activity.UpdateActivity(ctx, otherAdmin.ID, activity.ID, UpdateActivityInput{Title: &title})
	assertErrCode(t, err, "permission_denied")

	if _, err := env.activity.UpdateActivity(ctx, creator.ID, activity.ID, UpdateActivityInput{Title: &title}); err != nil {
		t.Fatalf("creator update: %v", err)
	}
	title2 := "Renamed again"
	if _, err := env.activity.UpdateActivity(ctx, superAdmin.ID, activity.ID, UpdateActivityInput{Title: &title2}); err != nil {
		t.Fatalf("super admin update: %v", err)
	}
}

func TestUpdateActivity_RejectsTerminalStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, creator, env.mustVenue(t), 10)
	env.setActivityStatus(t, activity.ID, types.ActivityStatusEnded)

	title := "Too late"
	_, err := env.activity.UpdateActivity(ctx, creator.ID, activity.ID, UpdateActivityInput{Title: &title})
	assertErrCode(t, err, "activity_closed")
}

func TestUpdateActivityStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.mustUser(t, types.RoleAdmin)
	activity := env.mustActivity(t, creator, env.mustVenue(t), 10)

	// Cannot start before the start time.
	err := env.activity.UpdateActivityStatus(ctx, creator.ID, activity.ID, types.ActivityStatusOngoing)
	assertErrCode(t, err, "not_started")

	env.clk.Advance(24 * time.Hour)
	if err := env.activity.UpdateActivityStatus(ctx, creator.ID, activity.ID, types.ActivityStatusOngoing); err != nil {
		t.Fatalf("start activity: %v", err)
	}

	// Past the deadline, reopening is refused.
	err = env.activity.UpdateActivityStatus(ctx, creator.ID, activity.ID, types.ActivityStatusOpen)
	assertErrCode(t, err, "deadline_passed")

	if err := env.activity.UpdateActivityStatus(ctx, creator.ID, activity.ID, types.ActivityStatusEnded); err != nil {
		t.Fatalf("end activity: %v", err)
	}

	// An ended activity cannot be cancelled.
	err = env.activity.UpdateActivityStatus(ctx, creator.ID, activity.ID, types.ActivityStatusCancelled)
	assertErrCode(t, err, "activity_closed")
}

func TestAutoUpdateActivityStatus_PromotesByTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.mustUser(t, types.RoleAdmin)
	venue := env.mustVenue(t)
	activity := env.mustActivity(t, creator, venue, 10)

	// Past the deadline: open becomes closed.
	env.clk.Advance(21 * time.Hour)
	result, err := env.activity.AutoUpdateActivityStatus(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Closed != 1 {
		t.Fatalf("expected 1 closed, got %d", result.Closed)
	}
	if got := env.reloadActivity(t, activity.ID); got.Status != types.ActivityStatusClosed {
		t.Fatalf("expected closed, got %s", got.Status)
	}

	// Past the start time: closed becomes ongoing.
	env.clk.Advance(4 * time.Hour)
	result, err = env.activity.AutoUpdateActivityStatus(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Started != 1 {
		t.Fatalf("expected 1 started, got %d", result.Started)
	}

	// Past the end time: ongoing becomes ended and the id is reported.
	env.clk.Advance(3 * time.Hour)
	result, err = env.activity.AutoUpdateActivityStatus(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(result.Ended) != 1 || result.Ended[0] != activity.ID {
		t.Fatalf("expected activity reported ended, got %v", result.Ended)
	}
	if got := env.reloadActivity(t, activity.ID); got.Status != types.ActivityStatusEnded {
		t.Fatalf("expected ended, got %s", got.Status)
	}
}
