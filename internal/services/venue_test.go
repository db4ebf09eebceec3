package services

import (
	"context"
	"testing"

	"github.com/yungbote/sporthub-backend/internal/types"
)

func TestCreateVenue_RequiresAdminAndUniqueName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.mustUser(t, types.RoleUser)
	admin := env.mustUser(t, types.RoleAdmin)

	_, err := env.venue.CreateVenue(ctx, user.ID, CreateVenueInput{Name: "Center Court"})
	assertErrCode(t, err, "permission_denied")

	created, err := env.venue.CreateVenue(ctx, admin.ID, CreateVenueInput{Name: "  Center Court  ", Location: "Downtown"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	if created.Name != "Center Court" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if !created.IsActive {
		t.Fatalf("expected new venue active")
	}

	_, err = env.venue.CreateVenue(ctx, admin.ID, CreateVenueInput{Name: "Center Court"})
	assertErrCode(t, err, "name_taken")
}

func TestBatchCreateVenues_PartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)

	results, err := env.venue.BatchCreateVenues(ctx, admin.ID, []CreateVenueInput{
		{Name: "North Field"},
		{Name: "North Field"}, // duplicate within the batch
		{Name: ""},            // invalid
		{Name: "South Field"},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !results[0].Created || !results[3].Created {
		t.Fatalf("expected valid items created: %+v", results)
	}
	if results[1].Created || results[2].Created {
		t.Fatalf("expected duplicate and blank items rejected: %+v", results)
	}
	if results[1].Error == "" || results[2].Error == "" {
		t.Fatalf("expected per-item error messages")
	}

	var count int64
	if err := env.db.Model(&types.Venue{}).Count(&count).Error; err != nil {
		t.Fatalf("count venues: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 venues persisted, got %d", count)
	}
}

func TestUpdateVenue_NameCollisionExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	a, err := env.venue.CreateVenue(ctx, admin.ID, CreateVenueInput{Name: "Hall A"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	if _, err := env.venue.CreateVenue(ctx, admin.ID, CreateVenueInput{Name: "Hall B"}); err != nil {
		t.Fatalf("create venue: %v", err)
	}

	// Keeping its own name is not a collision.
	same := "Hall A"
	if _, err := env.venue.UpdateVenue(ctx, admin.ID, a.ID, UpdateVenueInput{Name: &same}); err != nil {
		t.Fatalf("no-op rename: %v", err)
	}

	taken := "Hall B"
	_, err = env.venue.UpdateVenue(ctx, admin.ID, a.ID, UpdateVenueInput{Name: &taken})
	assertErrCode(t, err, "name_taken")
}

func TestSetVenueActive_TogglesListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.mustUser(t, types.RoleAdmin)
	v, err := env.venue.CreateVenue(ctx, admin.ID, CreateVenueInput{Name: "Hidden Gym"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	if err := env.venue.SetVenueActive(ctx, admin.ID, v.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, total, err := env.venue.ListVenues(ctx, true, 1, 20)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if total != 0 || len(active) != 0 {
		t.Fatalf("expected inactive venue hidden from active list")
	}

	all, total, err := env.venue.ListVenues(ctx, false, 1, 20)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 1 || len(all) != 1 {
		t.Fatalf("expected inactive venue in full list")
	}
}
