package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/types"
)

func TestGetUser_ReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.mustUser(t, types.RoleUser)
	profile, err := env.user.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.ID != u.ID || profile.Username != u.Username || profile.Role != string(types.RoleUser) {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	_, err = env.user.GetUser(ctx, uuid.New())
	assertErrCode(t, err, "not_found")
}

func TestUpdateAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.mustUser(t, types.RoleUser)

	err := env.user.UpdateAvatar(ctx, u.ID, "   ")
	assertErrCode(t, err, "invalid_input")

	if err := env.user.UpdateAvatar(ctx, u.ID, "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	profile, err := env.user.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("avatar not updated: %q", profile.AvatarURL)
	}
}
