package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/types"
)

func TestRolePolicy_IsAdmin(t *testing.T) {
	policy := NewRolePolicy()

	cases := []struct {
		name string
		user *types.User
		want bool
	}{
		{"nil user", nil, false},
		{"regular user", &types.User{Role: types.RoleUser}, false},
		{"admin", &types.User{Role: types.RoleAdmin}, true},
		{"super admin", &types.User{Role: types.RoleSuperAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.IsAdmin(tc.user); got != tc.want {
				t.Fatalf("IsAdmin = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRolePolicy_CanManageActivity(t *testing.T) {
	policy := NewRolePolicy()

	creatorID := uuid.New()
	activity := &types.Activity{CreatorID: creatorID}

	creator := &types.User{ID: creatorID, Role: types.RoleAdmin}
	if !policy.CanManageActivity(creator, activity) {
		t.Fatalf("creator should manage their own activity")
	}

	otherAdmin := &types.User{ID: uuid.New(), Role: types.RoleAdmin}
	if policy.CanManageActivity(otherAdmin, activity) {
		t.Fatalf("an unrelated admin must not manage the activity")
	}

	superAdmin := &types.User{ID: uuid.New(), Role: types.RoleSuperAdmin}
	if !policy.CanManageActivity(superAdmin, activity) {
		t.Fatalf("a super admin manages any activity")
	}

	if policy.CanManageActivity(nil, activity) || policy.CanManageActivity(creator, nil) {
		t.Fatalf("nil inputs must be denied")
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, pageSize int
		wantPage       int
		wantSize       int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 20, 2, 20},
		{1, 101, 1, 10},
		{1, 100, 1, 100},
	}
	for _, tc := range cases {
		page, size := normalizePage(tc.page, tc.pageSize)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.pageSize, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestIsSeriousReason(t *testing.T) {
	serious := []string{"this is Gambling spam", "存在赌博信息", "harassment in replies"}
	for _, reason := range serious {
		if !isSeriousReason(reason) {
			t.Fatalf("expected %q flagged serious", reason)
		}
	}
	mild := []string{"off topic", "duplicate post", ""}
	for _, reason := range mild {
		if isSeriousReason(reason) {
			t.Fatalf("expected %q not flagged", reason)
		}
	}
}
