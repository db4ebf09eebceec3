package services

import (
	"context"
	"testing"

	"github.com/yungbote/sporthub-backend/internal/requestdata"
	"github.com/yungbote/sporthub-backend/internal/types"
)

func TestRegisterUser_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		user types.User
	}{
		{"missing username", types.User{Email: "a@example.com", Password: "secret1"}},
		{"bad email", types.User{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", types.User{Username: "alice", Email: "a@example.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			_, err := env.auth.RegisterUser(ctx, &u)
			assertErrCode(t, err, "invalid_input")
		})
	}
}

func TestRegisterUser_ForcesUserRoleAndHashes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.auth.RegisterUser(ctx, &types.User{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
		Role:     types.RoleSuperAdmin, // must not be honored
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Role != types.RoleUser {
		t.Fatalf("expected role forced to user, got %s", created.Role)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", created.Email)
	}
	if created.Password == "secret1" {
		t.Fatalf("password stored in plain text")
	}

	_, err = env.auth.RegisterUser(ctx, &types.User{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret1",
	})
	assertErrCode(t, err, "name_taken")
}

func TestLoginUser_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.RegisterUser(ctx, &types.User{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := env.auth.LoginUser(ctx, "bob", "wrong-password")
	assertErrCode(t, err, "invalid_credentials")

	access, refresh, err := env.auth.LoginUser(ctx, "bob", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair, got %q / %q", access, refresh)
	}

	authedCtx, err := env.auth.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context from token: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("expected request data on context")
	}
	if rd.Role != string(types.RoleUser) {
		t.Fatalf("expected user role in claims, got %q", rd.Role)
	}
	if rd.RefreshToken != refresh {
		t.Fatalf("expected persisted refresh token attached to context")
	}
}

func TestRefreshUser_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.RegisterUser(ctx, &types.User{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := env.auth.LoginUser(ctx, "carol", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rdCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	newAccess, newRefresh, err := env.auth.RefreshUser(rdCtx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newAccess == "" || newRefresh == "" || newRefresh == refresh {
		t.Fatalf("expected a rotated token pair")
	}

	// The old refresh token is single-use.
	_, _, err = env.auth.RefreshUser(rdCtx)
	assertErrCode(t, err, "unauthorized")
}

func TestLogoutUser_RevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.RegisterUser(ctx, &types.User{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, _, err := env.auth.LoginUser(ctx, "dave", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rdCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{TokenString: access})
	if err := env.auth.LogoutUser(rdCtx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	var count int64
	if err := env.db.Model(&types.UserToken{}).Where("access_token = ?", access).Count(&count).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected token row removed on logout")
	}
}
