package services

import (
	"context"
	"errors"
	"testing"

	"birs-backend/internal/auth"
	"birs-backend/internal/config"
	"birs-backend/internal/models"
)

func newTestUserService() (*UserService, *fakeUserStore, *fakePerformanceStore) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"

	users := &fakeUserStore{}
	perf := newFakePerformanceStore()
	return NewUserService(users, perf, auth.NewJWTManager(cfg)), users, perf
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestUserService()
	hash, _ := auth.HashPassword("secret123")
	users.Create(context.Background(), &models.User{Username: "ada", PasswordHash: hash, Role: models.RoleATO})

	resp, err := svc.Login(context.Background(), &models.LoginRequest{Username: "ada", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.User.Username != "ada" {
		t.Errorf("user = %+v", resp.User)
	}

	if _, err := svc.Login(context.Background(), &models.LoginRequest{Username: "ada", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), &models.LoginRequest{Username: "ghost", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateATOProvisionsTarget(t *testing.T) {
	svc, _, perf := newTestUserService()

	user, err := svc.CreateATO(context.Background(), 99, &models.CreateATORequest{
		Username:     "bello",
		Password:     "pass12345",
		LGA:          "Kuje",
		TargetAmount: 250000,
	})
	if err != nil {
		t.Fatalf("CreateATO: %v", err)
	}
	if user.Role != models.RoleATO {
		t.Errorf("role = %s, want ato", user.Role)
	}
	target, err := perf.GetTarget(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetTarget: %v", err)
	}
	if target.TargetAmount != 250000 || target.SetBy != 99 {
		t.Errorf("target = %+v", target)
	}
}

func TestCreateATOWithoutTarget(t *testing.T) {
	svc, _, perf := newTestUserService()
	user, err := svc.CreateATO(context.Background(), 99, &models.CreateATORequest{
		Username: "chidi", Password: "pass12345",
	})
	if err != nil {
		t.Fatalf("CreateATO: %v", err)
	}
	if _, err := perf.GetTarget(context.Background(), user.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("zero target should not create a row, got %v", err)
	}
}

func TestCreateRejectsInvalidRole(t *testing.T) {
	svc, _, _ := newTestUserService()
	if _, err := svc.Create(context.Background(), &models.CreateUserRequest{
		Username: "x", Password: "y", Role: "overlord",
	}); err == nil {
		t.Error("invalid role should fail")
	}
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestUserService()
	req := &models.CreateUserRequest{Username: "ada", Password: "pass12345", Role: models.RoleUser}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestDeleteForbidsSelf(t *testing.T) {
	svc, users, _ := newTestUserService()
	users.Create(context.Background(), &models.User{Username: "boss", Role: models.RoleAdmin})

	if err := svc.Delete(context.Background(), 1, 1); !errors.Is(err, models.ErrSelfDelete) {
		t.Errorf("err = %v, want ErrSelfDelete", err)
	}

	users.Create(context.Background(), &models.User{Username: "other", Role: models.RoleUser})
	if err := svc.Delete(context.Background(), 1, 2); err != nil {
		t.Errorf("deleting another user: %v", err)
	}
}

// restrictedUserStore simulates the foreign key keeping a user's entries.
type restrictedUserStore struct {
	fakeUserStore
}

func (s *restrictedUserStore) Delete(ctx context.Context, id int) error {
	return models.ErrUserHasEntries
}

func TestDeleteUserWithEntries(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"

	users := &restrictedUserStore{}
	svc := NewUserService(users, newFakePerformanceStore(), auth.NewJWTManager(cfg))
	users.Create(context.Background(), &models.User{Username: "ada", Role: models.RoleATO})

	if err := svc.Delete(context.Background(), 99, 1); !errors.Is(err, models.ErrUserHasEntries) {
		t.Errorf("err = %v, want ErrUserHasEntries", err)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, users, _ := newTestUserService()
	hash, _ := auth.HashPassword("old")
	users.Create(context.Background(), &models.User{Username: "ada", PasswordHash: hash, Role: models.RoleUser})

	updated, err := svc.Update(context.Background(), 1, &models.UpdateUserRequest{Role: models.RoleReviewer})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != models.RoleReviewer {
		t.Errorf("role = %s, want reviewer", updated.Role)
	}
	if updated.Username != "ada" {
		t.Errorf("username changed unexpectedly to %s", updated.Username)
	}
	if !auth.VerifyPassword(updated.PasswordHash, "old") {
		t.Error("password hash changed without a new password")
	}
}
