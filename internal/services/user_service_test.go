package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/marketplace-service/internal/auth"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
)

func TestUserService_Update(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	user := env.mustCreateUser(t, "user@example.com", models.RoleLearner)
	other := env.mustCreateUser(t, "other@example.com", models.RoleLearner)
	admin := env.mustCreateUser(t, "admin@example.com", models.RoleAdmin)

	t.Run("SelfUpdateAllowed", func(t *testing.T) {
		email := "renamed@example.com"
		updated, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Email: &email}, user)
		if err != nil {
			t.Fatalf("Failed to update own account: %v", err)
		}
		if updated.Email != "renamed@example.com" {
			t.Errorf("Expected updated email, got %s", updated.Email)
		}
	})

	t.Run("OtherAccountForbidden", func(t *testing.T) {
		email := "stolen@example.com"
		if _, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Email: &email}, other); !IsForbidden(err) {
			t.Errorf("Expected a forbidden error, got %v", err)
		}
	})

	t.Run("SelfRoleChangeDenied", func(t *testing.T) {
		instructor := models.RoleInstructor
		_, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Role: &instructor}, user)
		if !errors.Is(err, ErrRoleChangeDenied) {
			t.Errorf("Expected ErrRoleChangeDenied, got %v", err)
		}
	})

	t.Run("AdminRoleChangeAllowed", func(t *testing.T) {
		instructor := models.RoleInstructor
		updated, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Role: &instructor}, admin)
		if err != nil {
			t.Fatalf("Failed to change role as admin: %v", err)
		}
		if updated.Role != models.RoleInstructor {
			t.Errorf("Expected instructor role, got %s", updated.Role)
		}
	})

	t.Run("PasswordRehashedOnChange", func(t *testing.T) {
		newPassword := "fresh-password"
		if _, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Password: &newPassword}, user); err != nil {
			t.Fatalf("Failed to change password: %v", err)
		}

		stored, _ := env.repo.User().GetByID(ctx, user.ID)
		if stored.Password == newPassword {
			t.Error("Password must be stored hashed")
		}
		if !auth.CheckPassword(stored.Password, newPassword) {
			t.Error("New password should verify against the stored hash")
		}
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		email := "other@example.com"
		if _, err := svc.Update(ctx, user.ID, &UserUpdateRequest{Email: &email}, user); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	user := env.mustCreateUser(t, "user@example.com", models.RoleLearner)
	admin := env.mustCreateUser(t, "admin@example.com", models.RoleAdmin)

	t.Run("NonAdminForbidden", func(t *testing.T) {
		if err := svc.Delete(ctx, user.ID, user); !IsForbidden(err) {
			t.Errorf("Expected a forbidden error, got %v", err)
		}
	})

	t.Run("AdminDeletes", func(t *testing.T) {
		if err := svc.Delete(ctx, user.ID, admin); err != nil {
			t.Fatalf("Failed to delete account: %v", err)
		}
		if _, err := svc.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		if err := svc.Delete(ctx, "missing-id", admin); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_List(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	env.mustCreateUser(t, "learn@example.com", models.RoleLearner)
	env.mustCreateUser(t, "teach@example.com", models.RoleInstructor)

	role := models.RoleInstructor
	resp, err := svc.List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if resp.Total != 1 || len(resp.Users) != 1 {
		t.Fatalf("Expected one instructor, got %d", len(resp.Users))
	}
	if resp.Users[0].Email != "teach@example.com" {
		t.Errorf("Expected the instructor account, got %s", resp.Users[0].Email)
	}
}

func TestProfileService_Update(t *testing.T) {
	env := newTestEnv(t)
	svc := env.profileService()
	ctx := context.Background()

	user := env.mustCreateUser(t, "user@example.com", models.RoleLearner)
	other := env.mustCreateUser(t, "other@example.com", models.RoleLearner)
	admin := env.mustCreateUser(t, "admin@example.com", models.RoleAdmin)

	bio := "Lifelong learner"

	t.Run("OwnerUpdates", func(t *testing.T) {
		profile, err := svc.Update(ctx, user.ID, &ProfileUpdateRequest{Bio: &bio}, user)
		if err != nil {
			t.Fatalf("Failed to update profile: %v", err)
		}
		if profile.Bio != bio {
			t.Errorf("Expected updated bio, got %s", profile.Bio)
		}
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		if _, err := svc.Update(ctx, user.ID, &ProfileUpdateRequest{Bio: &bio}, other); !IsForbidden(err) {
			t.Errorf("Expected a forbidden error, got %v", err)
		}
	})

	t.Run("AdminUpdatesAnyProfile", func(t *testing.T) {
		firstName := "Moderated"
		profile, err := svc.Update(ctx, user.ID, &ProfileUpdateRequest{FirstName: &firstName}, admin)
		if err != nil {
			t.Fatalf("Failed to update profile as admin: %v", err)
		}
		if profile.FirstName != "Moderated" {
			t.Errorf("Expected updated first name, got %s", profile.FirstName)
		}
		// Untouched fields survive a partial update.
		if profile.Bio != bio {
			t.Errorf("Expected bio to survive, got %q", profile.Bio)
		}
	})
}
