package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
)

func registerRequest(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Jamie",
		LastName:  "Doe",
	}
}

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.Register(ctx, registerRequest("new@example.com"))
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		if resp.Token == "" {
			t.Error("Expected a token in the registration response")
		}
		if resp.Role != models.RoleLearner {
			t.Errorf("Expected default role learner, got %s", resp.Role)
		}
		if resp.Profile == nil || resp.Profile.FirstName != "Jamie" {
			t.Error("Expected the profile to be created with the account")
		}

		// The stored account must carry a hashed password, never plaintext.
		stored, err := env.repo.User().GetByEmail(ctx, "new@example.com")
		if err != nil {
			t.Fatalf("Failed to load stored user: %v", err)
		}
		if stored.Password == "password123" {
			t.Error("Password must be stored hashed")
		}
		if stored.ProfileID == nil {
			t.Error("Account should be linked to its profile")
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserRegistered {
			t.Errorf("Expected one %s event, got %v", events.EventUserRegistered, published)
		}
	})

	t.Run("EmailStoredLowercase", func(t *testing.T) {
		resp, err := svc.Register(ctx, registerRequest("MiXeD@Example.COM"))
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		if resp.Email != "mixed@example.com" {
			t.Errorf("Expected lowercased email, got %s", resp.Email)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		if _, err := svc.Register(ctx, registerRequest("dup@example.com")); err != nil {
			t.Fatalf("Failed to register first account: %v", err)
		}
		if _, err := svc.Register(ctx, registerRequest("dup@example.com")); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail, got %v", err)
		}
		// Duplicate detection is case-insensitive.
		if _, err := svc.Register(ctx, registerRequest("DUP@example.com")); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail for differently cased email, got %v", err)
		}
	})

	t.Run("AdminRoleRejected", func(t *testing.T) {
		req := registerRequest("boss@example.com")
		admin := models.RoleAdmin
		req.Role = &admin

		_, err := svc.Register(ctx, req)
		if !IsValidation(err) {
			t.Errorf("Expected a validation failure for admin registration, got %v", err)
		}
	})

	t.Run("InstructorRoleAccepted", func(t *testing.T) {
		req := registerRequest("prof@example.com")
		instructor := models.RoleInstructor
		req.Role = &instructor

		resp, err := svc.Register(ctx, req)
		if err != nil {
			t.Fatalf("Failed to register instructor: %v", err)
		}
		if resp.Role != models.RoleInstructor {
			t.Errorf("Expected instructor role, got %s", resp.Role)
		}
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		req := registerRequest("short@example.com")
		req.Password = "123"

		if _, err := svc.Register(ctx, req); !IsValidation(err) {
			t.Errorf("Expected a validation failure for short password, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("login@example.com")); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "login@example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		if resp.Token == "" {
			t.Error("Expected a token")
		}

		claims, err := env.issuer.Parse(resp.Token)
		if err != nil {
			t.Fatalf("Issued token does not verify: %v", err)
		}
		if claims.Subject != resp.ID {
			t.Errorf("Token subject %s does not match account %s", claims.Subject, resp.ID)
		}
	})

	t.Run("CaseInsensitiveEmail", func(t *testing.T) {
		if _, err := svc.Login(ctx, &LoginRequest{Email: "LOGIN@Example.com", Password: "password123"}); err != nil {
			t.Errorf("Expected case-insensitive login to succeed, got %v", err)
		}
	})

	// Unknown account and wrong password are indistinguishable to the caller.
	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "login@example.com", Password: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "password123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_Me(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	rel := env.relationshipService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", models.RoleInstructor)
	learner := env.mustCreateUser(t, "me@example.com", models.RoleLearner)
	course := env.mustCreateCourse(t, instructor.ID, "Go Basics", true)

	if err := rel.Enroll(ctx, learner.ID, course.ID); err != nil {
		t.Fatalf("Failed to enroll: %v", err)
	}

	resp, err := svc.Me(ctx, learner.ID)
	if err != nil {
		t.Fatalf("Failed to load own account: %v", err)
	}
	if resp.Email != "me@example.com" {
		t.Errorf("Expected own email, got %s", resp.Email)
	}
	if len(resp.EnrolledCourses) != 1 || resp.EnrolledCourses[0].ID != course.ID {
		t.Errorf("Expected one enrolled course detail, got %d", len(resp.EnrolledCourses))
	}

	if _, err := svc.Me(ctx, "missing-user"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
