package tests

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// 5. BACK-OFFICE USERS
// ──────────────────────────────────────────────

func TestUserCreate_HashesPassword(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository())

	user, err := userService.Create(context.Background(), service.CreateUserRequest{
		Email:    "  Admin@Admin.com ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "admin@admin.com" {
		t.Errorf("expected lowercased trimmed email, got %q", user.Email)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
	if user.Role != domain.UserRoleViewer {
		t.Errorf("expected default role VIEWER, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
}

func TestUserCreate_DuplicateEmail_Conflicts(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository())
	ctx := context.Background()

	if _, err := userService.Create(ctx, service.CreateUserRequest{
		Email:    "admin@admin.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := userService.Create(ctx, service.CreateUserRequest{
		Email:    "ADMIN@admin.com",
		Password: "another-pass",
	})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestUserCreate_UnknownRole_Rejected(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository())

	_, err := userService.Create(context.Background(), service.CreateUserRequest{
		Email:    "admin@admin.com",
		Password: "s3cret-pass",
		Role:     domain.UserRole("SUPERUSER"),
	})
	if !errors.Is(err, service.ErrInvalidUserRole) {
		t.Fatalf("expected ErrInvalidUserRole, got %v", err)
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userService := service.NewUserService(userRepo)
	ctx := context.Background()

	if err := userService.SeedAdmin(ctx, "admin@admin.com", "s3cret-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := userService.SeedAdmin(ctx, "admin@admin.com", "s3cret-pass"); err != nil {
		t.Fatalf("unexpected error on second seed: %v", err)
	}

	if userRepo.CountUsers() != 1 {
		t.Fatalf("expected a single admin user, got %d", userRepo.CountUsers())
	}
	admin, err := userRepo.GetByEmail(ctx, "admin@admin.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.Role != domain.UserRoleAdmin {
		t.Errorf("expected role ADMIN, got %s", admin.Role)
	}
}

func TestUserUpdate_NewPassword_Rehashed(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository())
	ctx := context.Background()

	user, err := userService.Create(ctx, service.CreateUserRequest{
		Email:    "admin@admin.com",
		Password: "old-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newPassword := "new-pass"
	updated, err := userService.Update(ctx, user.ID, service.UpdateUserRequest{Password: &newPassword})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-pass")); err != nil {
		t.Errorf("updated hash does not verify the new password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("old-pass")); err == nil {
		t.Error("old password still verifies after update")
	}
}
