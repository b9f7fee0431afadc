package service

import (
	"testing"

	"blogforge-backend/internal/models"
)

func newAuthFixture() (*AuthService, *memoryUserRepository, *memorySessionRepository) {
	userRepo := newMemoryUserRepository()
	sessionRepo := newMemorySessionRepository()
	return NewAuthService(userRepo, sessionRepo, "test-secret"), userRepo, sessionRepo
}

func TestRegisterHashesPasswordAndLoginRoundTrip(t *testing.T) {
	svc, _, sessionRepo := newAuthFixture()

	user, err := svc.Register(models.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "Str0ngPassword",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Password == "Str0ngPassword" {
		t.Fatalf("expected password to be hashed")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected email lower-cased, got %q", user.Email)
	}
	if user.Role != "user" {
		t.Fatalf("expected default role user, got %q", user.Role)
	}

	token, loggedIn, err := svc.Login(models.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "Str0ngPassword",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected same user back from login")
	}

	parsed, err := svc.ValidateToken(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("expected issued token to validate, err=%v", err)
	}

	sessions, err := sessionRepo.GetActiveByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetActiveByUserID returned error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one active session, got %d", len(sessions))
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPassword1",
	}, "127.0.0.1", "test-agent"); err == nil {
		t.Fatalf("expected login with wrong password to fail")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(models.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "Str0ngPassword",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := svc.Register(models.RegisterRequest{
		Username: "other", Email: "bob@example.com", Password: "Str0ngPassword",
	}); err == nil {
		t.Fatalf("expected duplicate email to be rejected")
	}

	if _, err := svc.Register(models.RegisterRequest{
		Username: "bob", Email: "fresh@example.com", Password: "Str0ngPassword",
	}); err == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc, _, _ := newAuthFixture()

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		if _, err := svc.Register(models.RegisterRequest{
			Username: "carol", Email: "carol@example.com", Password: password,
		}); err == nil {
			t.Fatalf("expected password %q to be rejected", password)
		}
	}
}

func TestChangePasswordRotatesHashAndTerminatesSessions(t *testing.T) {
	svc, _, sessionRepo := newAuthFixture()

	user, err := svc.Register(models.RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "Or1ginalPass",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "dave@example.com", Password: "Or1ginalPass",
	}, "127.0.0.1", "agent"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "WrongOld1", "Brand0NewPass"); err == nil {
		t.Fatalf("expected wrong old password to be rejected")
	}

	if err := svc.ChangePassword(user.ID, "Or1ginalPass", "Brand0NewPass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	sessions, _ := sessionRepo.GetActiveByUserID(user.ID)
	if len(sessions) != 0 {
		t.Fatalf("expected sessions terminated after password change, got %d", len(sessions))
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "dave@example.com", Password: "Or1ginalPass",
	}, "127.0.0.1", "agent"); err == nil {
		t.Fatalf("expected login with old password to fail")
	}
	if _, _, err := svc.Login(models.LoginRequest{
		Email: "dave@example.com", Password: "Brand0NewPass",
	}, "127.0.0.1", "agent"); err != nil {
		t.Fatalf("expected login with new password to succeed, got %v", err)
	}
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(models.RegisterRequest{
		Username: "eve", Email: "eve@example.com", Password: "Str0ngPassword",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.UpdateUserStatus(user.ID, false); err != nil {
		t.Fatalf("UpdateUserStatus returned error: %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "eve@example.com", Password: "Str0ngPassword",
	}, "127.0.0.1", "agent"); err == nil {
		t.Fatalf("expected deactivated account login to fail")
	}
}

func TestRefreshTokenRotatesSession(t *testing.T) {
	svc, _, sessionRepo := newAuthFixture()

	user, err := svc.Register(models.RegisterRequest{
		Username: "frank", Email: "frank@example.com", Password: "Str0ngPassword",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, _, err := svc.Login(models.LoginRequest{
		Email: "frank@example.com", Password: "Str0ngPassword",
	}, "127.0.0.1", "agent")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	newToken, refreshedUser, err := svc.RefreshToken(token)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}
	if refreshedUser.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, refreshedUser.ID)
	}
	if _, err := svc.ValidateToken(newToken); err != nil {
		t.Fatalf("refreshed token must validate: %v", err)
	}

	sessions, _ := sessionRepo.GetActiveByUserID(user.ID)
	if len(sessions) != 1 {
		t.Fatalf("expected exactly one active session, got %d", len(sessions))
	}
	if sessions[0].Token != newToken {
		t.Fatalf("expected session to carry the refreshed token")
	}

	if _, _, err := svc.RefreshToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}

	if err := svc.UpdateUserStatus(user.ID, false); err != nil {
		t.Fatalf("UpdateUserStatus returned error: %v", err)
	}
	if _, _, err := svc.RefreshToken(newToken); err == nil {
		t.Fatalf("expected refresh for deactivated account to fail")
	}
}
