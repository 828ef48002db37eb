package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned user id")
	}
	if user.PasswordHash == "secret-password" {
		t.Error("password stored in the clear")
	}

	logged, err := svc.Login(context.Background(), LoginInput{Username: "petra", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned user %d, expected %d", logged.ID, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Username: "petra", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "other@example.com",
		Password: "secret-password",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra2",
		Email:    "petra@example.com",
		Password: "secret-password",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "old-password",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Username: "petra", Password: "old-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted after change")
	}
	if _, err := svc.Login(context.Background(), LoginInput{Username: "petra", Password: "new-password"}); err != nil {
		t.Errorf("new password rejected after change: %v", err)
	}
}

func TestUsernameExists(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	taken, err := svc.UsernameExists(context.Background(), "petra")
	if err != nil {
		t.Fatalf("username check failed: %v", err)
	}
	if !taken {
		t.Error("expected existing username to be reported as taken")
	}

	taken, err = svc.UsernameExists(context.Background(), "  petra  ")
	if err != nil {
		t.Fatalf("username check failed: %v", err)
	}
	if !taken {
		t.Error("expected padded username to match after trimming")
	}

	taken, err = svc.UsernameExists(context.Background(), "someone-else")
	if err != nil {
		t.Fatalf("username check failed: %v", err)
	}
	if taken {
		t.Error("unknown username reported as taken")
	}

	taken, err = svc.UsernameExists(context.Background(), "   ")
	if err != nil {
		t.Fatalf("username check failed: %v", err)
	}
	if taken {
		t.Error("blank username reported as taken")
	}
}

func TestEmailExists(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "petra",
		Email:    "petra@example.com",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	inUse, err := svc.EmailExists(context.Background(), "petra@example.com")
	if err != nil {
		t.Fatalf("email check failed: %v", err)
	}
	if !inUse {
		t.Error("expected existing email to be reported as in use")
	}

	inUse, err = svc.EmailExists(context.Background(), "fresh@example.com")
	if err != nil {
		t.Fatalf("email check failed: %v", err)
	}
	if inUse {
		t.Error("unknown email reported as in use")
	}

	inUse, err = svc.EmailExists(context.Background(), "")
	if err != nil {
		t.Fatalf("email check failed: %v", err)
	}
	if inUse {
		t.Error("empty email reported as in use")
	}
}
