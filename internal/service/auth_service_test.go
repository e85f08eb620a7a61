package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/moodkeeper/MoodKeeper/internal/service"
)

type mockAuthRepo struct {
	UserExistsFunc   func(ctx context.Context, userKey string) (bool, error)
	RegisterUserFunc func(ctx context.Context, userKey, email, code string) error
	ConfirmUserFunc  func(ctx context.Context, userKey, code string) (bool, error)
	IsConfirmedFunc  func(ctx context.Context, userKey string) (bool, error)
	ResetCodeFunc    func(ctx context.Context, userKey, code string) error
}

func (m *mockAuthRepo) UserExists(ctx context.Context, userKey string) (bool, error) {
	return m.UserExistsFunc(ctx, userKey)
}
func (m *mockAuthRepo) RegisterUser(ctx context.Context, userKey, email, code string) error {
	return m.RegisterUserFunc(ctx, userKey, email, code)
}
func (m *mockAuthRepo) ConfirmUser(ctx context.Context, userKey, code string) (bool, error) {
	return m.ConfirmUserFunc(ctx, userKey, code)
}
func (m *mockAuthRepo) IsConfirmed(ctx context.Context, userKey string) (bool, error) {
	return m.IsConfirmedFunc(ctx, userKey)
}
func (m *mockAuthRepo) ResetCode(ctx context.Context, userKey, code string) error {
	return m.ResetCodeFunc(ctx, userKey, code)
}

func TestSignUp_NewUser(t *testing.T) {
	var gotKey, gotEmail, gotCode string
	repo := &mockAuthRepo{
		UserExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
		RegisterUserFunc: func(_ context.Context, userKey, email, code string) error {
			gotKey, gotEmail, gotCode = userKey, email, code
			return nil
		},
	}
	svc := service.NewAuthService(repo)

	code, err := svc.SignUp(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if len(code) != 6 || code != gotCode {
		t.Errorf("code = %q stored = %q", code, gotCode)
	}
	if gotKey != "jane_example_com" || gotEmail != "jane@example.com" {
		t.Errorf("stored key/email = %q/%q", gotKey, gotEmail)
	}
}

func TestSignUp_ConfirmedUserRejected(t *testing.T) {
	repo := &mockAuthRepo{
		UserExistsFunc:  func(context.Context, string) (bool, error) { return true, nil },
		IsConfirmedFunc: func(context.Context, string) (bool, error) { return true, nil },
	}
	svc := service.NewAuthService(repo)

	_, err := svc.SignUp(context.Background(), "jane@example.com")
	if !errors.Is(err, service.ErrUserExists) {
		t.Errorf("err = %v; want ErrUserExists", err)
	}
}

func TestConfirm_Mismatch(t *testing.T) {
	repo := &mockAuthRepo{
		ConfirmUserFunc: func(context.Context, string, string) (bool, error) { return false, nil },
	}
	svc := service.NewAuthService(repo)

	err := svc.Confirm(context.Background(), "jane@example.com", "000000")
	if !errors.Is(err, service.ErrCodeMismatch) {
		t.Errorf("err = %v; want ErrCodeMismatch", err)
	}
}

func TestLogin_States(t *testing.T) {
	repo := &mockAuthRepo{
		IsConfirmedFunc: func(context.Context, string) (bool, error) { return false, sql.ErrNoRows },
	}
	svc := service.NewAuthService(repo)
	if err := svc.Login(context.Background(), "ghost@example.com"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("err = %v; want ErrUserNotFound", err)
	}

	repo.IsConfirmedFunc = func(context.Context, string) (bool, error) { return false, nil }
	if err := svc.Login(context.Background(), "jane@example.com"); !errors.Is(err, service.ErrNotConfirmed) {
		t.Errorf("err = %v; want ErrNotConfirmed", err)
	}

	repo.IsConfirmedFunc = func(context.Context, string) (bool, error) { return true, nil }
	if err := svc.Login(context.Background(), "jane@example.com"); err != nil {
		t.Errorf("err = %v; want nil", err)
	}
}

func TestResendCode_AlreadyConfirmed(t *testing.T) {
	repo := &mockAuthRepo{
		IsConfirmedFunc: func(context.Context, string) (bool, error) { return true, nil },
	}
	svc := service.NewAuthService(repo)
	if _, err := svc.ResendCode(context.Background(), "jane@example.com"); !errors.Is(err, service.ErrAlreadySignedUp) {
		t.Errorf("err = %v; want ErrAlreadySignedUp", err)
	}
}
