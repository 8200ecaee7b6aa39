package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return nil
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error { return nil }
func (m *mockUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error { return nil }

func validInput() RegisterInput {
	return RegisterInput{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "jobseeker",
	}
}

// --- テスト ---

// 登録時に平文パスワードが保存されないことを検証
func TestService_Register_NeverStoresPlaintext(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	user, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected user to be created")
	}
	if created.PasswordHash == "secret1" {
		t.Error("plaintext password was stored")
	}
	if !VerifyPassword(created.PasswordHash, "secret1") {
		t.Error("stored hash does not verify against the submitted password")
	}
	if user.Role != model.RoleJobseeker {
		t.Errorf("expected role jobseeker, got %s", user.Role)
	}
}

// 登録入力のバリデーションを検証
func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RegisterInput)
		field  string
	}{
		{"氏名が短い", func(in *RegisterInput) { in.FullName = "ab" }, "full_name"},
		{"メール形式不正", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"パスワードが短い", func(in *RegisterInput) { in.Password = "abc"; in.ConfirmPassword = "abc" }, "password"},
		{"確認パスワード不一致", func(in *RegisterInput) { in.ConfirmPassword = "different" }, "confirm_password"},
		{"不正なロール", func(in *RegisterInput) { in.Role = "superuser" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createCalled := false
			userRepo := &mockUserRepo{
				createFn: func(ctx context.Context, user *model.User) error {
					createCalled = true
					return nil
				},
			}
			svc := NewService(userRepo, &mockSessionRepo{}, ServiceConfig{})

			in := validInput()
			tt.modify(&in)

			_, err := svc.Register(context.Background(), in)
			var vErr *model.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, f := range vErr.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field error for %q, got %+v", tt.field, vErr.Fields)
			}
			if createCalled {
				t.Error("user must not be created when validation fails")
			}
		})
	}
}

// メールアドレス重複時にDUPLICATE_EMAILが返り、2人目が作成されないことを検証
func TestService_Register_DuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, ServiceConfig{})

	_, err := svc.Register(context.Background(), validInput())
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("expected code %s, got %s", model.ErrCodeDuplicateEmail, apiErr.Code)
	}
}

// ログイン成功でセッションが発行されることを検証
func TestService_Login_Success(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "jane@x.com" {
				return nil, nil
			}
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash, Role: model.RoleJobseeker}, nil
		},
	}
	var createdSession *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	user, session, err := svc.Login(context.Background(), "jane@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("expected user-1, got %s", user.ID)
	}
	if session == nil || createdSession == nil {
		t.Fatal("expected session to be created")
	}
	if session.UserID != "user-1" {
		t.Errorf("expected session for user-1, got %s", session.UserID)
	}
	if user.Role.DashboardPath() != "/jobseeker/dashboard" {
		t.Errorf("expected jobseeker dashboard, got %s", user.Role.DashboardPath())
	}
}

// 未登録メールとパスワード不一致が同一のエラーを返すことを検証
// （アカウント列挙の防止）
func TestService_Login_GenericFailure(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "known@x.com" {
				return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, ServiceConfig{})

	_, _, errUnknown := svc.Login(context.Background(), "unknown@x.com", "whatever")
	_, _, errWrongPw := svc.Login(context.Background(), "known@x.com", "wrong-password")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

// ログアウトがセッションを削除することを検証
func TestService_Logout(t *testing.T) {
	deleted := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{})

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deleted != "sess-1" {
		t.Errorf("expected session sess-1 to be deleted, got %q", deleted)
	}

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("expected error for empty session ID")
	}
}

// 期限切れ・不明セッションでGetCurrentUserがエラーを返すことを検証
func TestService_GetCurrentUser_SessionNotFound(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{})

	if _, err := svc.GetCurrentUser(context.Background(), "expired"); err == nil {
		t.Error("expected error for expired session")
	}
}
