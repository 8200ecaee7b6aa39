package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.User, error)
	updateRoleFn func(ctx context.Context, userID string, role model.Role) error
	deleteByIDFn func(ctx context.Context, id string) error
	findAllFn    func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return nil
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, userID, role)
	}
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

type mockSessionRepo struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error { return nil }
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error { return nil }
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockJobRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Job, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockJobRepo) ListPage(ctx context.Context, limit, offset int) ([]*model.Job, int, error) {
	return nil, 0, nil
}
func (m *mockJobRepo) Search(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) FindByEmployerID(ctx context.Context, employerID string) ([]*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) FindAll(ctx context.Context) ([]*model.Job, error) { return nil, nil }

// --- テスト ---

// ユーザー削除がセッション失効を伴うことを検証
func TestService_DeleteUser(t *testing.T) {
	deletedUser := ""
	deletedSessions := ""
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "target@example.com", Role: model.RoleEmployer}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedUser = id
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			deletedSessions = userID
			return nil
		},
	}
	svc := NewService(userRepo, &mockJobRepo{}, sessionRepo)

	if err := svc.DeleteUser(context.Background(), "admin-1", "user-2"); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if deletedUser != "user-2" {
		t.Errorf("deleted user = %q, want user-2", deletedUser)
	}
	if deletedSessions != "user-2" {
		t.Errorf("revoked sessions for = %q, want user-2", deletedSessions)
	}
}

// 管理者自身の削除が拒否されることを検証
func TestService_DeleteUser_Self(t *testing.T) {
	deleteCalled := false
	userRepo := &mockUserRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(userRepo, &mockJobRepo{}, &mockSessionRepo{})

	err := svc.DeleteUser(context.Background(), "admin-1", "admin-1")
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if deleteCalled {
		t.Error("admin account must not be deleted")
	}
}

// 存在しないユーザーの削除がNOT_FOUNDになることを検証
func TestService_DeleteUser_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockJobRepo{}, &mockSessionRepo{})

	err := svc.DeleteUser(context.Background(), "admin-1", "ghost")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// ロール変更を検証
func TestService_ChangeRole(t *testing.T) {
	tests := []struct {
		name       string
		newRole    string
		current    model.Role
		wantUpdate bool
		wantErr    bool
	}{
		{name: "求職者から求人企業へ", newRole: "employer", current: model.RoleJobseeker, wantUpdate: true},
		{name: "同一ロールは更新なし", newRole: "employer", current: model.RoleEmployer, wantUpdate: false},
		{name: "不正なロール", newRole: "superuser", current: model.RoleJobseeker, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := model.Role("")
			userRepo := &mockUserRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
					return &model.User{ID: id, Role: tt.current}, nil
				},
				updateRoleFn: func(ctx context.Context, userID string, role model.Role) error {
					updated = role
					return nil
				},
			}
			svc := NewService(userRepo, &mockJobRepo{}, &mockSessionRepo{})

			err := svc.ChangeRole(context.Background(), "admin-1", "user-2", tt.newRole)
			if tt.wantErr {
				var vErr *model.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ChangeRole returned error: %v", err)
			}
			if tt.wantUpdate && updated != model.Role(tt.newRole) {
				t.Errorf("updated role = %q, want %q", updated, tt.newRole)
			}
			if !tt.wantUpdate && updated != "" {
				t.Errorf("expected no update, got %q", updated)
			}
		})
	}
}

// 管理者による求人削除を検証
func TestService_DeleteJob(t *testing.T) {
	deleted := ""
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			if id == "job-1" {
				return &model.Job{ID: id}, nil
			}
			return nil, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, jobRepo, &mockSessionRepo{})

	if err := svc.DeleteJob(context.Background(), "admin-1", "job-1"); err != nil {
		t.Fatalf("DeleteJob returned error: %v", err)
	}
	if deleted != "job-1" {
		t.Errorf("deleted job = %q, want job-1", deleted)
	}

	err := svc.DeleteJob(context.Background(), "admin-1", "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
