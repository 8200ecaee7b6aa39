package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

type mockAdminService struct {
	listUsersFn  func(ctx context.Context) ([]*model.User, error)
	listJobsFn   func(ctx context.Context) ([]*model.Job, error)
	deleteUserFn func(ctx context.Context, adminID, targetID string) error
	changeRoleFn func(ctx context.Context, adminID, targetID, newRole string) error
	deleteJobFn  func(ctx context.Context, adminID, jobID string) error
}

func (m *mockAdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}
func (m *mockAdminService) ListJobs(ctx context.Context) ([]*model.Job, error) {
	if m.listJobsFn != nil {
		return m.listJobsFn(ctx)
	}
	return nil, nil
}
func (m *mockAdminService) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, adminID, targetID)
	}
	return nil
}
func (m *mockAdminService) ChangeRole(ctx context.Context, adminID, targetID, newRole string) error {
	if m.changeRoleFn != nil {
		return m.changeRoleFn(ctx, adminID, targetID, newRole)
	}
	return nil
}
func (m *mockAdminService) DeleteJob(ctx context.Context, adminID, jobID string) error {
	if m.deleteJobFn != nil {
		return m.deleteJobFn(ctx, adminID, jobID)
	}
	return nil
}

func adminUser() *model.User {
	return &model.User{ID: "admin-1", Role: model.RoleAdmin}
}

// ダッシュボードが全ユーザー・全求人を返し、
// パスワードハッシュを含まないことを検証
func TestAdminHandler_Dashboard(t *testing.T) {
	svc := &mockAdminService{
		listUsersFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "user-1", Email: "taro@example.com", Role: model.RoleJobseeker, PasswordHash: "$2a$secret"},
			}, nil
		},
		listJobsFn: func(ctx context.Context) ([]*model.Job, error) {
			return []*model.Job{{ID: "job-1", Title: "Dev"}}, nil
		},
	}
	h := NewAdminHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), adminUser())
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	var users []map[string]any
	if err := json.Unmarshal(raw["users"], &users); err != nil {
		t.Fatalf("failed to decode users: %v", err)
	}
	if len(users) != 1 || users[0]["email"] != "taro@example.com" {
		t.Errorf("users = %+v", users)
	}
	for key := range users[0] {
		if key == "password_hash" || key == "password" {
			t.Errorf("user payload leaks %q", key)
		}
	}
}

// ユーザー削除が管理者ID付きで委譲されることを検証
func TestAdminHandler_DeleteUser(t *testing.T) {
	var gotAdmin, gotTarget string
	svc := &mockAdminService{
		deleteUserFn: func(ctx context.Context, adminID, targetID string) error {
			gotAdmin, gotTarget = adminID, targetID
			return nil
		},
	}
	h := NewAdminHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/admin/delete_user/user-2", nil), adminUser())
	req = withURLParam(req, "id", "user-2")
	w := httptest.NewRecorder()
	h.DeleteUser(w, req)

	assertRedirect(t, w.Result(), "/admin/dashboard")
	if gotAdmin != "admin-1" || gotTarget != "user-2" {
		t.Errorf("got (%q, %q), want (admin-1, user-2)", gotAdmin, gotTarget)
	}
}

// 自分自身の削除エラーがフラッシュ付きでダッシュボードに戻ることを検証
func TestAdminHandler_DeleteUser_Self(t *testing.T) {
	svc := &mockAdminService{
		deleteUserFn: func(ctx context.Context, adminID, targetID string) error {
			return &model.ValidationError{Fields: []model.FieldError{
				{Field: "user_id", Message: "自分自身のアカウントは削除できません"},
			}}
		},
	}
	h := NewAdminHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/admin/delete_user/admin-1", nil), adminUser())
	req = withURLParam(req, "id", "admin-1")
	w := httptest.NewRecorder()
	h.DeleteUser(w, req)

	assertRedirect(t, w.Result(), "/admin/dashboard")
}

// ロール変更のパスパラメータが委譲されることを検証
func TestAdminHandler_ChangeRole(t *testing.T) {
	var gotTarget, gotRole string
	svc := &mockAdminService{
		changeRoleFn: func(ctx context.Context, adminID, targetID, newRole string) error {
			gotTarget, gotRole = targetID, newRole
			return nil
		},
	}
	h := NewAdminHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/admin/change_role/user-2/employer", nil), adminUser())
	req = withURLParam(req, "id", "user-2")
	req = withURLParam(req, "role", "employer")
	w := httptest.NewRecorder()
	h.ChangeRole(w, req)

	assertRedirect(t, w.Result(), "/admin/dashboard")
	if gotTarget != "user-2" || gotRole != "employer" {
		t.Errorf("got (%q, %q), want (user-2, employer)", gotTarget, gotRole)
	}
}
