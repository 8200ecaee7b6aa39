package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// AdminServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListJobs(ctx context.Context) ([]*model.Job, error)
	DeleteUser(ctx context.Context, adminID, targetID string) error
	ChangeRole(ctx context.Context, adminID, targetID, newRole string) error
	DeleteJob(ctx context.Context, adminID, jobID string) error
}

// AdminHandler は管理者ダッシュボードのHTTPハンドラー。
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// userResponse はユーザーのJSON表現。パスワードハッシュは含めない。
type userResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponses(users []*model.User) []userResponse {
	res := make([]userResponse, 0, len(users))
	for _, u := range users {
		res = append(res, userResponse{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
	return res
}

// Dashboard は全ユーザーと全求人の一覧を返す。
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		redirectError(w, r, err, "/admin/dashboard")
		return
	}
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		redirectError(w, r, err, "/admin/dashboard")
		return
	}

	kind, message := middleware.PopFlash(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"users": toUserResponses(users),
		"jobs":  toJobResponses(jobs),
		"flash": flashPayload(kind, message),
	})
}

// DeleteUser はユーザーを削除する。自分自身は削除できない。
// GET /admin/delete_user/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	targetID := chi.URLParam(r, "id")

	if err := h.service.DeleteUser(r.Context(), admin.ID, targetID); err != nil {
		redirectError(w, r, err, "/admin/dashboard")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "ユーザーを削除しました。", "/admin/dashboard")
}

// ChangeRole はユーザーのロールを変更する。
// GET /admin/change_role/{id}/{role}
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	targetID := chi.URLParam(r, "id")
	newRole := chi.URLParam(r, "role")

	if err := h.service.ChangeRole(r.Context(), admin.ID, targetID, newRole); err != nil {
		redirectError(w, r, err, "/admin/dashboard")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "ロールを変更しました。", "/admin/dashboard")
}

// DeleteJob は求人を削除する。
// GET /admin/delete_job/{id}
func (h *AdminHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	jobID := chi.URLParam(r, "id")

	if err := h.service.DeleteJob(r.Context(), admin.ID, jobID); err != nil {
		redirectError(w, r, err, "/admin/dashboard")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "求人を削除しました。", "/admin/dashboard")
}
