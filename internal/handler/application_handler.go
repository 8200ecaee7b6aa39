package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Apply(ctx context.Context, userID, jobID string) (*model.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Application, error)
}

// ApplicationMetrics は応募ハンドラーが記録するメトリクスのインターフェース。
type ApplicationMetrics interface {
	RecordApplication()
}

// ApplicationHandler は応募関連のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
	metrics ApplicationMetrics
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface, metrics ApplicationMetrics) *ApplicationHandler {
	return &ApplicationHandler{service: service, metrics: metrics}
}

// Apply は求人への応募を記録する。2回目以降の応募は警告のみで何も変えない。
// GET /apply/{id}
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	jobID := chi.URLParam(r, "id")

	if _, err := h.service.Apply(r.Context(), user.ID, jobID); err != nil {
		redirectError(w, r, err, "/jobseeker/dashboard")
		return
	}

	h.metrics.RecordApplication()
	redirectWithFlash(w, r, middleware.FlashSuccess, "応募しました。", "/jobseeker/dashboard")
}
