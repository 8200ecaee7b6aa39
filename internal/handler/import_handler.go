package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kumari203/job-portal-web-app/internal/feedimport"
	"github.com/kumari203/job-portal-web-app/internal/middleware"
)

// ImportServiceInterface はフィード取込ハンドラーが必要とする
// サービスインターフェース。
type ImportServiceInterface interface {
	Import(ctx context.Context, employerID string, in feedimport.Input) (*feedimport.Result, error)
}

// ImportMetrics は取込ハンドラーが記録するメトリクスのインターフェース。
type ImportMetrics interface {
	RecordJobsImported(count int)
}

// ImportHandler は求人フィード取込のHTTPハンドラー。
type ImportHandler struct {
	service ImportServiceInterface
	metrics ImportMetrics
}

// NewImportHandler はImportHandlerを生成する。
func NewImportHandler(service ImportServiceInterface, metrics ImportMetrics) *ImportHandler {
	return &ImportHandler{service: service, metrics: metrics}
}

// ImportJobs はRSS/Atomフィードから求人を一括取込する。
// POST /employer/import-jobs (feed_url, location, category)
func (h *ImportHandler) ImportJobs(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, middleware.FlashDanger, "フォームの解析に失敗しました。", "/employer/dashboard")
		return
	}

	result, err := h.service.Import(r.Context(), user.ID, feedimport.Input{
		FeedURL:  r.PostFormValue("feed_url"),
		Location: r.PostFormValue("location"),
		Category: r.PostFormValue("category"),
	})
	if err != nil {
		redirectError(w, r, err, "/employer/dashboard")
		return
	}

	h.metrics.RecordJobsImported(result.Imported)
	message := fmt.Sprintf("%d件の求人を取り込みました（%d件スキップ）。", result.Imported, result.Skipped)
	redirectWithFlash(w, r, middleware.FlashSuccess, message, "/employer/dashboard")
}
