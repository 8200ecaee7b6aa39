package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/reset"
)

// ResetServiceInterface はパスワードリセットハンドラーが必要とする
// サービスインターフェース。
type ResetServiceInterface interface {
	RequestReset(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, tokenString string) (*model.User, error)
	ResetPassword(ctx context.Context, tokenString, newPassword, confirmPassword string) error
}

// ResetMetrics はリセットハンドラーが記録するメトリクスのインターフェース。
type ResetMetrics interface {
	RecordMailFailure()
}

// ResetHandler はパスワードリセットフローのHTTPハンドラー。
type ResetHandler struct {
	service ResetServiceInterface
	metrics ResetMetrics
}

// NewResetHandler はResetHandlerを生成する。
func NewResetHandler(service ResetServiceInterface, metrics ResetMetrics) *ResetHandler {
	return &ResetHandler{service: service, metrics: metrics}
}

// ForgotPassword はリセットメールの送信を受け付ける。
// メールアドレスの存在有無にかかわらず同一のメッセージを返す。
// POST /forgot_password (email)
func (h *ResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, middleware.FlashDanger, "フォームの解析に失敗しました。", "/login")
		return
	}

	if err := h.service.RequestReset(r.Context(), r.PostFormValue("email")); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeMailDeliveryFailed {
			h.metrics.RecordMailFailure()
		}
		redirectError(w, r, err, "/login")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, reset.GenericMessage, "/login")
}

// ResetForm はトークンを検証し、パスワード再設定フォームの表示可否を返す。
// 期限切れと改ざんは別メッセージでログインへ戻す。
// GET /reset/{token}
func (h *ResetHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	tokenString := chi.URLParam(r, "token")

	user, err := h.service.VerifyToken(r.Context(), tokenString)
	if err != nil {
		redirectError(w, r, err, "/login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email": user.Email,
	})
}

// ResetSubmit は新しいパスワードを設定する。
// POST /reset/{token} (password, confirm_password)
func (h *ResetHandler) ResetSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, middleware.FlashDanger, "フォームの解析に失敗しました。", "/login")
		return
	}

	tokenString := chi.URLParam(r, "token")

	err := h.service.ResetPassword(r.Context(), tokenString,
		r.PostFormValue("password"), r.PostFormValue("confirm_password"))
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			// 入力不備はフォームに戻す
			redirectError(w, r, err, "/reset/"+tokenString)
			return
		}
		redirectError(w, r, err, "/login")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "パスワードを再設定しました。ログインしてください。", "/login")
}
