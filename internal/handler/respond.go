// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// redirectWithFlash はフラッシュメッセージを設定して303リダイレクトする。
func redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message, location string) {
	middleware.SetFlash(w, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// redirectError はエラーをフラッシュメッセージに変換してリダイレクトする。
// エラー分類に応じたメッセージを設定し、処理は常にlocationへ戻す。
// 分類できないエラーは詳細をログに残し、500を返す。
func redirectError(w http.ResponseWriter, r *http.Request, err error, location string) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		message := "入力内容を確認してください。"
		if len(vErr.Fields) > 0 {
			message = vErr.Fields[0].Message
		}
		redirectWithFlash(w, r, middleware.FlashDanger, message, location)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		kind := middleware.FlashDanger
		if apiErr.Code == model.ErrCodeDuplicateApplication {
			// 応募済みは利用者から見ると警告どまり
			kind = middleware.FlashWarning
		}
		redirectWithFlash(w, r, kind, apiErr.Message, location)
		return
	}

	slog.Error("unhandled error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}
