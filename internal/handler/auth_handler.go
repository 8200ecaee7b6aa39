package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kumari203/job-portal-web-app/internal/auth"
	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
type AuthMetrics interface {
	RecordRegistration(role string)
	RecordLogin(success bool)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
		config:  config,
	}
}

// Register はユーザーを新規登録する。
// POST /register (full_name, email, password, confirm_password, role)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, middleware.FlashDanger, "フォームの解析に失敗しました。", "/register")
		return
	}

	in := auth.RegisterInput{
		FullName:        r.PostFormValue("full_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		Role:            r.PostFormValue("role"),
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		redirectError(w, r, err, "/register")
		return
	}

	h.metrics.RecordRegistration(string(user.Role))
	redirectWithFlash(w, r, middleware.FlashSuccess, "登録が完了しました。ログインしてください。", "/login")
}

// Login は認証を行い、セッションCookieを設定してロール別ダッシュボードへ誘導する。
// POST /login (email, password)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, middleware.FlashDanger, "フォームの解析に失敗しました。", "/login")
		return
	}

	user, session, err := h.service.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.metrics.RecordLogin(false)
		redirectError(w, r, err, "/login")
		return
	}

	h.setSessionCookie(w, session.ID, h.config.SessionMaxAge)
	h.metrics.RecordLogin(true)

	redirectWithFlash(w, r, middleware.FlashSuccess, "ログインしました。", user.Role.DashboardPath())
}

// Logout はセッションを破棄し、Cookieを失効させてログインページへ戻す。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to delete session", slog.String("error", err.Error()))
		}
	}

	h.setSessionCookie(w, "", -1)
	redirectWithFlash(w, r, middleware.FlashSuccess, "ログアウトしました。", "/login")
}

// setSessionCookie はセッションCookieを設定する。maxAgeに-1を渡すと失効する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
