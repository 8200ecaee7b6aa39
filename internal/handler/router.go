package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kumari203/job-portal-web-app/internal/metrics"
	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	UserFinder    middleware.UserFinder
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// サービス
	AuthService        AuthServiceInterface
	AuthConfig         AuthHandlerConfig
	JobService         JobServiceInterface
	ApplicationService ApplicationServiceInterface
	AdminService       AdminServiceInterface
	ResetService       ResetServiceInterface
	ImportService      ImportServiceInterface

	// ヘルスチェック
	HealthCheck func() error
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成した
// chi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	SecurityHeaders → Logging → Recovery → Metrics →
//	（認証ルート）Session → RateLimit(General) → RequireRole
//	（ログイン系）RateLimit(Login)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(deps.Metrics.Middleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)
	jobHandler := NewJobHandler(deps.JobService)
	appHandler := NewApplicationHandler(deps.ApplicationService, deps.Metrics)
	adminHandler := NewAdminHandler(deps.AdminService)
	resetHandler := NewResetHandler(deps.ResetService, deps.Metrics)
	importHandler := NewImportHandler(deps.ImportService, deps.Metrics)

	// --- 認証不要のルート ---

	// 運用エンドポイント
	r.Get("/health", NewHealthHandler(deps.HealthCheck))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// ログイン・登録・リセット系はIP単位のレート制限をかける
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.LoginMiddleware())

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot_password", resetHandler.ForgotPassword)
		r.Get("/reset/{token}", resetHandler.ResetForm)
		r.Post("/reset/{token}", resetHandler.ResetSubmit)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.UserFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 全ロール共通
		r.Get("/", jobHandler.Home)
		r.Get("/logout", authHandler.Logout)

		// 求職者
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleJobseeker))

			r.Get("/jobseeker/dashboard", jobHandler.JobseekerDashboard)
			r.Get("/apply/{id}", appHandler.Apply)
		})

		// 求人企業
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleEmployer))

			r.Get("/employer/dashboard", jobHandler.EmployerDashboard)
			r.Post("/post-job", jobHandler.PostJob)
			r.Get("/edit-job/{id}", jobHandler.EditJobForm)
			r.Post("/edit-job/{id}", jobHandler.EditJob)
			r.Get("/delete-job/{id}", jobHandler.DeleteJob)
			r.Post("/employer/import-jobs", importHandler.ImportJobs)
		})

		// 管理者
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get("/admin/dashboard", adminHandler.Dashboard)
			r.Get("/admin/delete_user/{id}", adminHandler.DeleteUser)
			r.Get("/admin/change_role/{id}/{role}", adminHandler.ChangeRole)
			r.Get("/admin/delete_job/{id}", adminHandler.DeleteJob)
		})
	})

	return r
}

// NewHealthHandler はヘルスチェックのHTTPハンドラーを返す。
// 依存先（DB接続）の確認に失敗した場合は503を返す。
func NewHealthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
