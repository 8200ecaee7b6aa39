package middleware

import (
	"log/slog"
	"net/http"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

// RequireRole は認証済みユーザーのロールを検査するミドルウェアを返す。
// 許可されていないロールのアクセスはフラッシュを設定し、
// そのユーザー自身のダッシュボードへ303リダイレクトする（状態は変更しない）。
// セッションミドルウェアの後に配置すること。
func RequireRole(roles ...model.Role) func(next http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			if !allowed[user.Role] {
				slog.Warn("access denied",
					slog.String("user_id", user.ID),
					slog.String("role", string(user.Role)),
					slog.String("path", r.URL.Path),
				)
				SetFlash(w, FlashDanger, "このページへのアクセス権限がありません。")
				http.Redirect(w, r, user.Role.DashboardPath(), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
