// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

// ErrDuplicate は一意制約違反を表すセンチネルエラー。
// メールアドレスの重複登録、(user, job)組の重複応募で返される。
var ErrDuplicate = errors.New("duplicate row")

// isUniqueViolation はPostgreSQLの一意制約違反(23505)かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが重複している場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error

	// UpdateRole はロールを更新する。
	UpdateRole(ctx context.Context, userID string, role model.Role) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有する求人とその応募はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// FindAll は全ユーザーを取得する（管理者ダッシュボード用）。
	FindAll(ctx context.Context) ([]*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// Update は求人の可変フィールドを上書きする。idとposted_atは変更しない。
	Update(ctx context.Context, job *model.Job) error

	// DeleteByID は指定IDの求人を削除する。応募はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// ListPage は投稿日時の降順で1ページ分の求人を取得する。
	// offsetが総件数を超える場合は空スライスを返す。
	ListPage(ctx context.Context, limit, offset int) ([]*model.Job, int, error)

	// Search は絞り込み条件に一致する求人を投稿日時の降順で取得する。
	// 各条件は大文字小文字を区別しない部分一致で、AND結合される。
	Search(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)

	// FindByEmployerID は指定求人企業の求人を投稿日時の降順で取得する。
	FindByEmployerID(ctx context.Context, employerID string) ([]*model.Job, error)

	// FindAll は全求人を取得する（管理者ダッシュボード用）。
	FindAll(ctx context.Context) ([]*model.Job, error)
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募を作成する。
	// 同一(user, job)組の応募がすでに存在する場合はErrDuplicateを返す。
	Create(ctx context.Context, app *model.Application) error

	// FindByUserAndJob は(user, job)組の応募を検索する。見つからない場合はnilを返す。
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Application, error)

	// FindByUserID は指定ユーザーの応募を応募日時の降順で取得する。
	FindByUserID(ctx context.Context, userID string) ([]*model.Application, error)
}
