package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// Create は応募を作成する。
// UNIQUE(user_id, job_id)制約に違反した場合はErrDuplicateを返す。
// アプリ層の存在チェックをすり抜けた同時リクエストはここで止まる。
func (r *PostgresApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, job_id, applied_at)
		 VALUES ($1, $2, $3, $4)`,
		app.ID, app.UserID, app.JobID, app.AppliedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("応募の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByUserAndJob は(user, job)組の応募を検索する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Application, error) {
	app := &model.Application{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, job_id, applied_at
		 FROM applications WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	).Scan(&app.ID, &app.UserID, &app.JobID, &app.AppliedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("応募の検索に失敗しました: %w", err)
	}
	return app, nil
}

// FindByUserID は指定ユーザーの応募を応募日時の降順で取得する。
func (r *PostgresApplicationRepo) FindByUserID(ctx context.Context, userID string) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, job_id, applied_at
		 FROM applications WHERE user_id = $1 ORDER BY applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app := &model.Application{}
		if err := rows.Scan(&app.ID, &app.UserID, &app.JobID, &app.AppliedAt); err != nil {
			return nil, fmt.Errorf("応募行の読み取りに失敗しました: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("応募行の走査に失敗しました: %w", err)
	}
	return apps, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
