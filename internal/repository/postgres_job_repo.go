package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kumari203/job-portal-web-app/internal/model"
)

// PostgresJobRepo はPostgreSQLを使用した求人リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

const jobColumns = `id, title, company, salary, location, description, category, posted_at, employer_id`

// Create は求人を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, salary, location, description, category, posted_at, employer_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.Title, job.Company, job.Salary, job.Location, job.Description,
		nullIfEmpty(job.Category), job.PostedAt, job.EmployerID,
	)
	if err != nil {
		return fmt.Errorf("求人の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
func (r *PostgresJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		id,
	)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	return job, nil
}

// Update は求人の可変フィールドを上書きする。idとposted_atは変更しない。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs
		 SET title = $1, company = $2, salary = $3, location = $4, description = $5, category = $6
		 WHERE id = $7`,
		job.Title, job.Company, job.Salary, job.Location, job.Description,
		nullIfEmpty(job.Category), job.ID,
	)
	if err != nil {
		return fmt.Errorf("求人の更新に失敗しました: %w", err)
	}
	return requireRowsAffected(result, "job", job.ID)
}

// DeleteByID は指定IDの求人を削除する。応募はCASCADE削除される。
func (r *PostgresJobRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("求人の削除に失敗しました: %w", err)
	}
	return requireRowsAffected(result, "job", id)
}

// ListPage は投稿日時の降順で1ページ分の求人と総件数を取得する。
// offsetが総件数を超える場合は空スライスを返す（エラーにはしない）。
func (r *PostgresJobRepo) ListPage(ctx context.Context, limit, offset int) ([]*model.Job, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("求人件数の取得に失敗しました: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY posted_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Search は絞り込み条件に一致する求人を投稿日時の降順で取得する。
// 条件はILIKEによる部分一致でAND結合され、未指定の条件は無視される。
// キーワードはタイトルまたは説明文のいずれかに一致する。
func (r *PostgresJobRepo) Search(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	var args []any

	addCond := func(cond, value string) {
		args = append(args, "%"+value+"%")
		query += fmt.Sprintf(cond, len(args))
	}

	if filter.Keyword != "" {
		addCond(` AND (title ILIKE $%d OR description ILIKE $%[1]d)`, filter.Keyword)
	}
	if filter.Location != "" {
		addCond(` AND location ILIKE $%d`, filter.Location)
	}
	if filter.Category != "" {
		addCond(` AND category ILIKE $%d`, filter.Category)
	}
	if filter.Company != "" {
		addCond(` AND company ILIKE $%d`, filter.Company)
	}

	query += ` ORDER BY posted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("求人検索に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// FindByEmployerID は指定求人企業の求人を投稿日時の降順で取得する。
func (r *PostgresJobRepo) FindByEmployerID(ctx context.Context, employerID string) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY posted_at DESC`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("求人企業の求人取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// FindAll は全求人を投稿日時の降順で取得する。
func (r *PostgresJobRepo) FindAll(ctx context.Context) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY posted_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("全求人の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// scanner は*sql.Rowと*sql.Rowsの共通部分。
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*model.Job, error) {
	job := &model.Job{}
	var category sql.NullString

	err := s.Scan(
		&job.ID, &job.Title, &job.Company, &job.Salary, &job.Location,
		&job.Description, &category, &job.PostedAt, &job.EmployerID,
	)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		job.Category = category.String
	}
	return job, nil
}

func scanJobs(rows *sql.Rows) ([]*model.Job, error) {
	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("求人行の読み取りに失敗しました: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("求人行の走査に失敗しました: %w", err)
	}
	return jobs, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)
