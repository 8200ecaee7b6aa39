// Package job は求人の掲載・検索・管理のビジネスロジックを提供する。
package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/repository"
	"github.com/kumari203/job-portal-web-app/internal/security"
)

// DefaultPageSize は求人一覧の1ページあたりの件数。
const DefaultPageSize = 10

// Service は求人に関するビジネスロジックを提供する。
type Service struct {
	jobRepo   repository.JobRepository
	sanitizer security.ContentSanitizerService
	pageSize  int
}

// NewService はServiceを生成する。pageSizeに0以下を渡すとDefaultPageSizeを使う。
func NewService(jobRepo repository.JobRepository, sanitizer security.ContentSanitizerService, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		jobRepo:   jobRepo,
		sanitizer: sanitizer,
		pageSize:  pageSize,
	}
}

// PostInput は求人の投稿・編集フォームの入力値。
type PostInput struct {
	Title       string
	Company     string
	Salary      float64
	Location    string
	Description string
	Category    string
}

// validatePost は求人入力を検証し、項目エラーの一覧を返す。
func validatePost(in PostInput) []model.FieldError {
	var fields []model.FieldError

	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, model.FieldError{Field: "title", Message: "タイトルを入力してください。"})
	}
	if strings.TrimSpace(in.Company) == "" {
		fields = append(fields, model.FieldError{Field: "company", Message: "会社名を入力してください。"})
	}
	if in.Salary < 0 {
		fields = append(fields, model.FieldError{Field: "salary", Message: "給与は0以上の数値で入力してください。"})
	}
	if strings.TrimSpace(in.Location) == "" {
		fields = append(fields, model.FieldError{Field: "location", Message: "勤務地を入力してください。"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, model.FieldError{Field: "description", Message: "仕事内容を入力してください。"})
	}

	return fields
}

// Post は求人を新規掲載する。呼び出し側でemployerロールを保証すること。
// 説明文はサニタイズしてから保存する。
func (s *Service) Post(ctx context.Context, employerID string, in PostInput) (*model.Job, error) {
	if fields := validatePost(in); len(fields) > 0 {
		return nil, &model.ValidationError{Fields: fields}
	}

	job := &model.Job{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Salary:      in.Salary,
		Location:    strings.TrimSpace(in.Location),
		Description: s.sanitizer.Sanitize(in.Description),
		Category:    strings.TrimSpace(in.Category),
		PostedAt:    time.Now(),
		EmployerID:  employerID,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	slog.Info("job posted",
		slog.String("job_id", job.ID),
		slog.String("employer_id", employerID),
	)

	return job, nil
}

// Get は指定IDの求人を取得する。存在しない場合はNOT_FOUNDエラー。
func (s *Service) Get(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	return job, nil
}

// Edit は求人の可変フィールドを上書きする。
// 所有者以外が編集しようとするとACCESS_DENIEDを返し、求人は変更されない。
// posted_atと識別子は変更されない。
func (s *Service) Edit(ctx context.Context, actorID, jobID string, in PostInput) (*model.Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.EmployerID != actorID {
		slog.Warn("job edit denied",
			slog.String("job_id", jobID),
			slog.String("actor_id", actorID),
			slog.String("owner_id", job.EmployerID),
		)
		return nil, model.NewAccessDeniedError()
	}

	if fields := validatePost(in); len(fields) > 0 {
		return nil, &model.ValidationError{Fields: fields}
	}

	job.Title = strings.TrimSpace(in.Title)
	job.Company = strings.TrimSpace(in.Company)
	job.Salary = in.Salary
	job.Location = strings.TrimSpace(in.Location)
	job.Description = s.sanitizer.Sanitize(in.Description)
	job.Category = strings.TrimSpace(in.Category)

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	slog.Info("job updated", slog.String("job_id", jobID))
	return job, nil
}

// Delete は求人を削除する。所有者と管理者のみが削除でき、
// 応募はストアのCASCADE制約で同時に削除される。
func (s *Service) Delete(ctx context.Context, actor *model.User, jobID string) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}

	if job.EmployerID != actor.ID && actor.Role != model.RoleAdmin {
		slog.Warn("job delete denied",
			slog.String("job_id", jobID),
			slog.String("actor_id", actor.ID),
		)
		return model.NewAccessDeniedError()
	}

	if err := s.jobRepo.DeleteByID(ctx, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	slog.Info("job deleted",
		slog.String("job_id", jobID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

// List は投稿日時の降順で1ページ分の求人を返す。
// pageは1始まりで、1未満は1として扱う。範囲外のページは空ページを返す。
func (s *Service) List(ctx context.Context, page int) (*model.JobPage, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * s.pageSize
	jobs, total, err := s.jobRepo.ListPage(ctx, s.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return &model.JobPage{
		Jobs:       jobs,
		Page:       page,
		PerPage:    s.pageSize,
		TotalCount: total,
	}, nil
}

// Search は絞り込み条件に一致する求人を返す。
// 条件がすべて空の場合は全求人を返す。
func (s *Service) Search(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	jobs, err := s.jobRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return jobs, nil
}

// ListByEmployer は求人企業の自社求人一覧を返す（ダッシュボード用）。
func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error) {
	jobs, err := s.jobRepo.FindByEmployerID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer jobs: %w", err)
	}
	return jobs, nil
}
