// Package admin は管理者操作のビジネスロジックを提供する。
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/repository"
)

// Service は管理者ダッシュボードの操作を提供する。
// 呼び出し側でadminロールを保証すること。
type Service struct {
	userRepo    repository.UserRepository
	jobRepo     repository.JobRepository
	sessionRepo repository.SessionRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, jobRepo repository.JobRepository, sessionRepo repository.SessionRepository) *Service {
	return &Service{
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		sessionRepo: sessionRepo,
	}
}

// ListUsers は全ユーザーを返す。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListJobs は全求人を返す。
func (s *Service) ListJobs(ctx context.Context) ([]*model.Job, error) {
	jobs, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// DeleteUser はユーザーを削除する。所有する求人・応募・セッションも
// 併せて消える。管理者自身の削除は拒否する。
func (s *Service) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if targetID == adminID {
		return &model.ValidationError{Fields: []model.FieldError{
			{Field: "user_id", Message: "自分自身のアカウントは削除できません"},
		}}
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := s.userRepo.DeleteByID(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted by admin",
		slog.String("admin_id", adminID),
		slog.String("user_id", targetID),
		slog.String("email", target.Email),
	)

	return nil
}

// ChangeRole はユーザーのロールを変更する。
// 変更後のロールは次回以降のリクエストから適用される。
func (s *Service) ChangeRole(ctx context.Context, adminID, targetID, newRole string) error {
	role, err := model.ParseRole(newRole)
	if err != nil {
		return &model.ValidationError{Fields: []model.FieldError{
			{Field: "role", Message: "不正なロールです"},
		}}
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return model.NewUserNotFoundError()
	}
	if target.Role == role {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("user role changed by admin",
		slog.String("admin_id", adminID),
		slog.String("user_id", targetID),
		slog.String("old_role", string(target.Role)),
		slog.String("new_role", string(role)),
	)

	return nil
}

// DeleteJob は求人を削除する。応募もCASCADE削除される。
func (s *Service) DeleteJob(ctx context.Context, adminID, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return model.NewJobNotFoundError(jobID)
	}

	if err := s.jobRepo.DeleteByID(ctx, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	slog.Info("job deleted by admin",
		slog.String("admin_id", adminID),
		slog.String("job_id", jobID),
	)

	return nil
}
