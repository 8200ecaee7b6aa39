// Package application は求人への応募のビジネスロジックを提供する。
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/repository"
)

// Service は応募に関するビジネスロジックを提供する。
type Service struct {
	appRepo repository.ApplicationRepository
	jobRepo repository.JobRepository
}

// NewService はServiceを生成する。
func NewService(appRepo repository.ApplicationRepository, jobRepo repository.JobRepository) *Service {
	return &Service{
		appRepo: appRepo,
		jobRepo: jobRepo,
	}
}

// Apply は求職者の応募を記録する。呼び出し側でjobseekerロールを保証すること。
// 同一の(user, job)組に対する2回目以降の応募はDUPLICATE_APPLICATIONを返し、
// 新しいレコードは作成されない。
// 存在チェックをすり抜けた同時リクエストもストアのUNIQUE制約で
// ErrDuplicateとなり、同じ結果に合流する。
func (s *Service) Apply(ctx context.Context, userID, jobID string) (*model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	existing, err := s.appRepo.FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateApplicationError()
	}

	app := &model.Application{
		ID:        uuid.New().String(),
		UserID:    userID,
		JobID:     jobID,
		AppliedAt: time.Now(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicateApplicationError()
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	slog.Info("application submitted",
		slog.String("application_id", app.ID),
		slog.String("user_id", userID),
		slog.String("job_id", jobID),
	)

	return app, nil
}

// ListByUser は求職者自身の応募一覧を返す（ダッシュボード用）。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Application, error) {
	apps, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
