// Package feedimport はRSS/Atomフィードからの求人一括取込を提供する。
package feedimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kumari203/job-portal-web-app/internal/job"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// JobPoster は求人掲載処理のインターフェース。
type JobPoster interface {
	Post(ctx context.Context, employerID string, in job.PostInput) (*model.Job, error)
}

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// Input は取込フォームの入力を表す。
// 勤務地とカテゴリはフィード側に項目がないため、取込単位で指定する。
type Input struct {
	FeedURL  string
	Location string
	Category string
}

// Result は取込結果の集計を表す。
type Result struct {
	Imported int
	Skipped  int
}

// Service は求人フィードのフェッチ・パース・掲載を行う。
// 呼び出し側でemployerロールを保証すること。
type Service struct {
	poster      JobPoster
	ssrfGuard   SSRFValidator
	timeout     time.Duration
	maxBodySize int64
}

// NewService はServiceを生成する。
func NewService(poster JobPoster, ssrfGuard SSRFValidator, timeout time.Duration, maxBodySize int64) *Service {
	return &Service{
		poster:      poster,
		ssrfGuard:   ssrfGuard,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Import はフィードをフェッチし、各記事を求人として掲載する。
// 検証に通らない記事は読み飛ばして続行し、件数だけ集計する。
func (s *Service) Import(ctx context.Context, employerID string, in Input) (*Result, error) {
	feedURL := strings.TrimSpace(in.FeedURL)
	if feedURL == "" {
		return nil, &model.ValidationError{Fields: []model.FieldError{
			{Field: "feed_url", Message: "フィードURLを入力してください。"},
		}}
	}

	// SSRF検証
	if err := s.ssrfGuard.ValidateURL(feedURL); err != nil {
		slog.Warn("フィードURLのSSRF検証に失敗しました",
			slog.String("employer_id", employerID),
			slog.String("feed_url", feedURL),
			slog.String("error", err.Error()),
		)
		return nil, &model.ValidationError{Fields: []model.FieldError{
			{Field: "feed_url", Message: "このURLは取込に使用できません。"},
		}}
	}

	client := s.ssrfGuard.NewSafeClient(s.timeout, s.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", "JobPortal/1.0 Feed Importer")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("フィードの取得に失敗: HTTPステータス %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンス読み取りに失敗: %w", err)
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("フィードのパースに失敗: %w", err)
	}

	result := &Result{}
	for _, item := range parsedFeed.Items {
		if item == nil {
			result.Skipped++
			continue
		}

		postIn := convertItem(item, parsedFeed.Title, in)
		if _, err := s.poster.Post(ctx, employerID, postIn); err != nil {
			var vErr *model.ValidationError
			if errors.As(err, &vErr) {
				// 不正な記事は読み飛ばして続行
				slog.Info("取込対象外の記事をスキップしました",
					slog.String("employer_id", employerID),
					slog.String("item_title", item.Title),
					slog.String("reason", vErr.Error()),
				)
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("求人の掲載に失敗: %w", err)
		}
		result.Imported++
	}

	slog.Info("フィード取込が完了しました",
		slog.String("employer_id", employerID),
		slog.String("feed_url", feedURL),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}

// convertItem はgofeedの記事を求人入力に変換する。
func convertItem(item *gofeed.Item, feedTitle string, in Input) job.PostInput {
	description := item.Content
	if description == "" {
		description = item.Description
	}

	// 会社名: 記事の著者名、なければフィードタイトル
	company := ""
	if item.Author != nil {
		company = item.Author.Name
	}
	if company == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
		company = item.Authors[0].Name
	}
	if company == "" {
		company = feedTitle
	}

	category := in.Category
	if category == "" && len(item.Categories) > 0 {
		category = item.Categories[0]
	}

	return job.PostInput{
		Title:       item.Title,
		Company:     company,
		Location:    in.Location,
		Description: description,
		Category:    category,
	}
}
