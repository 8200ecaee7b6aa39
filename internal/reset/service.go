// Package reset はパスワード再設定フローを提供する。
package reset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kumari203/job-portal-web-app/internal/auth"
	"github.com/kumari203/job-portal-web-app/internal/mailer"
	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/repository"
	"github.com/kumari203/job-portal-web-app/internal/token"
)

// TokenIssuer は再設定トークンの発行・検証インターフェース。
type TokenIssuer interface {
	Issue(email string) (string, error)
	Verify(tokenString string) (string, error)
}

// Service はパスワード再設定のビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	issuer      TokenIssuer
	mailer      mailer.Mailer
	baseURL     string
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	issuer TokenIssuer,
	m mailer.Mailer,
	baseURL string,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		issuer:      issuer,
		mailer:      m,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// GenericMessage はメールアドレスの登録有無に関わらず返す定型メッセージ。
// アカウント列挙を防ぐため、RequestResetの成否で文言を変えてはならない。
const GenericMessage = "このメールアドレスが登録されている場合、パスワード再設定リンクを送信しました。"

// RequestReset は再設定リンクの送信を申請する。
// 未登録メールの場合も登録済みの場合と同じ結果を返す。
// メール送信の失敗のみMAIL_DELIVERY_FAILEDとして区別され、
// ログに記録される（リトライは行わない）。
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		// 登録有無を漏らさないため、何もせず成功として扱う
		return nil
	}

	tok, err := s.issuer.Issue(user.Email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset/%s", s.baseURL, tok)
	body := fmt.Sprintf(
		"%s 様\n\n以下のリンクからパスワードを再設定できます:\n%s\n\n"+
			"心当たりがない場合はこのメールを無視してください。\n"+
			"リンクの有効期限は10分です。\n",
		user.FullName, link,
	)

	if err := s.mailer.Send(ctx, user.Email, "パスワード再設定のご案内", body); err != nil {
		slog.Error("failed to send reset mail",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return model.NewMailDeliveryFailedError()
	}

	slog.Info("reset mail sent", slog.String("user_id", user.ID))
	return nil
}

// VerifyToken はトークンを検証し、対象ユーザーを返す。
// 期限切れ→TOKEN_EXPIRED、署名不正→TOKEN_INVALID、
// 有効だが該当ユーザーなし→NOT_FOUND をそれぞれ区別して返す。
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	email, err := s.issuer.Verify(tokenString)
	if err != nil {
		return nil, mapTokenError(err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ResetPassword はトークンを検証した上でパスワードハッシュを上書きする。
// 成功時は対象ユーザーの全セッションを破棄する。
func (s *Service) ResetPassword(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
	user, err := s.VerifyToken(ctx, tokenString)
	if err != nil {
		return err
	}

	if len(newPassword) < 6 {
		return &model.ValidationError{Fields: []model.FieldError{
			{Field: "password", Message: "パスワードは6文字以上で入力してください。"},
		}}
	}
	if newPassword != confirmPassword {
		return &model.ValidationError{Fields: []model.FieldError{
			{Field: "confirm_password", Message: "パスワードが一致しません。"},
		}}
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	// 旧パスワードで張られたセッションを無効化する
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		slog.Error("failed to revoke sessions after reset",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	slog.Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}

// mapTokenError はトークン検証エラーをユーザー向けAPIErrorに変換する。
func mapTokenError(err error) error {
	if errors.Is(err, token.ErrExpired) {
		return model.NewTokenExpiredError()
	}
	return model.NewTokenInvalidError()
}
