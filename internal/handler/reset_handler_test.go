package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kumari203/job-portal-web-app/internal/model"
	"github.com/kumari203/job-portal-web-app/internal/reset"
)

type mockResetService struct {
	requestResetFn  func(ctx context.Context, email string) error
	verifyTokenFn   func(ctx context.Context, tokenString string) (*model.User, error)
	resetPasswordFn func(ctx context.Context, tokenString, newPassword, confirmPassword string) error
}

func (m *mockResetService) RequestReset(ctx context.Context, email string) error {
	if m.requestResetFn != nil {
		return m.requestResetFn(ctx, email)
	}
	return nil
}
func (m *mockResetService) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	if m.verifyTokenFn != nil {
		return m.verifyTokenFn(ctx, tokenString)
	}
	return nil, model.NewTokenInvalidError()
}
func (m *mockResetService) ResetPassword(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, tokenString, newPassword, confirmPassword)
	}
	return nil
}

func flashMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "flash" && c.Value != "" {
			decoded, err := url.QueryUnescape(c.Value)
			if err != nil {
				t.Fatalf("failed to unescape flash: %v", err)
			}
			return decoded
		}
	}
	return ""
}

// メールアドレスの存在有無にかかわらず同一の応答になることを検証
func TestResetHandler_ForgotPassword_UniformResponse(t *testing.T) {
	existing := &mockResetService{
		requestResetFn: func(ctx context.Context, email string) error { return nil },
	}
	missing := &mockResetService{
		requestResetFn: func(ctx context.Context, email string) error { return nil },
	}

	responses := make([]string, 0, 2)
	for _, svc := range []*mockResetService{existing, missing} {
		h := NewResetHandler(svc, &recordedMetrics{})
		w := httptest.NewRecorder()
		h.ForgotPassword(w, postForm("/forgot_password", url.Values{"email": {"whoever@example.com"}}))

		resp := w.Result()
		assertRedirect(t, resp, "/login")
		responses = append(responses, flashMessage(t, resp))
	}

	if responses[0] != responses[1] {
		t.Errorf("responses differ: %q vs %q", responses[0], responses[1])
	}
	if !strings.Contains(responses[0], reset.GenericMessage) {
		t.Errorf("flash = %q, want generic message", responses[0])
	}
}

// メール送信失敗がメトリクスに記録されることを検証
func TestResetHandler_ForgotPassword_MailFailure(t *testing.T) {
	svc := &mockResetService{
		requestResetFn: func(ctx context.Context, email string) error {
			return model.NewMailDeliveryFailedError()
		},
	}
	m := &recordedMetrics{}
	h := NewResetHandler(svc, m)

	w := httptest.NewRecorder()
	h.ForgotPassword(w, postForm("/forgot_password", url.Values{"email": {"taro@example.com"}}))

	assertRedirect(t, w.Result(), "/login")
	if m.mailFailures != 1 {
		t.Errorf("mailFailures = %d, want 1", m.mailFailures)
	}
}

// 有効なトークンでフォーム表示用のJSONが返ることを検証
func TestResetHandler_ResetForm_ValidToken(t *testing.T) {
	svc := &mockResetService{
		verifyTokenFn: func(ctx context.Context, tokenString string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: "taro@example.com"}, nil
		},
	}
	h := NewResetHandler(svc, &recordedMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/reset/tok", nil)
	req = withURLParam(req, "token", "tok")
	w := httptest.NewRecorder()
	h.ResetForm(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Result().StatusCode)
	}
}

// 期限切れと改ざんで異なるメッセージになることを検証
func TestResetHandler_ResetForm_ExpiredVsInvalid(t *testing.T) {
	expired := &mockResetService{
		verifyTokenFn: func(ctx context.Context, tokenString string) (*model.User, error) {
			return nil, model.NewTokenExpiredError()
		},
	}
	invalid := &mockResetService{
		verifyTokenFn: func(ctx context.Context, tokenString string) (*model.User, error) {
			return nil, model.NewTokenInvalidError()
		},
	}

	messages := make([]string, 0, 2)
	for _, svc := range []*mockResetService{expired, invalid} {
		h := NewResetHandler(svc, &recordedMetrics{})
		req := httptest.NewRequest(http.MethodGet, "/reset/tok", nil)
		req = withURLParam(req, "token", "tok")
		w := httptest.NewRecorder()
		h.ResetForm(w, req)

		resp := w.Result()
		assertRedirect(t, resp, "/login")
		messages = append(messages, flashMessage(t, resp))
	}

	if messages[0] == messages[1] {
		t.Errorf("expired and invalid must differ, both %q", messages[0])
	}
}

// パスワード再設定の成功でログインページへ誘導されることを検証
func TestResetHandler_ResetSubmit_Success(t *testing.T) {
	var gotToken, gotPassword string
	svc := &mockResetService{
		resetPasswordFn: func(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
			gotToken, gotPassword = tokenString, newPassword
			return nil
		},
	}
	h := NewResetHandler(svc, &recordedMetrics{})

	req := postForm("/reset/tok", url.Values{
		"password":         {"newsecret"},
		"confirm_password": {"newsecret"},
	})
	req = withURLParam(req, "token", "tok")
	w := httptest.NewRecorder()
	h.ResetSubmit(w, req)

	assertRedirect(t, w.Result(), "/login")
	if gotToken != "tok" || gotPassword != "newsecret" {
		t.Errorf("got (%q, %q)", gotToken, gotPassword)
	}
}

// 入力不備がフォームへ戻されることを検証
func TestResetHandler_ResetSubmit_ValidationError(t *testing.T) {
	svc := &mockResetService{
		resetPasswordFn: func(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
			return &model.ValidationError{Fields: []model.FieldError{
				{Field: "password", Message: "パスワードは6文字以上で入力してください。"},
			}}
		},
	}
	h := NewResetHandler(svc, &recordedMetrics{})

	req := postForm("/reset/tok", url.Values{"password": {"a"}, "confirm_password": {"a"}})
	req = withURLParam(req, "token", "tok")
	w := httptest.NewRecorder()
	h.ResetSubmit(w, req)

	assertRedirect(t, w.Result(), "/reset/tok")
}
