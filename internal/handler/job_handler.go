package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kumari203/job-portal-web-app/internal/job"
	"github.com/kumari203/job-portal-web-app/internal/middleware"
	"github.com/kumari203/job-portal-web-app/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	Post(ctx context.Context, employerID string, in job.PostInput) (*model.Job, error)
	Get(ctx context.Context, jobID string) (*model.Job, error)
	Edit(ctx context.Context, actorID, jobID string, in job.PostInput) (*model.Job, error)
	Delete(ctx context.Context, actor *model.User, jobID string) error
	List(ctx context.Context, page int) (*model.JobPage, error)
	Search(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error)
}

// JobHandler は求人関連のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// jobResponse は求人のJSON表現。
type jobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Salary      float64   `json:"salary"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
	EmployerID  string    `json:"employer_id"`
}

func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Salary:      j.Salary,
		Location:    j.Location,
		Description: j.Description,
		Category:    j.Category,
		PostedAt:    j.PostedAt,
		EmployerID:  j.EmployerID,
	}
}

func toJobResponses(jobs []*model.Job) []jobResponse {
	res := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		res = append(res, toJobResponse(j))
	}
	return res
}

// Home は求人の一覧ページを返す。
// GET /?page=N
func (h *JobHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			page = n
		}
	}

	jobPage, err := h.service.List(r.Context(), page)
	if err != nil {
		redirectError(w, r, err, "/")
		return
	}

	kind, message := middleware.PopFlash(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":     toJobResponses(jobPage.Jobs),
		"page":     jobPage.Page,
		"per_page": jobPage.PerPage,
		"total":    jobPage.TotalCount,
		"flash":    flashPayload(kind, message),
	})
}

// JobseekerDashboard は絞り込み付きの求人一覧を返す。
// GET /jobseeker/dashboard?q=&location=&category=&company=
func (h *JobHandler) JobseekerDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.JobFilter{
		Keyword:  strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		Category: strings.TrimSpace(q.Get("category")),
		Company:  strings.TrimSpace(q.Get("company")),
	}

	jobs, err := h.service.Search(r.Context(), filter)
	if err != nil {
		redirectError(w, r, err, "/jobseeker/dashboard")
		return
	}

	kind, message := middleware.PopFlash(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  toJobResponses(jobs),
		"flash": flashPayload(kind, message),
	})
}

// EmployerDashboard は自社求人の一覧を返す。
// GET /employer/dashboard
func (h *JobHandler) EmployerDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	jobs, err := h.service.ListByEmployer(r.Context(), user.ID)
	if err != nil {
		redirectError(w, r, err, "/employer/dashboard")
		return
	}

	kind, message := middleware.PopFlash(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  toJobResponses(jobs),
		"flash": flashPayload(kind, message),
	})
}

// PostJob は求人を新規掲載する。
// POST /post-job (title, company, salary, location, description, category)
func (h *JobHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	in, err := parseJobForm(r)
	if err != nil {
		redirectError(w, r, err, "/employer/dashboard")
		return
	}

	if _, err := h.service.Post(r.Context(), user.ID, in); err != nil {
		redirectError(w, r, err, "/employer/dashboard")
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "求人を掲載しました。", "/employer/dashboard")
}

// EditJobForm は編集フォームのプリフィル用に現在の求人を返す。
// GET /edit-job/{id}
func (h *JobHandler) EditJobForm(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	j, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		redirectError(w, r, err, "/employer/dashboard")
		return
	}

	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}
	// 所有者以外にはフォームを出さない
	if j.EmployerID != user.ID {
		redirectError(w, r, model.NewAccessDeniedError(), user.Role.DashboardPath())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"job": toJobResponse(j)})
}

// EditJob は求人の可変フィールドを上書きする。
// POST /edit-job/{id}
func (h *JobHandler) EditJob(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	jobID := chi.URLParam(r, "id")

	in, err := parseJobForm(r)
	if err != nil {
		redirectError(w, r, err, "/edit-job/"+jobID)
		return
	}

	if _, err := h.service.Edit(r.Context(), user.ID, jobID, in); err != nil {
		redirectError(w, r, err, user.Role.DashboardPath())
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "求人を更新しました。", "/employer/dashboard")
}

// DeleteJob は求人を削除する。所有者のみ。
// GET /delete-job/{id}
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	jobID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), user, jobID); err != nil {
		redirectError(w, r, err, user.Role.DashboardPath())
		return
	}

	redirectWithFlash(w, r, middleware.FlashSuccess, "求人を削除しました。", "/employer/dashboard")
}

// parseJobForm は求人フォームの入力を読み取る。
func parseJobForm(r *http.Request) (job.PostInput, error) {
	if err := r.ParseForm(); err != nil {
		return job.PostInput{}, &model.ValidationError{Fields: []model.FieldError{
			{Field: "form", Message: "フォームの解析に失敗しました。"},
		}}
	}

	salary := 0.0
	if s := strings.TrimSpace(r.PostFormValue("salary")); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return job.PostInput{}, &model.ValidationError{Fields: []model.FieldError{
				{Field: "salary", Message: "給与は0以上の数値で入力してください。"},
			}}
		}
		salary = parsed
	}

	return job.PostInput{
		Title:       r.PostFormValue("title"),
		Company:     r.PostFormValue("company"),
		Salary:      salary,
		Location:    r.PostFormValue("location"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
	}, nil
}

// flashPayload はフラッシュメッセージのJSON表現を返す。メッセージがなければnil。
func flashPayload(kind, message string) map[string]string {
	if message == "" {
		return nil
	}
	return map[string]string{"kind": kind, "message": message}
}
