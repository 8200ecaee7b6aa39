package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue は指定メトリクスの指定ラベルの値を返すヘルパー。
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" && len(m.GetLabel()) == 0 {
				return m.GetCounter().GetValue()
			}
			for _, l := range m.GetLabel() {
				if l.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s (label %q) not found", name, labelValue)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordRegistration_CountsByRole は登録数がロール別に集計されることを検証する。
func TestRecordRegistration_CountsByRole(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration("jobseeker")
	c.RecordRegistration("jobseeker")
	c.RecordRegistration("employer")

	if v := counterValue(t, reg, "jobportal_registrations_total", "jobseeker"); v != 2 {
		t.Errorf("jobseeker registrations = %v, want 2", v)
	}
	if v := counterValue(t, reg, "jobportal_registrations_total", "employer"); v != 1 {
		t.Errorf("employer registrations = %v, want 1", v)
	}
}

// TestRecordLogin_CountsByResult はログイン試行が結果別に集計されることを検証する。
func TestRecordLogin_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)

	if v := counterValue(t, reg, "jobportal_logins_total", "success"); v != 1 {
		t.Errorf("login successes = %v, want 1", v)
	}
	if v := counterValue(t, reg, "jobportal_logins_total", "failure"); v != 2 {
		t.Errorf("login failures = %v, want 2", v)
	}
}

// TestRecordApplicationAndMailFailure は単純カウンタの増加を検証する。
func TestRecordApplicationAndMailFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordApplication()
	c.RecordApplication()
	c.RecordMailFailure()
	c.RecordJobsImported(5)

	if v := counterValue(t, reg, "jobportal_applications_total", ""); v != 2 {
		t.Errorf("applications = %v, want 2", v)
	}
	if v := counterValue(t, reg, "jobportal_mail_failures_total", ""); v != 1 {
		t.Errorf("mail failures = %v, want 1", v)
	}
	if v := counterValue(t, reg, "jobportal_jobs_imported_total", ""); v != 5 {
		t.Errorf("jobs imported = %v, want 5", v)
	}
}

// TestRecordHTTPStatus はステータスコード別の集計を検証する。
func TestRecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if v := counterValue(t, reg, "jobportal_http_status_total", "200"); v != 2 {
		t.Errorf("status 200 = %v, want 2", v)
	}
	if v := counterValue(t, reg, "jobportal_http_status_total", "404"); v != 1 {
		t.Errorf("status 404 = %v, want 1", v)
	}
}

// TestMiddleware_RecordsStatusAndLatency はミドルウェア経由の記録を検証する。
func TestMiddleware_RecordsStatusAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Millisecond)
		w.WriteHeader(http.StatusSeeOther)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if v := counterValue(t, reg, "jobportal_http_status_total", "303"); v != 1 {
		t.Errorf("status 303 = %v, want 1", v)
	}

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range metrics {
		if mf.GetName() == "jobportal_request_latency_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("latency sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("jobportal_request_latency_seconds metric not found")
	}
}

// TestHandler_ServesPrometheusFormat は/metricsのスクレイプ応答を検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordApplication()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "jobportal_applications_total 1") {
		t.Errorf("body does not contain applications counter:\n%s", body)
	}
}
