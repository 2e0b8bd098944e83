package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/domain"
)

const tasksJSON = `[
	{"id": 1, "name": "fetch-user-profile", "type": "io", "duration": 30},
	{"id": 2, "name": "resize-avatar", "type": "compute", "duration": 50},
	{"id": 3, "name": "flaky-webhook", "type": "error", "duration": 10}
]`

func newApp(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"tasks.json": tasksJSON,
		"index.html": "<!doctype html><title>demo</title>",
		"style.css":  "body { color: red }",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s err=%v", name, err)
		}
	}

	cfg := &config.Config{
		Server: config.Server{Port: 0, StaticDir: dir},
		Tasks:  config.Tasks{File: filepath.Join(dir, "tasks.json"), DefaultDuration: 300 * time.Millisecond},
	}
	return api.NewServer(cfg).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body err=%v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)
	return rr
}

type runResponse struct {
	OK        bool              `json:"ok"`
	RunID     string            `json:"run_id"`
	Policy    string            `json:"policy"`
	Results   []domain.Result   `json:"results"`
	Partial   []domain.Result   `json:"partial"`
	ElapsedMS int64             `json:"elapsed_ms"`
	Error     *domain.TaskError `json:"error"`
}

func TestGET_Tasks(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodGet, "/api/tasks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var out []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len=%d, want 3", len(out))
	}
	if out[0]["name"] != "fetch-user-profile" || out[0]["duration_ms"] != float64(30) {
		t.Fatalf("out[0]=%v", out[0])
	}
}

func TestPOST_Runs_ParallelSkippingErrors(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodPost, "/api/runs", map[string]any{
		"policy":      "parallel",
		"skip_errors": true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var out runResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if !out.OK || out.Error != nil {
		t.Fatalf("out=%+v, want success", out)
	}
	if len(out.Results) != 2 {
		t.Fatalf("results=%d, want the 2 runnable tasks", len(out.Results))
	}
	if out.RunID == "" {
		t.Fatal("run_id missing")
	}
}

func TestPOST_Runs_SequentialHitsFailure(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodPost, "/api/runs", map[string]any{"policy": "sequential"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var out runResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if out.OK {
		t.Fatalf("out=%+v, want failure", out)
	}
	if out.Error == nil || out.Error.Kind != domain.KindProcessing {
		t.Fatalf("error=%+v, want processing kind", out.Error)
	}
	if out.Error.TaskID != 3 || out.Error.TaskName != "flaky-webhook" {
		t.Fatalf("error=%+v, want the failing task's identity", out.Error)
	}
	if len(out.Partial) != 2 {
		t.Fatalf("partial=%d, want the 2 results before the failure", len(out.Partial))
	}
}

func TestPOST_Runs_UnknownPolicy_400(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodPost, "/api/runs", map[string]any{"policy": "shuffle"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 body=%s", rr.Code, rr.Body.String())
	}
}

func TestPOST_Runs_InvalidJSON_400(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewBufferString("{bad"))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rr.Code)
	}
}

func TestStatic_ServesFromClosedMIMETable(t *testing.T) {
	app := newApp(t)

	cases := []struct {
		path string
		ct   string
	}{
		{"/", "text/html; charset=utf-8"},
		{"/index.html", "text/html; charset=utf-8"},
		{"/style.css", "text/css; charset=utf-8"},
		{"/tasks.json", "application/json"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", tc.path, rr.Code)
		}
		if got := rr.Header().Get("Content-Type"); got != tc.ct {
			t.Fatalf("GET %s content-type=%q, want %q", tc.path, got, tc.ct)
		}
		if rr.Body.Len() == 0 {
			t.Fatalf("GET %s empty body", tc.path)
		}
	}
}

func TestStatic_MissingResource_404(t *testing.T) {
	app := newApp(t)

	for _, p := range []string{"/missing.css", "/nested/none.html", "/../go.mod"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s status=%d, want 404", p, rr.Code)
		}
	}
}
