package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"clipcast/processor"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	proc := processor.New(nil, nil, nil, 0, nil, nil, nil, processor.Options{})
	return NewServer(proc).Router()
}

func TestStartJobStatusAvailableImmediately(t *testing.T) {
	router := newTestRouter()

	body := `{"file_path":"/tmp/clip.mp4","platform":"tiktok"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("submit returned %d; want 202", w.Code)
	}
	var accepted struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if accepted.UUID == "" {
		t.Fatal("submit response missing uuid")
	}

	// A poll issued right after the 202 must find the job, even if the
	// processing goroutine has not run yet.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/jobs/"+accepted.UUID+"/status", nil)
	router.ServeHTTP(w2, req2)

	if w2.Code != http.StatusOK {
		t.Fatalf("status returned %d immediately after submit; want 200", w2.Code)
	}
}

func TestStartJobValidation(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"missing file_path", `{"platform":"tiktok"}`},
		{"missing platform", `{"file_path":"/tmp/clip.mp4"}`},
		{"malformed json", `{`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(c.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("submit returned %d; want 400", w.Code)
			}
		})
	}
}

func TestJobStatusUnknown(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/no-such-job/status", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status returned %d for unknown job; want 404", w.Code)
	}
}
