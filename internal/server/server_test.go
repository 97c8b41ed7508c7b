package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/catalog"
)

func newTestServer(t *testing.T) (*Server, *Monitor) {
	t.Helper()

	c, err := catalog.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	monitor := NewMonitor()
	return New(Config{Monitor: monitor, Catalog: c}), monitor
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestHandleStatus(t *testing.T) {
	srv, monitor := newTestServer(t)

	monitor.Publish(Status{
		State:       "recording",
		Label:       "hello",
		SavedCount:  2,
		TargetCount: 5,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got Status
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.State != "recording" || got.Label != "hello" || got.SavedCount != 2 || got.TargetCount != 5 {
		t.Errorf("unexpected status: %+v", got)
	}
}

func TestHandleClips(t *testing.T) {
	srv, _ := newTestServer(t)

	clip := &catalog.Clip{Label: "hello", Index: 1, Path: "hello/hello_1.mp4", Frames: 40, FPS: 30}
	if err := srv.config.Catalog.Clips().Record(clip); err != nil {
		t.Fatalf("failed to record clip: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/clips?label=hello", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var clips []catalog.Clip
	if err := json.Unmarshal(w.Body.Bytes(), &clips); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(clips) != 1 || clips[0].Index != 1 {
		t.Errorf("unexpected clips: %+v", clips)
	}
}

func TestHandleClips_MissingLabel(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/clips", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleClips_UnknownLabelReturnsEmptyList(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/clips?label=nothing", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []string{"/api/health", "/api/status", "/api/clips?label=hello"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want %d", path, w.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestMonitor_PublishAndRead(t *testing.T) {
	m := NewMonitor()

	if m.Frame() != nil {
		t.Error("fresh monitor should have no frame")
	}

	jpeg := []byte{0xff, 0xd8, 0xff, 0xd9}
	m.Publish(Status{State: "idle", Label: "hello"}, jpeg)

	if got := m.Status(); got.State != "idle" || got.Label != "hello" {
		t.Errorf("unexpected status: %+v", got)
	}
	if got := m.Frame(); string(got) != string(jpeg) {
		t.Errorf("Frame() = %v, want %v", got, jpeg)
	}
}
