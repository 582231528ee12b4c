package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soovittt/RL-Studio-sub001/internal/session"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	sess, err := session.New(envspec.CreateDefault(envspec.EnvGrid, "preview"), session.Config{}, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)
	return New(sess, 0)
}

func TestHandleSpec(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.handleSpec(rec, httptest.NewRequest(http.MethodGet, "/api/spec", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"preview"`) {
		t.Errorf("spec body missing name: %s", rec.Body.String())
	}
}

func TestHandleSpecEditRejectsMalformed(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/spec", strings.NewReader(`{"id":`))
	srv.handleSpecEdit(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed edit status = %d", rec.Code)
	}

	// The prior spec is retained.
	rec = httptest.NewRecorder()
	srv.handleSpec(rec, httptest.NewRequest(http.MethodGet, "/api/spec", nil))
	if !strings.Contains(rec.Body.String(), `"name":"preview"`) {
		t.Error("rejected edit should not change the served spec")
	}
}

func TestHandleSpecEditApplies(t *testing.T) {
	srv := testServer(t)

	edited := srv.session.Current()
	edited.Name = "edited"
	data, err := envspec.MarshalDocument(edited)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/spec", strings.NewReader(string(data)))
	srv.handleSpecEdit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"name":"edited"`) {
		t.Error("edit should be reflected in the response")
	}
}

func TestHandleScene(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.handleScene(rec, httptest.NewRequest(http.MethodGet, "/api/scene", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"scene_graph"`) || !strings.Contains(body, `"rl_config"`) {
		t.Errorf("scene body incomplete: %s", body)
	}
}

func TestHandleUndoConflictWhenEmpty(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.handleUndo(rec, httptest.NewRequest(http.MethodPost, "/api/undo", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("undo with no history should conflict, got %d", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"agent_count":1`) {
		t.Errorf("stats body = %s", rec.Body.String())
	}
}
