package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/engine"
	"github.com/jackzampolin/docustruct/internal/home"
	"github.com/jackzampolin/docustruct/internal/svcctx"
)

func get(ep api.Endpoint, s *svcctx.Services, path string) *httptest.ResponseRecorder {
	_, _, handler := ep.Route()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if s != nil {
		req = req.WithContext(svcctx.WithServices(req.Context(), s))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(&HealthEndpoint{}, nil, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"status\":\"ok\"}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("no services", func(t *testing.T) {
		rec := get(&ReadyEndpoint{}, nil, "/ready")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
		var resp HealthResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Status != "degraded" || resp.Engine != "unavailable" || resp.Pool != "not_running" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("running", func(t *testing.T) {
		s := newServices(t, engine.New(engine.Config{}), nil)
		rec := get(&ReadyEndpoint{}, s, "/ready")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body = %s", rec.Code, rec.Body.String())
		}
	})
}

func TestStatusEndpoint(t *testing.T) {
	s := newServices(t, engine.New(engine.Config{}), nil)
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s.Home = h
	rec := get(&StatusEndpoint{}, s, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Home != h.Path() {
		t.Errorf("Home = %q, want %q", resp.Home, h.Path())
	}
	if resp.Pool == nil || !resp.Pool.Running || resp.Pool.Workers != 2 {
		t.Errorf("Pool = %+v", resp.Pool)
	}
	if resp.Analysis == nil || resp.Analysis.H1Ratio != 1.45 || resp.Analysis.MaxHeadingLen != 200 {
		t.Errorf("Analysis = %+v", resp.Analysis)
	}
}

func TestSwaggerEndpoint(t *testing.T) {
	rec := get(&SwaggerEndpoint{}, nil, "/swagger.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("swagger.json is not valid JSON: %v", err)
	}
	info, _ := spec["info"].(map[string]any)
	if info["title"] != "DocuStruct API" {
		t.Errorf("info = %v", info)
	}

	rec = get(&SwaggerEndpoint{SpecPath: "/does/not/exist.json"}, nil, "/swagger.json")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAll(t *testing.T) {
	seen := make(map[string]bool)
	for _, ep := range All(Config{}) {
		method, path, _ := ep.Route()
		key := method + " " + path
		if seen[key] {
			t.Errorf("duplicate route %s", key)
		}
		seen[key] = true
		if ep.Command(func() string { return "http://localhost" }) == nil {
			t.Errorf("%s has no command", key)
		}
	}
	for _, want := range []string{"GET /health", "GET /ready", "GET /status", "POST /analyze", "GET /swagger.json"} {
		if !seen[want] {
			t.Errorf("missing route %s", want)
		}
	}
}
