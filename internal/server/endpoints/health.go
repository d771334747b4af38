package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/jobs"
	"github.com/jackzampolin/docustruct/internal/svcctx"
	"github.com/jackzampolin/docustruct/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine,omitempty"`
	Pool   string `json:"pool,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Liveness check
//	@Description	Returns ok whenever the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Returns ok only when the PDF engine is available and the analysis pool is running
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Engine: "ok", Pool: "running"}
	status := http.StatusOK

	if analyzer := svcctx.AnalyzerFrom(r.Context()); analyzer == nil || !analyzer.Available() {
		resp.Status = "degraded"
		resp.Engine = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if pool := svcctx.PoolFrom(r.Context()); pool == nil || !pool.Running() {
		resp.Status = "degraded"
		resp.Pool = "not_running"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (engine and worker pool)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			fmt.Printf("Engine: %s\n", resp.Engine)
			fmt.Printf("Pool:   %s\n", resp.Pool)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server   string           `json:"server"`
	Version  string           `json:"version"`
	Home     string           `json:"home,omitempty"`
	Pool     *jobs.PoolStatus `json:"pool,omitempty"`
	Analysis *AnalysisStatus  `json:"analysis,omitempty"`
}

// AnalysisStatus shows the heuristics currently in effect.
type AnalysisStatus struct {
	H1Ratio        float64 `json:"h1_ratio"`
	H2Ratio        float64 `json:"h2_ratio"`
	MaxHeadingLen  int     `json:"max_heading_len"`
	WordsPerMinute int     `json:"words_per_minute"`
	MaxPages       int     `json:"max_pages"`
	MaxUploadMB    int     `json:"max_upload_mb"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Worker pool counters and the analysis settings in effect
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}
	if h := svcctx.HomeFrom(r.Context()); h != nil {
		resp.Home = h.Path()
	}

	if pool := svcctx.PoolFrom(r.Context()); pool != nil {
		st := pool.Status()
		resp.Pool = &st
	}

	if analyzer := svcctx.AnalyzerFrom(r.Context()); analyzer != nil {
		opts := analyzer.Options()
		resp.Analysis = &AnalysisStatus{
			H1Ratio:        opts.H1Ratio,
			H2Ratio:        opts.H2Ratio,
			MaxHeadingLen:  opts.MaxHeadingLen,
			WordsPerMinute: opts.WordsPerMinute,
		}
		if cfg := svcctx.ConfigFrom(r.Context()); cfg != nil {
			resp.Analysis.MaxPages = cfg.Analysis.MaxPages
			resp.Analysis.MaxUploadMB = cfg.Server.MaxUploadMB
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
