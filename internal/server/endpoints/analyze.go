package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/config"
	"github.com/jackzampolin/docustruct/internal/engine"
	"github.com/jackzampolin/docustruct/internal/jobs"
	"github.com/jackzampolin/docustruct/internal/outline"
	"github.com/jackzampolin/docustruct/internal/resultschema"
	"github.com/jackzampolin/docustruct/internal/svcctx"
)

const pdfMediaType = "application/pdf"

// multipartOverhead is allowed on top of the upload cap for form boundaries and headers.
const multipartOverhead = 1 << 20

var (
	errNotPDF   = errors.New("only application/pdf is supported")
	errTooLarge = errors.New("file too large")
	errNoFile   = errors.New(`multipart field "file" is required`)
)

// AnalyzeEndpoint handles POST /analyze.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Outline a PDF
//	@Description	Upload a PDF as multipart field "file" (or as a raw application/pdf body)
//	@Description	and receive its title, heading outline and stats.
//	@Tags			analyze
//	@Accept			mpfd
//	@Accept			application/pdf
//	@Produce		json
//	@Param			file		formData	file	true	"PDF document"
//	@Param			max_pages	query		int		false	"Analyze only the first N pages (0 = all)"
//	@Success		200			{object}	outline.Result
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Failure		504			{object}	ErrorResponse
//	@Router			/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	analyzer := svcctx.AnalyzerFrom(ctx)
	pool := svcctx.PoolFrom(ctx)
	if analyzer == nil || pool == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}
	if !analyzer.Available() {
		writeError(w, http.StatusServiceUnavailable, outline.ErrEngineUnavailable.Error())
		return
	}

	logger := svcctx.LoggerFrom(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	cfg := svcctx.ConfigFrom(ctx)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	maxPages := cfg.Analysis.MaxPages
	if v := r.URL.Query().Get("max_pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid max_pages %q", v))
			return
		}
		maxPages = n
	}

	limit := cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	data, err := readUpload(r, limit)
	if err != nil {
		switch {
		case errors.Is(err, errTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file too large (max %d MB)", cfg.Server.MaxUploadMB))
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	pages, err := engine.ProbeBytes(data)
	if err != nil {
		logger.Debug("rejected upload", "bytes", len(data), "error", err)
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("%v: %v", outline.ErrOpen, err))
		return
	}

	if timeout := cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := jobs.Analyze(ctx, pool, &jobs.AnalyzeRequest{Data: data, MaxPages: maxPages})
	if err != nil {
		status := statusFor(err)
		logger.Warn("analysis failed", "bytes", len(data), "pages", pages, "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	logger.Info("analyzed upload", "bytes", len(data), "pages", result.Stats.Pages,
		"sections", len(result.Sections))
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps analysis errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, outline.ErrOpen):
		return http.StatusUnprocessableEntity
	case errors.Is(err, outline.ErrEngineUnavailable),
		errors.Is(err, jobs.ErrWorkerQueueFull),
		errors.Is(err, jobs.ErrPoolNotRunning),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// readUpload returns the PDF bytes from either a multipart "file" part or a
// raw application/pdf body.
func readUpload(r *http.Request, limit int64) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, errNotPDF
	}

	switch mediaType {
	case pdfMediaType:
		return readLimited(r.Body, limit)

	case "multipart/form-data":
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil, errNoFile
			}
			if err != nil {
				return nil, fmt.Errorf("failed to parse form: %w", asTooLarge(err))
			}
			if part.FormName() != "file" {
				part.Close()
				continue
			}
			defer part.Close()

			partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
			if partType != pdfMediaType {
				return nil, errNotPDF
			}
			return readLimited(part, limit)
		}

	default:
		return nil, errNotPDF
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", asTooLarge(err))
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

// asTooLarge converts the body limit error into errTooLarge.
func asTooLarge(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errTooLarge
	}
	return err
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		maxPages int
		outFile  string
	)
	cmd := &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Outline a PDF on the running server",
		Long: `Upload a PDF to the running server and print its outline.

The response is checked against the published result schema before it is
printed. With --out the outline is written as indented JSON to that file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			query := url.Values{}
			if cmd.Flags().Changed("max-pages") {
				query.Set("max_pages", strconv.Itoa(maxPages))
			}

			client := api.NewClient(getServerURL())
			var raw json.RawMessage
			if err := client.PostFile(cmd.Context(), "/analyze", query, path, data, &raw); err != nil {
				return err
			}
			if err := resultschema.Validate(raw); err != nil {
				return err
			}

			var result outline.Result
			if err := json.Unmarshal(raw, &result); err != nil {
				return fmt.Errorf("failed to decode result: %w", err)
			}

			if outFile != "" {
				if err := api.OutputToFile(outFile, api.OutputFormatJSON, result); err != nil {
					return err
				}
				fmt.Printf("Wrote: %s\n", outFile)
				return nil
			}
			return api.Output(result)
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Analyze only the first N pages (0 = all)")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the outline as JSON to this file")
	return cmd
}
