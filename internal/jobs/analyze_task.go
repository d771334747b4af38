package jobs

import (
	"context"
	"fmt"

	"github.com/jackzampolin/docustruct/internal/outline"
)

// TaskAnalyze is the CPU task name for outline analysis.
const TaskAnalyze = "analyze"

// AnalyzeRequest is the payload of an analyze task. Set exactly one of Data or Path.
type AnalyzeRequest struct {
	Data     []byte
	Path     string
	MaxPages int
}

// NewAnalyzeHandler returns a CPU task handler that runs the analyzer.
func NewAnalyzeHandler(a *outline.Analyzer) CPUTaskHandler {
	return func(ctx context.Context, req *CPUWorkRequest) (*CPUWorkResult, error) {
		ar, ok := req.Data.(*AnalyzeRequest)
		if !ok || ar == nil {
			return nil, fmt.Errorf("analyze task: unexpected payload %T", req.Data)
		}

		var (
			result *outline.Result
			err    error
		)
		if ar.Path != "" {
			result, err = a.AnalyzeFile(ar.Path, ar.MaxPages)
		} else {
			result, err = a.AnalyzeBytes(ar.Data, ar.MaxPages)
		}
		if err != nil {
			return nil, err
		}
		return &CPUWorkResult{Data: result}, nil
	}
}

// Analyze runs an analyze task on the pool and waits for the outline.
func Analyze(ctx context.Context, pool *CPUWorkerPool, req *AnalyzeRequest) (*outline.Result, error) {
	res, err := pool.Do(ctx, &CPUWorkRequest{Task: TaskAnalyze, Data: req})
	if err != nil {
		return nil, err
	}
	result, ok := res.Data.(*outline.Result)
	if !ok {
		return nil, fmt.Errorf("analyze task: unexpected result %T", res.Data)
	}
	return result, nil
}
