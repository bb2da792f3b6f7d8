package verifier

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type LogEntry struct {
	Reason      string
	ErrorDetail error
}

// Reporter accumulates verification failures and writes them to a
// report file on Flush. It is safe for concurrent use by the verify
// workers.
type Reporter struct {
	mu         sync.Mutex
	entries    []LogEntry
	outputPath string
}

func NewReporter(outputPath string) (*Reporter, error) {
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of output path: %w", err)
	}
	return &Reporter{
		outputPath: outputPath,
	}, nil
}

func (r *Reporter) Record(reason string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, LogEntry{
		Reason:      reason,
		ErrorDetail: err,
	})
}

// Len returns the number of recorded failures.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Reporter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return
	}

	slog.Info("Start writing error report to file:", slog.String("OutputPath", r.outputPath), slog.Int("ErrorCount", len(r.entries)))

	file, err := os.Create(r.outputPath)
	if err != nil {
		slog.Error("Failed to create error report file:", slog.String("OutputPath", r.outputPath), slog.Any("Error", err))
		return
	}
	defer file.Close()

	for _, entry := range r.entries {
		file.WriteString(fmt.Sprintf("[%s] %s\n", entry.Reason, entry.ErrorDetail.Error()))
	}

	slog.Info("Finish writing error report to file:", slog.String("OutputPath", r.outputPath))
}
