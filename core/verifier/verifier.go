package verifier

import (
	"context"
)

// Verifier checks a target tree against a previously collected
// metadata file.
type Verifier interface {
	Verify(ctx context.Context, filePath string, workerCount int) error
}
