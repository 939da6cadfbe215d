package provisioning

import (
	"fmt"
	"time"
)

// Run holds the mutable state of one provisioning run. It is owned and
// mutated exclusively by the orchestrator's single worker goroutine and
// progressively populated as phases complete.
type Run struct {
	// Prepared by the naming phase
	Names []string

	// Issued by the key phase, indexed by repository position
	Keys []string

	// Pre-read secret values, keyed by secret name, for import_file sources
	FileValues map[string][]string

	// Shared KEY=VALUE secrets applied identically to every repository
	SharedSecrets [][2]string

	// Repository loop accumulators
	Cursor              int
	Created             []string
	Failed              []string
	Errors              []string
	ConsecutiveFailures int

	// BackupFile is the local key-backup path, when written.
	BackupFile string
}

// NewRun creates an empty run state.
func NewRun() *Run {
	return &Run{
		FileValues: make(map[string][]string),
	}
}

// Warn records a non-fatal problem in the run's error list.
func (r *Run) Warn(format string, v ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, v...))
}

// Result is the final outcome of a provisioning run.
type Result struct {
	// Success is true when at least one repository was created.
	Success   bool
	Message   string
	Created   []string
	Failed    []string
	Errors    []string
	KeyCount  int
	Backup    string
	Elapsed   time.Duration
	Cancelled bool
}
