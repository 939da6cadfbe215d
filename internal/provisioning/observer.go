package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Logger is the minimal logging interface used throughout the run.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during a run.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports overall run progress as a percentage with the
	// current step and activity.
	Progress(percent int, step, activity string)

	// Stats reports repository counters after each repository completes.
	Stats(stats Stats)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type       EventType         // Type of event
	Phase      string            // Phase name (e.g., "creating-repositories")
	Message    string            // Human-readable message
	Repository string            // Repository name if applicable
	Timestamp  time.Time         // When the event occurred
	Fields     map[string]string // Additional contextual fields
}

// Stats holds the running repository counters of a run.
type Stats struct {
	Total   int
	Current int
	Created int
	Failed  int
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventRepoCreating indicates a repository is being created.
	EventRepoCreating EventType = "repository.creating"
	// EventRepoCreated indicates a repository was created successfully.
	EventRepoCreated EventType = "repository.created"
	// EventRepoFailed indicates repository creation failed.
	EventRepoFailed EventType = "repository.failed"

	// EventKeyIssued indicates an auth key was issued.
	EventKeyIssued EventType = "key.issued"

	// EventWarning indicates a non-fatal problem recorded in the run's
	// error list.
	EventWarning EventType = "warning"

	// EventRunAborted indicates the consecutive-failure breaker tripped.
	EventRunAborted EventType = "run.aborted"
	// EventRunCancelled indicates the run was cancelled cooperatively.
	EventRunCancelled EventType = "run.cancelled"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Merge context fields
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	log.Print(o.formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(percent int, step, activity string) {
	log.Printf("[%3d%%] %s: %s", percent, step, activity)
}

// Stats implements Observer.
func (o *ConsoleObserver) Stats(stats Stats) {
	log.Printf("repositories: %d/%d processed, %d created, %d failed",
		stats.Current, stats.Total, stats.Created, stats.Failed)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string)
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		contextFields: newFields,
	}
}

// formatEvent formats an event for console output.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", event.Repository))
	}

	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}
