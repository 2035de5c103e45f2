package build

import "time"

// Stage represents a build stage.
type Stage string

const (
	StageAssembling Stage = "assembling"
	StageWriting    Stage = "writing"
	StageParameters Stage = "parameters"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageAssembling:
		return "Assembling"
	case StageWriting:
		return "Writing"
	case StageParameters:
		return "Writing Parameters"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// ProgressEvent represents a build progress update for one variant.
type ProgressEvent struct {
	Stage     Stage
	Variant   string
	Message   string
	Detail    string
	IsError   bool
	Timestamp time.Time
}

// NewProgressEvent creates a new progress event.
func NewProgressEvent(stage Stage, variant, message string) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Variant:   variant,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates a new error progress event.
func NewErrorEvent(variant string, err error) ProgressEvent {
	return ProgressEvent{
		Stage:     StageError,
		Variant:   variant,
		Message:   "build failed",
		Detail:    err.Error(),
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// ProgressCallback is called with progress updates during a build.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		events: make([]ProgressEvent, 0),
	}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}

// Errors returns all error events.
func (t *ProgressTracker) Errors() []ProgressEvent {
	var errors []ProgressEvent
	for _, e := range t.events {
		if e.IsError {
			errors = append(errors, e)
		}
	}
	return errors
}
