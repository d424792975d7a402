package wizard

import "context"

// Step describes a single wizard page. Steps are immutable once a controller
// has been built from them.
type Step struct {
	ID             string            `json:"id" yaml:"id"`
	Title          string            `json:"title" yaml:"title"`
	TitleLocalized map[string]string `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	Order          int               `json:"order" yaml:"order"`
}

// StepValidator decides whether a step's required fields are populated.
// Validators must be pure: they only read the snapshot they are given.
type StepValidator func(Snapshot) bool

// StepState is the derived view of a step for renderers.
type StepState struct {
	Step       Step `json:"step"`
	Current    bool `json:"current"`
	Complete   bool `json:"complete"`
	Navigable  bool `json:"navigable"`
	IsLastStep bool `json:"is_last_step"`
}

// Progress summarizes completion across all steps.
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// FileHandle is an opaque reference handed over by the host file picker.
// The wizard stores it verbatim and never reads the underlying file.
type FileHandle struct {
	Name        string `json:"name" yaml:"name"`
	Ref         string `json:"ref" yaml:"ref"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// IsZero reports whether the handle carries no reference.
func (h FileHandle) IsZero() bool {
	return h.Ref == "" && h.Name == ""
}

// NotificationKind classifies user-facing toasts.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier surfaces toasts. Calls are fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, message string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, kind NotificationKind, message string)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, kind NotificationKind, message string) {
	f(ctx, kind, message)
}

// Notifiers fans a toast out to every non-nil notifier.
type Notifiers []Notifier

// Notify forwards the toast in order.
func (n Notifiers) Notify(ctx context.Context, kind NotificationKind, message string) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(ctx, kind, message)
		}
	}
}

// Navigator moves the host UI to another route.
type Navigator interface {
	NavigateTo(ctx context.Context, path string)
}

// Submitter receives the final form snapshot when the last step is confirmed.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, data Snapshot) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, sessionID string, data Snapshot) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, sessionID string, data Snapshot) error {
	return f(ctx, sessionID, data)
}

// Telemetry records wizard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Notification is the payload fanned out by BroadcastNotifier.
type Notification struct {
	Seq     uint64           `json:"seq"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, NotificationKind, string) {}

type noopNavigator struct{}

func (noopNavigator) NavigateTo(context.Context, string) {}

// acceptAllSubmitter is the default mock backend: submission always succeeds.
type acceptAllSubmitter struct{}

func (acceptAllSubmitter) Submit(context.Context, string, Snapshot) error { return nil }
