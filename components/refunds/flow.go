package refunds

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Stage is a step of the refund dialog.
type Stage string

const (
	StageDetails    Stage = "details"
	StageConfirm    Stage = "confirm"
	StageProcessing Stage = "processing"
	StageDone       Stage = "done"
)

var (
	// ErrWrongStage is returned when an action does not apply to the current stage.
	ErrWrongStage = errors.New("refunds: action not allowed in current stage")
	// ErrDeclined is returned when the gateway rejects the refund.
	ErrDeclined = errors.New("refunds: refund declined")
)

// Request is the refund being prepared in the dialog.
type Request struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason,omitempty"`
}

// Default toasts of the refund dialog.
const (
	DefaultSuccessMessage = "Refund processed successfully."
	DefaultErrorMessage   = "Refund failed. Please try again."
)

// FlowOptions configures a Flow.
type FlowOptions struct {
	Gateway        Gateway
	Notifier       wizard.Notifier
	Telemetry      wizard.Telemetry
	SuccessMessage string
	ErrorMessage   string
}

// Flow is the refund dialog: details, confirm, processing, done. A failed
// refund reverts to confirm so the admin can retry or go back.
type Flow struct {
	opts FlowOptions

	mu      sync.Mutex
	stage   Stage
	request Request
}

// NewFlow builds a flow positioned on the details stage.
func NewFlow(opts FlowOptions) *Flow {
	if opts.Gateway == nil {
		opts.Gateway = NewMockGateway()
	}
	if opts.Notifier == nil {
		opts.Notifier = wizard.NotifierFunc(func(context.Context, wizard.NotificationKind, string) {})
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noopTelemetry{}
	}
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = DefaultSuccessMessage
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = DefaultErrorMessage
	}
	return &Flow{opts: opts, stage: StageDetails}
}

// Stage returns the current dialog stage.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Request returns the refund being prepared.
func (f *Flow) Request() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.request
}

// Confirm records the refund details and moves to the confirm stage.
func (f *Flow) Confirm(req Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageDetails {
		return fmt.Errorf("%w: %s", ErrWrongStage, f.stage)
	}
	if err := validate(req.BookingID, req.Amount); err != nil {
		return err
	}
	f.request = req
	f.stage = StageConfirm
	return nil
}

// Back returns from confirm to details.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageConfirm {
		return fmt.Errorf("%w: %s", ErrWrongStage, f.stage)
	}
	f.stage = StageDetails
	return nil
}

// Process calls the gateway. Success moves to done; a decline or error
// notifies and reverts to confirm. Concurrent calls while processing fail
// with ErrWrongStage.
func (f *Flow) Process(ctx context.Context) error {
	f.mu.Lock()
	if f.stage != StageConfirm {
		stage := f.stage
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongStage, stage)
	}
	f.stage = StageProcessing
	req := f.request
	f.mu.Unlock()

	ok, err := f.opts.Gateway.ProcessRefund(ctx, req.BookingID, req.Amount)
	if err == nil && !ok {
		err = ErrDeclined
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	payload := map[string]any{"booking_id": req.BookingID, "amount": req.Amount}
	if err != nil {
		f.stage = StageConfirm
		payload["error"] = err.Error()
		f.opts.Telemetry.Record(ctx, "refund.failed", payload)
		f.opts.Notifier.Notify(ctx, wizard.NotifyError, f.opts.ErrorMessage)
		return err
	}
	f.stage = StageDone
	f.opts.Telemetry.Record(ctx, "refund.processed", payload)
	f.opts.Notifier.Notify(ctx, wizard.NotifySuccess, f.opts.SuccessMessage)
	return nil
}

// Reset clears the dialog back to an empty details stage.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.stage = StageDetails
	f.request = Request{}
	f.mu.Unlock()
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}
