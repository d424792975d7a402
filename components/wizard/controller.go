package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownStep is returned when a step id is not part of the wizard.
	ErrUnknownStep = errors.New("wizard: unknown step")
	// ErrStepNotNavigable is returned by JumpTo when the jump policy forbids the target.
	ErrStepNotNavigable = errors.New("wizard: step is not navigable")
	// ErrStepIncomplete is returned by GoNext when the advance policy requires completion.
	ErrStepIncomplete = errors.New("wizard: current step is incomplete")
	// ErrClosed is returned once the wizard has been submitted or cancelled.
	ErrClosed = errors.New("wizard: session is closed")

	errNoSteps = errors.New("wizard: at least one step is required")
)

// DefaultSubmitErrorMessage is the generic toast shown when submission fails.
const DefaultSubmitErrorMessage = "Something went wrong while submitting. Please try again."

// JumpPolicy controls direct navigation through step indicators.
type JumpPolicy int

const (
	// JumpCompleteOnly allows jumping to the current step or to complete steps.
	JumpCompleteOnly JumpPolicy = iota
	// JumpAnywhere allows jumping to any step regardless of completion.
	JumpAnywhere
)

// AdvancePolicy controls whether Next requires the current step to be complete.
type AdvancePolicy int

const (
	// AdvanceFree lets Next move forward regardless of completion.
	AdvanceFree AdvancePolicy = iota
	// AdvanceRequireComplete blocks Next until the current step validates.
	AdvanceRequireComplete
)

// State is the lifecycle of a wizard session.
type State string

const (
	StateOpen      State = "open"
	StateSubmitted State = "submitted"
	StateCancelled State = "cancelled"
)

// Options configures a Controller. Every collaborator is optional and falls
// back to a no-op so the controller can run headless in tests.
type Options struct {
	SessionID      string
	Steps          []Step
	Validators     map[string]StepValidator
	Store          *FieldStore
	Submitter      Submitter
	Notifier       Notifier
	Navigator      Navigator
	Telemetry      Telemetry
	JumpPolicy     JumpPolicy
	AdvancePolicy  AdvancePolicy
	SubmitPath     string
	CancelPath     string
	SuccessMessage string
	ErrorMessage   string
}

// Controller sequences an ordered list of steps over a FieldStore.
type Controller struct {
	mu      sync.Mutex
	opts    Options
	steps   []Step
	index   map[string]int
	current int
	state   State
}

// NewController validates the step list and builds a controller positioned
// on the first step.
func NewController(opts Options) (*Controller, error) {
	if len(opts.Steps) == 0 {
		return nil, errNoSteps
	}
	steps := append([]Step(nil), opts.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	index := make(map[string]int, len(steps))
	for i, step := range steps {
		if step.ID == "" {
			return nil, fmt.Errorf("wizard: step at position %d is missing an id", i)
		}
		if _, exists := index[step.ID]; exists {
			return nil, fmt.Errorf("wizard: duplicate step id %s", step.ID)
		}
		index[step.ID] = i
		steps[i].TitleLocalized = canonicalTitles(step.TitleLocalized)
	}
	if opts.Store == nil {
		opts.Store = NewFieldStore(nil)
	}
	if opts.Submitter == nil {
		opts.Submitter = acceptAllSubmitter{}
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Navigator == nil {
		opts.Navigator = noopNavigator{}
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = DefaultSubmitErrorMessage
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Controller{
		opts:  opts,
		steps: steps,
		index: index,
		state: StateOpen,
	}, nil
}

// SessionID returns the identifier assigned at construction.
func (c *Controller) SessionID() string {
	return c.opts.SessionID
}

// Steps returns the ordered step list.
func (c *Controller) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.current]
}

// CurrentIndex returns the zero based position of the active step.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the session lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Set writes a form field. Completion is re-derived on the next read. A write
// racing a submit either lands in the submitted snapshot or fails with
// ErrClosed.
func (c *Controller) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return ErrClosed
	}
	return c.opts.Store.Set(path, value)
}

// Get reads a form field.
func (c *Controller) Get(path string) (any, bool) {
	return c.opts.Store.Get(path)
}

// Snapshot returns a copy of the current form data.
func (c *Controller) Snapshot() Snapshot {
	return c.opts.Store.Snapshot()
}

// IsStepComplete evaluates the step validator against the current form data.
// Steps without a validator are never complete.
func (c *Controller) IsStepComplete(stepID string) bool {
	return c.isComplete(stepID, c.opts.Store.Snapshot())
}

func (c *Controller) isComplete(stepID string, snap Snapshot) bool {
	validator, ok := c.opts.Validators[stepID]
	if !ok || validator == nil {
		return false
	}
	return validator(snap)
}

// CanNavigateTo reports whether JumpTo(stepID) would succeed.
func (c *Controller) CanNavigateTo(stepID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigableLocked(stepID, c.opts.Store.Snapshot()) == nil
}

func (c *Controller) navigableLocked(stepID string, snap Snapshot) error {
	if c.state != StateOpen {
		return ErrClosed
	}
	target, ok := c.index[stepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	if c.opts.JumpPolicy == JumpAnywhere || target == c.current {
		return nil
	}
	if c.isComplete(stepID, snap) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrStepNotNavigable, stepID)
}

// JumpTo makes stepID the current step, subject to the jump policy.
func (c *Controller) JumpTo(stepID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.navigableLocked(stepID, c.opts.Store.Snapshot()); err != nil {
		return err
	}
	from := c.current
	c.current = c.index[stepID]
	c.record(context.Background(), "wizard.step.jump", from)
	return nil
}

// GoPrevious moves one step back, stopping at the first step.
func (c *Controller) GoPrevious() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return ErrClosed
	}
	if c.current == 0 {
		return nil
	}
	from := c.current
	c.current--
	c.record(context.Background(), "wizard.step.previous", from)
	return nil
}

// GoNext advances one step. On the last step it submits the form instead;
// a successful submit closes the session so it can fire only once.
func (c *Controller) GoNext(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return ErrClosed
	}
	step := c.steps[c.current]
	if c.opts.AdvancePolicy == AdvanceRequireComplete && !c.IsStepComplete(step.ID) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStepIncomplete, step.ID)
	}
	if c.current < len(c.steps)-1 {
		from := c.current
		c.current++
		c.record(ctx, "wizard.step.next", from)
		c.mu.Unlock()
		return nil
	}
	defer c.mu.Unlock()
	return c.submitLocked(ctx)
}

func (c *Controller) submitLocked(ctx context.Context) error {
	snap := c.opts.Store.Snapshot()
	if err := c.opts.Submitter.Submit(ctx, c.opts.SessionID, snap); err != nil {
		c.opts.Notifier.Notify(ctx, NotifyError, c.opts.ErrorMessage)
		c.opts.Telemetry.Record(ctx, "wizard.submit.failed", map[string]any{
			"session_id": c.opts.SessionID,
			"error":      err.Error(),
		})
		return fmt.Errorf("wizard: submit: %w", err)
	}
	c.state = StateSubmitted
	if c.opts.SuccessMessage != "" {
		c.opts.Notifier.Notify(ctx, NotifySuccess, c.opts.SuccessMessage)
	}
	if c.opts.SubmitPath != "" {
		c.opts.Navigator.NavigateTo(ctx, c.opts.SubmitPath)
	}
	c.opts.Telemetry.Record(ctx, "wizard.submit", map[string]any{
		"session_id": c.opts.SessionID,
	})
	return nil
}

// Cancel closes the session without submitting and navigates away.
func (c *Controller) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return ErrClosed
	}
	c.state = StateCancelled
	if c.opts.CancelPath != "" {
		c.opts.Navigator.NavigateTo(ctx, c.opts.CancelPath)
	}
	c.opts.Telemetry.Record(ctx, "wizard.cancel", map[string]any{
		"session_id": c.opts.SessionID,
		"step_id":    c.steps[c.current].ID,
	})
	return nil
}

// StepStates derives the indicator state of every step from one snapshot.
func (c *Controller) StepStates() []StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.opts.Store.Snapshot()
	states := make([]StepState, len(c.steps))
	for i, step := range c.steps {
		states[i] = StepState{
			Step:       step,
			Current:    i == c.current,
			Complete:   c.isComplete(step.ID, snap),
			Navigable:  c.navigableLocked(step.ID, snap) == nil,
			IsLastStep: i == len(c.steps)-1,
		}
	}
	return states
}

// Progress counts complete steps.
func (c *Controller) Progress() Progress {
	snap := c.opts.Store.Snapshot()
	p := Progress{Total: len(c.steps)}
	for _, step := range c.steps {
		if c.isComplete(step.ID, snap) {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) * 100 / float64(p.Total)
	}
	return p
}

func (c *Controller) record(ctx context.Context, event string, from int) {
	c.opts.Telemetry.Record(ctx, event, map[string]any{
		"session_id": c.opts.SessionID,
		"from":       c.steps[from].ID,
		"to":         c.steps[c.current].ID,
	})
}
