package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Wizard navigation actions.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionJump     = "jump"
)

var (
	errMissingSessions = errors.New("commands: listing sessions not configured")
	// ErrUnknownAction is returned for navigation actions other than next,
	// previous and jump.
	ErrUnknownAction = errors.New("commands: unknown navigation action")
)

type sessionStarter interface {
	Start(ctx context.Context, hostID string) (*wizard.Controller, error)
}

type sessionLookup interface {
	Session(id string) (*wizard.Controller, error)
}

type sessionDiscarder interface {
	Discard(ctx context.Context, id string) error
}

// StartListingInput opens a wizard session for a host. Result, when set,
// receives the new session id.
type StartListingInput struct {
	HostID string  `json:"host_id"`
	Result *string `json:"-"`
}

// StartListingCommand opens listing wizard sessions.
type StartListingCommand struct {
	sessions  sessionStarter
	telemetry Telemetry
}

// NewStartListingCommand creates a command instance.
func NewStartListingCommand(sessions sessionStarter, telemetry Telemetry) *StartListingCommand {
	return &StartListingCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[StartListingInput] = (*StartListingCommand)(nil)

// Execute starts the session.
func (c *StartListingCommand) Execute(ctx context.Context, msg StartListingInput) error {
	if c.sessions == nil {
		return errMissingSessions
	}
	controller, err := c.sessions.Start(ctx, msg.HostID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = controller.SessionID()
	}
	c.telemetry.Record(ctx, "listing.command.start", map[string]any{
		"session_id": controller.SessionID(),
	})
	return nil
}

// SetFieldInput writes one form field.
type SetFieldInput struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	Value     any    `json:"value"`
}

// SetFieldCommand edits wizard form data.
type SetFieldCommand struct {
	sessions  sessionLookup
	telemetry Telemetry
}

// NewSetFieldCommand creates a command instance.
func NewSetFieldCommand(sessions sessionLookup, telemetry Telemetry) *SetFieldCommand {
	return &SetFieldCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetFieldInput] = (*SetFieldCommand)(nil)

// Execute writes the field.
func (c *SetFieldCommand) Execute(ctx context.Context, msg SetFieldInput) error {
	if c.sessions == nil {
		return errMissingSessions
	}
	controller, err := c.sessions.Session(msg.SessionID)
	if err != nil {
		return err
	}
	if err := controller.Set(msg.Path, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listing.command.set_field", map[string]any{
		"session_id": msg.SessionID,
		"path":       msg.Path,
	})
	return nil
}

// NavigateInput moves a wizard session.
type NavigateInput struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	StepID    string `json:"step_id,omitempty"`
}

// NavigateCommand runs next, previous and jump.
type NavigateCommand struct {
	sessions  sessionLookup
	telemetry Telemetry
}

// NewNavigateCommand creates a command instance.
func NewNavigateCommand(sessions sessionLookup, telemetry Telemetry) *NavigateCommand {
	return &NavigateCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateInput] = (*NavigateCommand)(nil)

// Execute applies the navigation action. Next on the last step submits.
func (c *NavigateCommand) Execute(ctx context.Context, msg NavigateInput) error {
	if c.sessions == nil {
		return errMissingSessions
	}
	controller, err := c.sessions.Session(msg.SessionID)
	if err != nil {
		return err
	}
	switch msg.Action {
	case ActionNext:
		err = controller.GoNext(ctx)
	case ActionPrevious:
		err = controller.GoPrevious()
	case ActionJump:
		err = controller.JumpTo(msg.StepID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listing.command.navigate", map[string]any{
		"session_id": msg.SessionID,
		"action":     msg.Action,
		"state":      string(controller.State()),
	})
	return nil
}

// DiscardListingInput cancels a wizard session.
type DiscardListingInput struct {
	SessionID string `json:"session_id"`
}

// DiscardListingCommand cancels wizard sessions.
type DiscardListingCommand struct {
	sessions  sessionDiscarder
	telemetry Telemetry
}

// NewDiscardListingCommand creates a command instance.
func NewDiscardListingCommand(sessions sessionDiscarder, telemetry Telemetry) *DiscardListingCommand {
	return &DiscardListingCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DiscardListingInput] = (*DiscardListingCommand)(nil)

// Execute discards the session.
func (c *DiscardListingCommand) Execute(ctx context.Context, msg DiscardListingInput) error {
	if c.sessions == nil {
		return errMissingSessions
	}
	if err := c.sessions.Discard(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listing.command.discard", map[string]any{"session_id": msg.SessionID})
	return nil
}
