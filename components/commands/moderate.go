package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/listing"
)

// Moderation verdicts.
const (
	VerdictApprove = "approve"
	VerdictReject  = "reject"
)

type moderator interface {
	Approve(ctx context.Context, d listing.Decision) listing.Result
	Reject(ctx context.Context, d listing.Decision) listing.Result
}

// ModerationError carries the moderation error kind across the command
// boundary so transports can map it to a status.
type ModerationError struct {
	Kind listing.ErrorKind
	Err  error
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("moderation %s: %v", e.Kind, e.Err)
}

func (e *ModerationError) Unwrap() error { return e.Err }

// ModerateListingInput approves or rejects a pending listing.
type ModerateListingInput struct {
	ListingID string `json:"listing_id"`
	ActorID   string `json:"actor_id"`
	Verdict   string `json:"verdict"`
	Reason    string `json:"reason,omitempty"`
}

// ModerateListingCommand applies admin verdicts.
type ModerateListingCommand struct {
	moderator moderator
	telemetry Telemetry
}

// NewModerateListingCommand creates a command instance.
func NewModerateListingCommand(m moderator, telemetry Telemetry) *ModerateListingCommand {
	return &ModerateListingCommand{moderator: m, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ModerateListingInput] = (*ModerateListingCommand)(nil)

// Execute runs the verdict. Failures are returned as *ModerationError.
func (c *ModerateListingCommand) Execute(ctx context.Context, msg ModerateListingInput) error {
	if c.moderator == nil {
		return errors.New("commands: moderator not configured")
	}
	decision := listing.Decision{ListingID: msg.ListingID, ActorID: msg.ActorID, Reason: msg.Reason}
	var res listing.Result
	switch msg.Verdict {
	case VerdictApprove:
		res = c.moderator.Approve(ctx, decision)
	case VerdictReject:
		res = c.moderator.Reject(ctx, decision)
	default:
		return &ModerationError{Kind: listing.KindInvalid, Err: fmt.Errorf("unknown verdict %q", msg.Verdict)}
	}
	if !res.OK() {
		return &ModerationError{Kind: res.Kind, Err: res.Err}
	}
	c.telemetry.Record(ctx, "listing.command.moderate", map[string]any{
		"listing_id": msg.ListingID,
		"verdict":    msg.Verdict,
	})
	return nil
}
