package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// ProcessRefundInput runs a refund end to end.
type ProcessRefundInput struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason,omitempty"`
}

// ProcessRefundCommand drives a refund dialog from confirm to done.
type ProcessRefundCommand struct {
	gateway   refunds.Gateway
	notifier  wizard.Notifier
	telemetry Telemetry
}

// NewProcessRefundCommand creates a command instance.
func NewProcessRefundCommand(gateway refunds.Gateway, notifier wizard.Notifier, telemetry Telemetry) *ProcessRefundCommand {
	return &ProcessRefundCommand{gateway: gateway, notifier: notifier, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ProcessRefundInput] = (*ProcessRefundCommand)(nil)

// Execute confirms and processes the refund.
func (c *ProcessRefundCommand) Execute(ctx context.Context, msg ProcessRefundInput) error {
	if c.gateway == nil {
		return errors.New("commands: refund gateway not configured")
	}
	flow := refunds.NewFlow(refunds.FlowOptions{
		Gateway:   c.gateway,
		Notifier:  c.notifier,
		Telemetry: c.telemetry,
	})
	if err := flow.Confirm(refunds.Request{BookingID: msg.BookingID, Amount: msg.Amount, Reason: msg.Reason}); err != nil {
		return err
	}
	return flow.Process(ctx)
}
