package refunds

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrInvalidRefund is returned for empty booking ids and amounts that are not
	// positive finite numbers.
	ErrInvalidRefund = errors.New("refunds: invalid refund request")
)

// DefaultMockDelay is how long MockGateway waits before approving.
const DefaultMockDelay = 1500 * time.Millisecond

// Gateway processes refunds against a payment provider. The boolean reports
// whether the provider accepted the refund.
type Gateway interface {
	ProcessRefund(ctx context.Context, bookingID string, amount float64) (bool, error)
}

// GatewayFunc adapts a function into a Gateway.
type GatewayFunc func(ctx context.Context, bookingID string, amount float64) (bool, error)

// ProcessRefund calls f.
func (f GatewayFunc) ProcessRefund(ctx context.Context, bookingID string, amount float64) (bool, error) {
	return f(ctx, bookingID, amount)
}

// MockGateway approves every valid refund after a fixed delay.
type MockGateway struct {
	Delay time.Duration
}

// NewMockGateway builds a mock with the default delay.
func NewMockGateway() *MockGateway {
	return &MockGateway{Delay: DefaultMockDelay}
}

// ProcessRefund waits for the delay and approves. Cancelling ctx aborts the wait.
func (g *MockGateway) ProcessRefund(ctx context.Context, bookingID string, amount float64) (bool, error) {
	if err := validate(bookingID, amount); err != nil {
		return false, err
	}
	if g.Delay <= 0 {
		return true, nil
	}
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("refunds: refund %s aborted: %w", bookingID, ctx.Err())
	case <-timer.C:
		return true, nil
	}
}

func validate(bookingID string, amount float64) error {
	if strings.TrimSpace(bookingID) == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidRefund)
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a positive finite number", ErrInvalidRefund)
	}
	return nil
}
