package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
)

// ErrorKind classifies moderation failures so callers can map them to
// responses without inspecting error strings.
type ErrorKind string

const (
	KindNone     ErrorKind = ""
	KindNotFound ErrorKind = "not_found"
	KindConflict ErrorKind = "conflict"
	KindInvalid  ErrorKind = "invalid"
	KindBackend  ErrorKind = "backend"
)

// Result is the outcome of a moderation decision.
type Result struct {
	Kind    ErrorKind
	Err     error
	Listing Listing
}

// OK reports whether the decision was applied.
func (r Result) OK() bool {
	return r.Kind == KindNone && r.Err == nil
}

// Decision is an admin's verdict on a pending listing.
type Decision struct {
	ListingID string
	ActorID   string
	Reason    string
}

// ModeratorOptions configures a Moderator.
type ModeratorOptions struct {
	Repository     Repository
	Notifier       wizard.Notifier
	Telemetry      wizard.Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Clock          func() time.Time
}

// Moderator approves or rejects pending listings.
type Moderator struct {
	repo      Repository
	notifier  wizard.Notifier
	telemetry wizard.Telemetry
	activity  *activity.Emitter
	clock     func() time.Time
}

// NewModerator builds a Moderator. A nil repository is replaced with an
// empty in-memory one.
func NewModerator(opts ModeratorOptions) *Moderator {
	if opts.Repository == nil {
		opts.Repository = NewInMemoryRepository()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = wizard.NotifierFunc(func(context.Context, wizard.NotificationKind, string) {})
	}
	return &Moderator{
		repo:      opts.Repository,
		notifier:  notifier,
		telemetry: normalizeTelemetry(opts.Telemetry),
		activity:  activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		clock:     opts.Clock,
	}
}

// Approve publishes a pending listing.
func (m *Moderator) Approve(ctx context.Context, d Decision) Result {
	return m.decide(ctx, d, StatusApproved)
}

// Reject declines a pending listing. A reason is required.
func (m *Moderator) Reject(ctx context.Context, d Decision) Result {
	if strings.TrimSpace(d.Reason) == "" {
		return m.fail(ctx, Result{Kind: KindInvalid, Err: errors.New("listing: rejection reason is required")})
	}
	return m.decide(ctx, d, StatusRejected)
}

func (m *Moderator) decide(ctx context.Context, d Decision, status Status) Result {
	if strings.TrimSpace(d.ListingID) == "" {
		return m.fail(ctx, Result{Kind: KindInvalid, Err: errors.New("listing: listing id is required")})
	}
	if strings.TrimSpace(d.ActorID) == "" {
		return m.fail(ctx, Result{Kind: KindInvalid, Err: errors.New("listing: actor id is required")})
	}
	reviewedAt := m.clock().UTC()
	saved, err := m.repo.UpdateListing(ctx, d.ListingID, func(l *Listing) error {
		if l.Status != StatusPending {
			return fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, l.ID, l.Status)
		}
		l.Status = status
		l.ReviewedAt = reviewedAt
		l.ReviewedBy = d.ActorID
		if status == StatusRejected {
			l.RejectionReason = strings.TrimSpace(d.Reason)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			return m.fail(ctx, Result{Kind: KindNotFound, Err: err})
		case errors.Is(err, ErrAlreadyDecided):
			return m.fail(ctx, Result{Kind: KindConflict, Err: err, Listing: saved})
		default:
			return m.fail(ctx, Result{Kind: KindBackend, Err: err})
		}
	}
	verb := "listing.approve"
	message := fmt.Sprintf("%s was approved.", saved.Name)
	if status == StatusRejected {
		verb = "listing.reject"
		message = fmt.Sprintf("%s was rejected.", saved.Name)
	}
	m.telemetry.Record(ctx, verb, map[string]any{"listing_id": saved.ID, "actor_id": d.ActorID})
	_ = m.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    d.ActorID,
		UserID:     saved.HostID,
		ObjectType: "listing",
		ObjectID:   saved.ID,
		Metadata: map[string]any{
			"status": string(saved.Status),
			"reason": saved.RejectionReason,
		},
	})
	m.notifier.Notify(ctx, wizard.NotifySuccess, message)
	return Result{Listing: saved}
}

// fail toasts the failure. Backend errors get the generic message.
func (m *Moderator) fail(ctx context.Context, res Result) Result {
	message := wizard.DefaultSubmitErrorMessage
	switch res.Kind {
	case KindNotFound:
		message = "This listing no longer exists."
	case KindConflict:
		message = fmt.Sprintf("This listing was already %s.", res.Listing.Status)
	case KindInvalid:
		message = "Please provide the missing details and try again."
	}
	m.notifier.Notify(ctx, wizard.NotifyError, message)
	m.telemetry.Record(ctx, "listing.moderation.failed", map[string]any{
		"kind":  string(res.Kind),
		"error": res.Err.Error(),
	})
	return res
}
