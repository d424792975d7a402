package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
)

var (
	// ErrSessionNotFound is returned for unknown or closed wizard sessions.
	ErrSessionNotFound = errors.New("listing: wizard session not found")

	errMissingHost = errors.New("listing: host id is required")
)

// Default routes and toasts of the listing wizard.
const (
	DefaultSubmitPath     = "/host/listings"
	DefaultCancelPath     = "/host/dashboard"
	DefaultSuccessMessage = "Your spot was submitted for review."
)

// Options configures the listing Service. Collaborators default to in-memory
// or no-op implementations.
type Options struct {
	Repository     Repository
	Validator      SubmissionValidator
	Notifier       wizard.Notifier
	Navigator      wizard.Navigator
	Telemetry      wizard.Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	JumpPolicy     wizard.JumpPolicy
	AdvancePolicy  wizard.AdvancePolicy
	SubmitPath     string
	CancelPath     string
	SuccessMessage string
	Clock          func() time.Time
}

// Service owns the wizard sessions of hosts creating listings. A session is
// dropped once its wizard is submitted or cancelled.
type Service struct {
	opts     Options
	activity *activity.Emitter

	mu       sync.RWMutex
	sessions map[string]*wizard.Controller
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Repository == nil {
		opts.Repository = NewInMemoryRepository()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.SubmitPath == "" {
		opts.SubmitPath = DefaultSubmitPath
	}
	if opts.CancelPath == "" {
		opts.CancelPath = DefaultCancelPath
	}
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = DefaultSuccessMessage
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		sessions: make(map[string]*wizard.Controller),
	}
}

// Repository exposes the backing listing repository.
func (s *Service) Repository() Repository {
	return s.opts.Repository
}

// Start opens a new wizard session for the host.
func (s *Service) Start(ctx context.Context, hostID string) (*wizard.Controller, error) {
	hostID = strings.TrimSpace(hostID)
	if hostID == "" {
		return nil, errMissingHost
	}
	id := uuid.NewString()
	controller, err := wizard.NewController(wizard.Options{
		SessionID:      id,
		Steps:          DefaultSteps(),
		Validators:     Validators(),
		Store:          wizard.NewFieldStore(FormSchema()),
		Submitter:      s.submitter(hostID),
		Notifier:       s.opts.Notifier,
		Navigator:      s.opts.Navigator,
		Telemetry:      s.opts.Telemetry,
		JumpPolicy:     s.opts.JumpPolicy,
		AdvancePolicy:  s.opts.AdvancePolicy,
		SubmitPath:     s.opts.SubmitPath,
		CancelPath:     s.opts.CancelPath,
		SuccessMessage: s.opts.SuccessMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("listing: start session: %w", err)
	}
	s.mu.Lock()
	s.sessions[id] = controller
	s.mu.Unlock()
	s.opts.Telemetry.Record(ctx, "listing.session.start", map[string]any{
		"session_id": id,
		"host_id":    hostID,
	})
	return controller, nil
}

// Session returns the open session with the given id.
func (s *Service) Session(id string) (*wizard.Controller, error) {
	s.mu.RLock()
	controller, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || controller.State() != wizard.StateOpen {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return controller, nil
}

// Sessions reports how many sessions are open.
func (s *Service) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Discard cancels the session, navigating the host away.
func (s *Service) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	controller, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err := controller.Cancel(ctx); err != nil && !errors.Is(err, wizard.ErrClosed) {
		return err
	}
	return nil
}

func (s *Service) submitter(hostID string) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, sessionID string, data wizard.Snapshot) error {
		l := FromSnapshot(data)
		l.SessionID = sessionID
		l.HostID = hostID
		l.SubmittedAt = s.opts.Clock().UTC()
		if err := s.opts.Validator.Validate(l); err != nil {
			return err
		}
		saved, err := s.opts.Repository.SaveListing(ctx, l)
		if err != nil {
			return fmt.Errorf("listing: save listing: %w", err)
		}
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		s.opts.Telemetry.Record(ctx, "listing.submitted", map[string]any{
			"listing_id": saved.ID,
			"session_id": sessionID,
		})
		_ = s.activity.Emit(ctx, activity.Event{
			Verb:       "listing.submit",
			ActorID:    hostID,
			UserID:     hostID,
			ObjectType: "listing",
			ObjectID:   saved.ID,
			Metadata: map[string]any{
				"name": saved.Name,
				"type": saved.Type,
			},
		})
		return nil
	})
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t wizard.Telemetry) wizard.Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
