package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestListingCommandsDriveWizard(t *testing.T) {
	svc := listing.NewService(listing.Options{})
	telemetry := &stubTelemetry{}
	ctx := context.Background()

	var sessionID string
	start := NewStartListingCommand(svc, telemetry)
	if err := start.Execute(ctx, StartListingInput{HostID: "host-1", Result: &sessionID}); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if sessionID == "" {
		t.Fatalf("expected session id result")
	}

	set := NewSetFieldCommand(svc, telemetry)
	for path, value := range map[string]any{
		listing.FieldName:        "Loft 21",
		listing.FieldDescription: "Sunny loft",
		listing.FieldType:        "venue",
	} {
		if err := set.Execute(ctx, SetFieldInput{SessionID: sessionID, Path: path, Value: value}); err != nil {
			t.Fatalf("set %s returned error: %v", path, err)
		}
	}
	if err := set.Execute(ctx, SetFieldInput{SessionID: sessionID, Path: "unknown", Value: "x"}); !errors.Is(err, wizard.ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	nav := NewNavigateCommand(svc, telemetry)
	if err := nav.Execute(ctx, NavigateInput{SessionID: sessionID, Action: ActionNext}); err != nil {
		t.Fatalf("next returned error: %v", err)
	}
	if err := nav.Execute(ctx, NavigateInput{SessionID: sessionID, Action: ActionJump, StepID: listing.StepSpotInfo}); err != nil {
		t.Fatalf("jump to complete step returned error: %v", err)
	}
	if err := nav.Execute(ctx, NavigateInput{SessionID: sessionID, Action: ActionJump, StepID: listing.StepImages}); !errors.Is(err, wizard.ErrStepNotNavigable) {
		t.Fatalf("expected jump to incomplete step to fail, got %v", err)
	}
	if err := nav.Execute(ctx, NavigateInput{SessionID: sessionID, Action: "sideways"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}

	discard := NewDiscardListingCommand(svc, telemetry)
	if err := discard.Execute(ctx, DiscardListingInput{SessionID: sessionID}); err != nil {
		t.Fatalf("discard returned error: %v", err)
	}
	if err := nav.Execute(ctx, NavigateInput{SessionID: sessionID, Action: ActionNext}); !errors.Is(err, listing.ErrSessionNotFound) {
		t.Fatalf("expected discarded session to be gone, got %v", err)
	}
	if len(telemetry.events) == 0 {
		t.Fatalf("expected telemetry events")
	}
}

func TestCommandsRequireCollaborators(t *testing.T) {
	ctx := context.Background()
	if err := NewStartListingCommand(nil, nil).Execute(ctx, StartListingInput{}); err == nil {
		t.Fatalf("expected error without sessions")
	}
	if err := NewSaveRoleCommand(nil, nil).Execute(ctx, SaveRoleInput{}); err == nil {
		t.Fatalf("expected error without editors")
	}
	if err := NewProcessRefundCommand(nil, nil, nil).Execute(ctx, ProcessRefundInput{}); err == nil {
		t.Fatalf("expected error without gateway")
	}
}

type stubModerator struct {
	result listing.Result
	calls  []string
}

func (s *stubModerator) Approve(context.Context, listing.Decision) listing.Result {
	s.calls = append(s.calls, VerdictApprove)
	return s.result
}

func (s *stubModerator) Reject(context.Context, listing.Decision) listing.Result {
	s.calls = append(s.calls, VerdictReject)
	return s.result
}

func TestModerateListingCommand(t *testing.T) {
	mod := &stubModerator{}
	cmd := NewModerateListingCommand(mod, nil)
	ctx := context.Background()
	if err := cmd.Execute(ctx, ModerateListingInput{ListingID: "l1", ActorID: "a", Verdict: VerdictApprove}); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}

	mod.result = listing.Result{Kind: listing.KindConflict, Err: errors.New("already approved")}
	err := cmd.Execute(ctx, ModerateListingInput{ListingID: "l1", ActorID: "a", Verdict: VerdictReject, Reason: "x"})
	var modErr *ModerationError
	if !errors.As(err, &modErr) || modErr.Kind != listing.KindConflict {
		t.Fatalf("expected conflict moderation error, got %v", err)
	}
	if err := cmd.Execute(ctx, ModerateListingInput{Verdict: "maybe"}); !errors.As(err, &modErr) || modErr.Kind != listing.KindInvalid {
		t.Fatalf("expected invalid verdict, got %v", err)
	}
	if len(mod.calls) != 2 {
		t.Fatalf("expected 2 moderator calls, got %v", mod.calls)
	}
}

func TestRoleCommands(t *testing.T) {
	repo := permissions.NewInMemoryRoleRepository(permissions.Role{
		ID:   "support",
		Name: "Support",
		Categories: []permissions.Category{
			{Key: "users", Permissions: []permissions.Permission{{ID: "view_users", Enabled: true}}},
		},
	})
	editors := permissions.NewEditors(permissions.EditorOptions{Repository: repo})
	ctx := context.Background()

	toggle := NewTogglePermissionCommand(editors, nil)
	if err := toggle.Execute(ctx, TogglePermissionInput{RoleID: "support", Category: "users", PermissionID: "view_users"}); err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	editor, _ := editors.Open(ctx, "support")
	if enabled, _ := editor.Matrix().Enabled("users", "view_users"); !enabled {
		t.Fatalf("expected toggle outside edit mode to be a no-op")
	}

	if err := NewEditRoleCommand(editors, nil).Execute(ctx, EditRoleInput{RoleID: "support", Editing: true}); err != nil {
		t.Fatalf("edit returned error: %v", err)
	}
	if err := toggle.Execute(ctx, TogglePermissionInput{RoleID: "support", Category: "users", PermissionID: "view_users"}); err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if err := NewSaveRoleCommand(editors, nil).Execute(ctx, SaveRoleInput{RoleID: "support", ActorID: "admin"}); err != nil {
		t.Fatalf("save returned error: %v", err)
	}
	stored, _ := repo.FetchRole(ctx, "support")
	if stored.Categories[0].Permissions[0].Enabled {
		t.Fatalf("expected saved role to have view_users revoked")
	}
	if err := toggle.Execute(ctx, TogglePermissionInput{RoleID: "ghost"}); !errors.Is(err, permissions.ErrRoleNotFound) {
		t.Fatalf("expected role not found, got %v", err)
	}
}

func TestProcessRefundCommand(t *testing.T) {
	var kinds []wizard.NotificationKind
	notifier := wizard.NotifierFunc(func(_ context.Context, kind wizard.NotificationKind, _ string) {
		kinds = append(kinds, kind)
	})
	cmd := NewProcessRefundCommand(&refunds.MockGateway{}, notifier, nil)
	if err := cmd.Execute(context.Background(), ProcessRefundInput{BookingID: "bk-1", Amount: 20}); err != nil {
		t.Fatalf("refund returned error: %v", err)
	}
	if err := cmd.Execute(context.Background(), ProcessRefundInput{BookingID: "bk-1"}); !errors.Is(err, refunds.ErrInvalidRefund) {
		t.Fatalf("expected invalid refund, got %v", err)
	}
	if len(kinds) != 1 || kinds[0] != wizard.NotifySuccess {
		t.Fatalf("expected one success toast, got %v", kinds)
	}
}
