package spotadmin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/queries"
	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
	"github.com/goliatone/go-spotadmin/pkg/config"
	"github.com/goliatone/go-spotadmin/pkg/spotadmin"
)

var listingValues = map[string]any{
	listing.FieldName:        "Loft 21",
	listing.FieldDescription: "Sunny loft for workshops",
	listing.FieldType:        "venue",
	listing.FieldHours:       map[string]any{"mon": "09:00-18:00"},
	listing.FieldMinDuration: 2,
	listing.FieldRules:       "No smoking",
	listing.FieldAddress:     "21 Main St",
	listing.FieldCity:        "Springfield",
	listing.FieldState:       "IL",
	listing.FieldZip:         "62701",
	listing.FieldPermit:      wizard.FileHandle{Name: "permit.pdf", Ref: "upload://p"},
	listing.FieldImages:      []string{"front.jpg"},
}

func TestListingLifecycle(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	app := spotadmin.New(spotadmin.Options{
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	toasts, cancel := app.Broadcast.Subscribe()
	defer cancel()
	exec := app.Executor()

	var sessionID string
	require.NoError(t, exec.StartListing(ctx, commands.StartListingInput{HostID: "host-1", Result: &sessionID}))
	for path, value := range listingValues {
		require.NoError(t, exec.SetField(ctx, commands.SetFieldInput{SessionID: sessionID, Path: path, Value: value}))
	}
	for i := 0; i < len(listing.DefaultSteps()); i++ {
		require.NoError(t, exec.Navigate(ctx, commands.NavigateInput{SessionID: sessionID, Action: commands.ActionNext}))
	}

	toast := <-toasts
	assert.Equal(t, wizard.NotifySuccess, toast.Kind)
	_, err := exec.WizardStatus(ctx, queries.WizardStatusInput{SessionID: sessionID})
	assert.True(t, errors.Is(err, listing.ErrSessionNotFound), "submitted session is closed")

	pending, err := exec.Listings(ctx, listing.ListFilter{Status: listing.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, exec.Moderate(ctx, commands.ModerateListingInput{
		ListingID: pending[0].ID,
		ActorID:   "admin-1",
		Verdict:   commands.VerdictApprove,
	}))
	err = exec.Moderate(ctx, commands.ModerateListingInput{
		ListingID: pending[0].ID,
		ActorID:   "admin-1",
		Verdict:   commands.VerdictApprove,
	})
	var modErr *commands.ModerationError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, listing.KindConflict, modErr.Kind)

	verbs := make([]string, 0, len(capture.Events))
	for _, evt := range capture.Events {
		verbs = append(verbs, evt.Verb)
	}
	assert.Equal(t, []string{"listing.submit", "listing.approve"}, verbs)
}

func TestRoleEditingThroughExecutor(t *testing.T) {
	ctx := context.Background()
	roles := permissions.NewInMemoryRoleRepository(permissions.Role{
		ID:   "support",
		Name: "Support",
		Categories: []permissions.Category{{
			Key:   "users",
			Title: "Users",
			Permissions: []permissions.Permission{
				{ID: "users.view", Name: "View users", Enabled: true},
				{ID: "users.edit", Name: "Edit users"},
			},
		}},
	})
	exec := spotadmin.New(spotadmin.Options{Roles: roles}).Executor()

	toggle := commands.TogglePermissionInput{RoleID: "support", Category: "users", PermissionID: "users.edit"}
	require.NoError(t, exec.TogglePermission(ctx, toggle))
	view, err := exec.Role(ctx, queries.RoleInput{RoleID: "support"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Enabled, "read-only matrix ignores toggles")

	require.NoError(t, exec.EditRole(ctx, commands.EditRoleInput{RoleID: "support", Editing: true}))
	require.NoError(t, exec.TogglePermission(ctx, toggle))
	require.NoError(t, exec.SaveRole(ctx, commands.SaveRoleInput{RoleID: "support", ActorID: "admin-1"}))

	view, err = exec.Role(ctx, queries.RoleInput{RoleID: "support"})
	require.NoError(t, err)
	assert.False(t, view.EditMode)
	assert.Equal(t, 2, view.Enabled)

	stored, err := roles.FetchRole(ctx, "support")
	require.NoError(t, err)
	assert.True(t, stored.Categories[0].Permissions[1].Enabled)
}

func TestRefundUsesConfiguredGateway(t *testing.T) {
	calls := 0
	gateway := refunds.GatewayFunc(func(context.Context, string, float64) (bool, error) {
		calls++
		return true, nil
	})
	exec := spotadmin.New(spotadmin.Options{Gateway: gateway}).Executor()
	require.NoError(t, exec.Refund(context.Background(), commands.ProcessRefundInput{BookingID: "b1", Amount: 20}))
	assert.Equal(t, 1, calls)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Wizard.StrictJumps = false
	cfg.Wizard.GuardedAdvance = true
	cfg.Refunds.MockDelay = 0

	opts, err := spotadmin.OptionsFromConfig(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, wizard.JumpAnywhere, opts.JumpPolicy)
	assert.Equal(t, wizard.AdvanceRequireComplete, opts.AdvancePolicy)
	assert.IsType(t, &refunds.MockGateway{}, opts.Gateway)

	cfg.RolesManifest = "testdata/missing.yaml"
	_, err = spotadmin.OptionsFromConfig(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
