// Package spotadmin wires the listing wizard, moderation, role editor and
// refund flow behind one entry point.
package spotadmin

import (
	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/httpapi"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/queries"
	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
)

// Re-exports for convenience.
type (
	Controller = wizard.Controller
	Listing    = listing.Listing
	Role       = permissions.Role
	Matrix     = permissions.Matrix
	Refund     = refunds.Request
)

// Options wires repositories, gateways and hooks. Nil collaborators fall back
// to in-memory stores, the mock refund gateway and no-op hooks.
type Options struct {
	Listings       listing.Repository
	Roles          permissions.RoleRepository
	Gateway        refunds.Gateway
	Notifier       wizard.Notifier
	Navigator      wizard.Navigator
	Telemetry      wizard.Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	JumpPolicy     wizard.JumpPolicy
	AdvancePolicy  wizard.AdvancePolicy
	SubmitPath     string
	CancelPath     string
}

// App holds the wired services. Toasts reach Broadcast subscribers and
// Options.Notifier.
type App struct {
	Broadcast *wizard.BroadcastNotifier
	Listings  *listing.Service
	Moderator *listing.Moderator
	Roles     *permissions.Editors
	Gateway   refunds.Gateway

	notifier  wizard.Notifier
	telemetry wizard.Telemetry
}

// New builds an App with safe defaults.
func New(opts Options) *App {
	if opts.Listings == nil {
		opts.Listings = listing.NewInMemoryRepository()
	}
	if opts.Roles == nil {
		opts.Roles = permissions.NewInMemoryRoleRepository()
	}
	if opts.Gateway == nil {
		opts.Gateway = refunds.NewMockGateway()
	}
	broadcast := wizard.NewBroadcastNotifier()
	notifier := wizard.Notifiers{broadcast, opts.Notifier}
	return &App{
		Broadcast: broadcast,
		Listings: listing.NewService(listing.Options{
			Repository:     opts.Listings,
			Notifier:       notifier,
			Navigator:      opts.Navigator,
			Telemetry:      opts.Telemetry,
			ActivityHooks:  opts.ActivityHooks,
			ActivityConfig: opts.ActivityConfig,
			JumpPolicy:     opts.JumpPolicy,
			AdvancePolicy:  opts.AdvancePolicy,
			SubmitPath:     opts.SubmitPath,
			CancelPath:     opts.CancelPath,
		}),
		Moderator: listing.NewModerator(listing.ModeratorOptions{
			Repository:     opts.Listings,
			Notifier:       notifier,
			Telemetry:      opts.Telemetry,
			ActivityHooks:  opts.ActivityHooks,
			ActivityConfig: opts.ActivityConfig,
		}),
		Roles: permissions.NewEditors(permissions.EditorOptions{
			Repository:     opts.Roles,
			Notifier:       notifier,
			Telemetry:      opts.Telemetry,
			ActivityHooks:  opts.ActivityHooks,
			ActivityConfig: opts.ActivityConfig,
		}),
		Gateway:   opts.Gateway,
		notifier:  notifier,
		telemetry: opts.Telemetry,
	}
}

// Executor returns the go-command backed executor shared by transports.
func (a *App) Executor() *httpapi.CommandExecutor {
	return &httpapi.CommandExecutor{
		StartCommander:    commands.NewStartListingCommand(a.Listings, a.telemetry),
		SetFieldCommander: commands.NewSetFieldCommand(a.Listings, a.telemetry),
		NavigateCommander: commands.NewNavigateCommand(a.Listings, a.telemetry),
		DiscardCommander:  commands.NewDiscardListingCommand(a.Listings, a.telemetry),
		ModerateCommander: commands.NewModerateListingCommand(a.Moderator, a.telemetry),
		EditRoleCommander: commands.NewEditRoleCommand(a.Roles, a.telemetry),
		ToggleCommander:   commands.NewTogglePermissionCommand(a.Roles, a.telemetry),
		SaveRoleCommander: commands.NewSaveRoleCommand(a.Roles, a.telemetry),
		RefundCommander:   commands.NewProcessRefundCommand(a.Gateway, a.notifier, a.telemetry),
		StatusQuerier:     queries.NewWizardStatusQuery(a.Listings),
		RoleQuerier:       queries.NewRoleQuery(a.Roles),
		ListingsQuerier:   queries.NewListingsQuery(a.Listings.Repository()),
	}
}

// Handlers returns net/http handlers over Executor.
func (a *App) Handlers() *httpapi.Handlers {
	return &httpapi.Handlers{API: a.Executor(), Notifications: a.Broadcast}
}
