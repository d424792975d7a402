package goadmin

import (
	"context"
	"errors"

	activitypkg "github.com/goliatone/go-spotadmin/pkg/activity"
	"github.com/goliatone/go-spotadmin/pkg/spotadmin"
)

// MenuBuilder ensures spot admin entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures navigation link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the spot admin app and feature flags into an admin shell.
type Config struct {
	EnableListings   bool
	EnableModeration bool
	EnableRoles      bool
	MenuCode         string
	MenuBuilder      MenuBuilder
	App              *spotadmin.App
	ListingMenuItem  MenuItem
	ModerationItem   MenuItem
	RolesMenuItem    MenuItem
	ActivityHooks    activitypkg.Hooks
	ActivityConfig   activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed spot admin menus.
func New(cfg Config) (*Admin, error) {
	if cfg.enabled() && cfg.App == nil {
		return nil, errors.New("goadmin: spotadmin app is required when a feature is enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	cfg.ListingMenuItem = withDefaults(cfg.ListingMenuItem, MenuItem{
		Label: "List your spot", Route: "admin.listings.new", Icon: "plus-square", Position: 10,
	})
	cfg.ModerationItem = withDefaults(cfg.ModerationItem, MenuItem{
		Label: "Pending listings", Route: "admin.listings.pending", Icon: "inbox", Position: 20,
	})
	cfg.RolesMenuItem = withDefaults(cfg.RolesMenuItem, MenuItem{
		Label: "Roles & permissions", Route: "admin.roles", Icon: "shield", Position: 30,
	})
	return &Admin{cfg: cfg}, nil
}

// App exposes the configured app when any feature is enabled.
func (a *Admin) App() *spotadmin.App {
	if !a.cfg.enabled() {
		return nil
	}
	return a.cfg.App
}

// Bootstrap seeds menu entries for every enabled feature and records an
// activity event per seeded entry.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.enabled() || a.cfg.MenuBuilder == nil {
		return nil
	}
	emitter := activitypkg.NewEmitter(a.cfg.ActivityHooks, a.cfg.ActivityConfig)
	var errs []error
	for _, item := range a.items() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = append(errs, err)
			continue
		}
		_ = emitter.Emit(ctx, activitypkg.Event{
			Verb:       "menu.ensure",
			ObjectType: "menu_item",
			ObjectID:   item.Route,
			Metadata:   map[string]any{"menu": a.cfg.MenuCode, "label": item.Label},
		})
	}
	return errors.Join(errs...)
}

func (a *Admin) items() []MenuItem {
	var items []MenuItem
	if a.cfg.EnableListings {
		items = append(items, a.cfg.ListingMenuItem)
	}
	if a.cfg.EnableModeration {
		items = append(items, a.cfg.ModerationItem)
	}
	if a.cfg.EnableRoles {
		items = append(items, a.cfg.RolesMenuItem)
	}
	return items
}

func (cfg Config) enabled() bool {
	return cfg.EnableListings || cfg.EnableModeration || cfg.EnableRoles
}

func withDefaults(item, defaults MenuItem) MenuItem {
	if item.Label == "" {
		item.Label = defaults.Label
	}
	if item.Route == "" {
		item.Route = defaults.Route
	}
	if item.Icon == "" {
		item.Icon = defaults.Icon
	}
	if item.Position == 0 {
		item.Position = defaults.Position
	}
	return item
}
