package goadmin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-spotadmin/pkg/activity"
	"github.com/goliatone/go-spotadmin/pkg/goadmin"
	"github.com/goliatone/go-spotadmin/pkg/spotadmin"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return s.err
}

func TestAdminBootstrapSeedsEnabledMenus(t *testing.T) {
	builder := &stubMenuBuilder{}
	capture := &activity.CaptureHook{}
	admin, err := goadmin.New(goadmin.Config{
		EnableListings: true,
		EnableRoles:    true,
		App:            spotadmin.New(spotadmin.Options{}),
		MenuBuilder:    builder,
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 2 {
		t.Fatalf("expected 2 menu items, got %d", len(builder.items))
	}
	if builder.items[0].Route != "admin.listings.new" || builder.items[1].Route != "admin.roles" {
		t.Fatalf("unexpected menu items %+v", builder.items)
	}
	if len(capture.Events) != 2 || capture.Events[0].Verb != "menu.ensure" {
		t.Fatalf("expected menu activity, got %+v", capture.Events)
	}
	if admin.App() == nil {
		t.Fatalf("expected app")
	}
}

func TestAdminRequiresAppWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableModeration: true}); err == nil {
		t.Fatalf("expected error without app")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{MenuBuilder: builder})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(builder.items))
	}
	if admin.App() != nil {
		t.Fatalf("expected nil app when disabled")
	}
}

func TestAdminBootstrapJoinsErrors(t *testing.T) {
	boom := errors.New("menu store down")
	builder := &stubMenuBuilder{err: boom}
	admin, err := goadmin.New(goadmin.Config{
		EnableListings:   true,
		EnableModeration: true,
		App:              spotadmin.New(spotadmin.Options{}),
		MenuBuilder:      builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = admin.Bootstrap(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(builder.items) != 2 {
		t.Fatalf("expected every item attempted")
	}
}
