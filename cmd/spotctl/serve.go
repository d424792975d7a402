package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-spotadmin/components/gorouter"
	"github.com/goliatone/go-spotadmin/pkg/config"
	"github.com/goliatone/go-spotadmin/pkg/goadmin"
	"github.com/goliatone/go-spotadmin/pkg/logging"
	"github.com/goliatone/go-spotadmin/pkg/spotadmin"
)

type serveCmd struct {
	Config string `short:"c" type:"path" help:"Config file (defaults to ./spotadmin.yml when present)."`
	Addr   string `help:"Listen address, overrides the config file."`
	Roles  string `type:"path" help:"Role manifest to seed, overrides the config file."`
}

func (cmd *serveCmd) Run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.Roles != "" {
		cfg.RolesManifest = cmd.Roles
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		return err
	}
	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       app.Executor(),
		Broadcast: app.Broadcast,
		BasePath:  cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("spotctl: register routes: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Str("base_path", cfg.BasePath).Msg("spot admin listening")
	return server.Serve(cfg.Addr)
}

// buildApp wires the app and seeds the admin menu into the log.
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*spotadmin.App, error) {
	opts, err := spotadmin.OptionsFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app := spotadmin.New(opts)
	admin, err := goadmin.New(goadmin.Config{
		EnableListings:   true,
		EnableModeration: true,
		EnableRoles:      true,
		App:              app,
		MenuBuilder:      logMenuBuilder{logger: logger},
		ActivityHooks:    opts.ActivityHooks,
		ActivityConfig:   opts.ActivityConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("spotctl: bootstrap menu: %w", err)
	}
	return app, nil
}

type logMenuBuilder struct {
	logger zerolog.Logger
}

func (b logMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	b.logger.Debug().
		Str("menu", menuCode).
		Str("label", item.Label).
		Str("route", item.Route).
		Int("position", item.Position).
		Msg("menu item ensured")
	return nil
}
