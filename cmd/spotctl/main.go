package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type cli struct {
	Check checkCmd `cmd:"" help:"Validate a listing YAML/JSON file against the submission schema."`
	Roles rolesCmd `cmd:"" help:"Validate or scaffold role manifests."`
	Serve serveCmd `cmd:"" help:"Run the admin HTTP server."`
}

type rolesCmd struct {
	Validate validateRolesCmd `cmd:"" help:"Validate a role manifest and print a summary."`
	Scaffold scaffoldRoleCmd  `cmd:"" help:"Add or replace a role in a manifest."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("spotctl"),
		kong.Description("Operator tooling for the spot admin: listing checks, role manifests and the admin server."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
