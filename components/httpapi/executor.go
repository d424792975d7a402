package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/queries"
)

// ErrNotConfigured is returned when an endpoint's command or query is missing.
var ErrNotConfigured = errors.New("httpapi: operation not configured")

// Executor is the transport-neutral surface shared by net/http and go-router.
type Executor interface {
	StartListing(ctx context.Context, input commands.StartListingInput) error
	SetField(ctx context.Context, input commands.SetFieldInput) error
	Navigate(ctx context.Context, input commands.NavigateInput) error
	DiscardListing(ctx context.Context, input commands.DiscardListingInput) error
	Moderate(ctx context.Context, input commands.ModerateListingInput) error
	EditRole(ctx context.Context, input commands.EditRoleInput) error
	TogglePermission(ctx context.Context, input commands.TogglePermissionInput) error
	SaveRole(ctx context.Context, input commands.SaveRoleInput) error
	Refund(ctx context.Context, input commands.ProcessRefundInput) error

	WizardStatus(ctx context.Context, input queries.WizardStatusInput) (queries.WizardStatus, error)
	Role(ctx context.Context, input queries.RoleInput) (queries.RoleView, error)
	Listings(ctx context.Context, filter listing.ListFilter) ([]listing.Listing, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	StartCommander    gocommand.Commander[commands.StartListingInput]
	SetFieldCommander gocommand.Commander[commands.SetFieldInput]
	NavigateCommander gocommand.Commander[commands.NavigateInput]
	DiscardCommander  gocommand.Commander[commands.DiscardListingInput]
	ModerateCommander gocommand.Commander[commands.ModerateListingInput]
	EditRoleCommander gocommand.Commander[commands.EditRoleInput]
	ToggleCommander   gocommand.Commander[commands.TogglePermissionInput]
	SaveRoleCommander gocommand.Commander[commands.SaveRoleInput]
	RefundCommander   gocommand.Commander[commands.ProcessRefundInput]

	StatusQuerier   gocommand.Querier[queries.WizardStatusInput, queries.WizardStatus]
	RoleQuerier     gocommand.Querier[queries.RoleInput, queries.RoleView]
	ListingsQuerier gocommand.Querier[listing.ListFilter, []listing.Listing]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) StartListing(ctx context.Context, input commands.StartListingInput) error {
	return execute(ctx, e.StartCommander, input)
}

func (e *CommandExecutor) SetField(ctx context.Context, input commands.SetFieldInput) error {
	return execute(ctx, e.SetFieldCommander, input)
}

func (e *CommandExecutor) Navigate(ctx context.Context, input commands.NavigateInput) error {
	return execute(ctx, e.NavigateCommander, input)
}

func (e *CommandExecutor) DiscardListing(ctx context.Context, input commands.DiscardListingInput) error {
	return execute(ctx, e.DiscardCommander, input)
}

func (e *CommandExecutor) Moderate(ctx context.Context, input commands.ModerateListingInput) error {
	return execute(ctx, e.ModerateCommander, input)
}

func (e *CommandExecutor) EditRole(ctx context.Context, input commands.EditRoleInput) error {
	return execute(ctx, e.EditRoleCommander, input)
}

func (e *CommandExecutor) TogglePermission(ctx context.Context, input commands.TogglePermissionInput) error {
	return execute(ctx, e.ToggleCommander, input)
}

func (e *CommandExecutor) SaveRole(ctx context.Context, input commands.SaveRoleInput) error {
	return execute(ctx, e.SaveRoleCommander, input)
}

func (e *CommandExecutor) Refund(ctx context.Context, input commands.ProcessRefundInput) error {
	return execute(ctx, e.RefundCommander, input)
}

func (e *CommandExecutor) WizardStatus(ctx context.Context, input queries.WizardStatusInput) (queries.WizardStatus, error) {
	return query(ctx, e.StatusQuerier, input)
}

func (e *CommandExecutor) Role(ctx context.Context, input queries.RoleInput) (queries.RoleView, error) {
	return query(ctx, e.RoleQuerier, input)
}

func (e *CommandExecutor) Listings(ctx context.Context, filter listing.ListFilter) ([]listing.Listing, error) {
	return query(ctx, e.ListingsQuerier, filter)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return ErrNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

func query[T, R any](ctx context.Context, q gocommand.Querier[T, R], msg T) (R, error) {
	if q == nil {
		var zero R
		return zero, ErrNotConfigured
	}
	return q.Query(ctx, msg)
}
