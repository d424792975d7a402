package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/permissions"
)

type roleEditors interface {
	Open(ctx context.Context, roleID string) (*permissions.Editor, error)
}

var errMissingEditors = errors.New("commands: role editors not configured")

// EditRoleInput enters or leaves edit mode. Leaving discards unsaved changes.
type EditRoleInput struct {
	RoleID  string `json:"role_id"`
	Editing bool   `json:"editing"`
}

// EditRoleCommand toggles the role editor's edit mode.
type EditRoleCommand struct {
	editors   roleEditors
	telemetry Telemetry
}

// NewEditRoleCommand creates a command instance.
func NewEditRoleCommand(editors roleEditors, telemetry Telemetry) *EditRoleCommand {
	return &EditRoleCommand{editors: editors, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EditRoleInput] = (*EditRoleCommand)(nil)

// Execute switches edit mode.
func (c *EditRoleCommand) Execute(ctx context.Context, msg EditRoleInput) error {
	if c.editors == nil {
		return errMissingEditors
	}
	editor, err := c.editors.Open(ctx, msg.RoleID)
	if err != nil {
		return err
	}
	if msg.Editing {
		editor.Edit(ctx)
	} else {
		editor.Cancel(ctx)
	}
	return nil
}

// TogglePermissionInput flips one permission of a role being edited.
type TogglePermissionInput struct {
	RoleID       string `json:"role_id"`
	Category     string `json:"category"`
	PermissionID string `json:"permission_id"`
}

// TogglePermissionCommand flips permissions. Outside edit mode it does nothing.
type TogglePermissionCommand struct {
	editors   roleEditors
	telemetry Telemetry
}

// NewTogglePermissionCommand creates a command instance.
func NewTogglePermissionCommand(editors roleEditors, telemetry Telemetry) *TogglePermissionCommand {
	return &TogglePermissionCommand{editors: editors, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TogglePermissionInput] = (*TogglePermissionCommand)(nil)

// Execute toggles the permission.
func (c *TogglePermissionCommand) Execute(ctx context.Context, msg TogglePermissionInput) error {
	if c.editors == nil {
		return errMissingEditors
	}
	editor, err := c.editors.Open(ctx, msg.RoleID)
	if err != nil {
		return err
	}
	changed := editor.Toggle(msg.Category, msg.PermissionID)
	c.telemetry.Record(ctx, "role.command.toggle", map[string]any{
		"role_id":       msg.RoleID,
		"permission_id": msg.PermissionID,
		"changed":       changed,
	})
	return nil
}

// SaveRoleInput persists a role's pending changes.
type SaveRoleInput struct {
	RoleID  string `json:"role_id"`
	ActorID string `json:"actor_id"`
}

// SaveRoleCommand saves role edits.
type SaveRoleCommand struct {
	editors   roleEditors
	telemetry Telemetry
}

// NewSaveRoleCommand creates a command instance.
func NewSaveRoleCommand(editors roleEditors, telemetry Telemetry) *SaveRoleCommand {
	return &SaveRoleCommand{editors: editors, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveRoleInput] = (*SaveRoleCommand)(nil)

// Execute saves the role.
func (c *SaveRoleCommand) Execute(ctx context.Context, msg SaveRoleInput) error {
	if c.editors == nil {
		return errMissingEditors
	}
	editor, err := c.editors.Open(ctx, msg.RoleID)
	if err != nil {
		return err
	}
	changes, err := editor.Save(ctx, msg.ActorID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "role.command.save", map[string]any{
		"role_id": msg.RoleID,
		"changes": len(changes),
	})
	return nil
}
