package permissions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-spotadmin/components/wizard"
	"github.com/goliatone/go-spotadmin/pkg/activity"
)

// EditorOptions configures role editors. Collaborators default to in-memory
// or no-op implementations.
type EditorOptions struct {
	Repository     RoleRepository
	Notifier       wizard.Notifier
	Telemetry      wizard.Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Editor is the role detail page: a role plus its editable matrix.
type Editor struct {
	role     Role
	matrix   *Matrix
	repo     RoleRepository
	notifier wizard.Notifier
	telem    wizard.Telemetry
	activity *activity.Emitter

	saveMu sync.Mutex
}

// Editors caches one editor per role so concurrent requests share edit state.
type Editors struct {
	opts     EditorOptions
	activity *activity.Emitter

	mu      sync.Mutex
	editors map[string]*Editor
}

// NewEditors builds an editor registry with safe defaults.
func NewEditors(opts EditorOptions) *Editors {
	if opts.Repository == nil {
		opts.Repository = NewInMemoryRoleRepository()
	}
	if opts.Notifier == nil {
		opts.Notifier = wizard.NotifierFunc(func(context.Context, wizard.NotificationKind, string) {})
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noopTelemetry{}
	}
	return &Editors{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		editors:  make(map[string]*Editor),
	}
}

// Repository exposes the backing role repository.
func (e *Editors) Repository() RoleRepository {
	return e.opts.Repository
}

// Open returns the editor for roleID, loading it on first use.
func (e *Editors) Open(ctx context.Context, roleID string) (*Editor, error) {
	roleID = strings.TrimSpace(roleID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if editor, ok := e.editors[roleID]; ok {
		return editor, nil
	}
	role, err := e.opts.Repository.FetchRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	matrix, err := NewMatrix(role.Categories)
	if err != nil {
		return nil, err
	}
	editor := &Editor{
		role:     role,
		matrix:   matrix,
		repo:     e.opts.Repository,
		notifier: e.opts.Notifier,
		telem:    e.opts.Telemetry,
		activity: e.activity,
	}
	e.editors[roleID] = editor
	return editor, nil
}

// Role returns the role with the matrix's current, possibly unsaved, grid.
func (e *Editor) Role() Role {
	role := e.role
	role.Categories = e.matrix.Categories()
	return role
}

// Matrix exposes the editable permission grid.
func (e *Editor) Matrix() *Matrix {
	return e.matrix
}

// Edit enters edit mode.
func (e *Editor) Edit(ctx context.Context) {
	e.matrix.SetEditMode(true)
	e.telem.Record(ctx, "role.edit", map[string]any{"role_id": e.role.ID})
}

// Toggle flips a permission while editing.
func (e *Editor) Toggle(categoryKey, permissionID string) bool {
	return e.matrix.Toggle(categoryKey, permissionID)
}

// Cancel drops unsaved changes and leaves edit mode.
func (e *Editor) Cancel(ctx context.Context) {
	e.matrix.Discard()
	e.telem.Record(ctx, "role.edit.cancel", map[string]any{"role_id": e.role.ID})
}

// Save persists the grid, emits one activity event per changed flag and
// leaves edit mode. Toggles racing the save stay pending for the next one.
// On failure the matrix stays in edit mode with its changes.
func (e *Editor) Save(ctx context.Context, actorID string) ([]Change, error) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if !e.matrix.EditMode() {
		return nil, ErrReadOnly
	}
	changes, grid := e.matrix.Pending()
	if len(changes) > 0 {
		role := e.role
		role.Categories = grid
		if err := e.repo.SaveRole(ctx, role); err != nil {
			e.notifier.Notify(ctx, wizard.NotifyError, wizard.DefaultSubmitErrorMessage)
			return nil, fmt.Errorf("permissions: save role %s: %w", e.role.ID, err)
		}
	}
	e.matrix.CommitSnapshot(grid)
	for _, change := range changes {
		verb := "role.permission.revoke"
		if change.Enabled {
			verb = "role.permission.grant"
		}
		_ = e.activity.Emit(ctx, activity.Event{
			Verb:       verb,
			ActorID:    actorID,
			ObjectType: "role",
			ObjectID:   e.role.ID,
			Metadata: map[string]any{
				"category":      change.Category,
				"permission_id": change.PermissionID,
			},
		})
	}
	e.telem.Record(ctx, "role.save", map[string]any{
		"role_id": e.role.ID,
		"changes": len(changes),
	})
	e.notifier.Notify(ctx, wizard.NotifySuccess, fmt.Sprintf("Permissions for %s saved.", e.role.Name))
	return changes, nil
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}
