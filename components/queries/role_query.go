package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/permissions"
)

type roleEditors interface {
	Open(ctx context.Context, roleID string) (*permissions.Editor, error)
}

// RoleInput identifies a role.
type RoleInput struct {
	RoleID string `json:"role_id"`
}

// RoleView is the read model of the role detail page.
type RoleView struct {
	Role     permissions.Role     `json:"role"`
	EditMode bool                 `json:"edit_mode"`
	Enabled  int                  `json:"enabled"`
	Total    int                  `json:"total"`
	Changes  []permissions.Change `json:"changes"`
}

// RoleQuery resolves a role and its matrix state.
type RoleQuery struct {
	editors roleEditors
}

// NewRoleQuery builds the query.
func NewRoleQuery(editors roleEditors) *RoleQuery {
	return &RoleQuery{editors: editors}
}

var _ gocommand.Querier[RoleInput, RoleView] = (*RoleQuery)(nil)

// Query resolves the role view.
func (q *RoleQuery) Query(ctx context.Context, input RoleInput) (RoleView, error) {
	editor, err := q.editors.Open(ctx, input.RoleID)
	if err != nil {
		return RoleView{}, err
	}
	m := editor.Matrix()
	return RoleView{
		Role:     editor.Role(),
		EditMode: m.EditMode(),
		Enabled:  m.CountEnabled(),
		Total:    m.Total(),
		Changes:  m.Changes(),
	}, nil
}
