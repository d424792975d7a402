package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

type sessionLookup interface {
	Session(id string) (*wizard.Controller, error)
}

// WizardStatusInput identifies a wizard session.
type WizardStatusInput struct {
	SessionID string `json:"session_id"`
}

// WizardStatus is the read model of a wizard session.
type WizardStatus struct {
	SessionID string             `json:"session_id"`
	State     wizard.State       `json:"state"`
	Current   string             `json:"current"`
	Steps     []wizard.StepState `json:"steps"`
	Progress  wizard.Progress    `json:"progress"`
	Data      map[string]any     `json:"data"`
}

// StatusOf builds the read model straight from a controller.
func StatusOf(c *wizard.Controller) WizardStatus {
	return WizardStatus{
		SessionID: c.SessionID(),
		State:     c.State(),
		Current:   c.Current().ID,
		Steps:     c.StepStates(),
		Progress:  c.Progress(),
		Data:      c.Snapshot().Data(),
	}
}

// WizardStatusQuery resolves step status for a session.
type WizardStatusQuery struct {
	sessions sessionLookup
}

// NewWizardStatusQuery builds the query.
func NewWizardStatusQuery(sessions sessionLookup) *WizardStatusQuery {
	return &WizardStatusQuery{sessions: sessions}
}

var _ gocommand.Querier[WizardStatusInput, WizardStatus] = (*WizardStatusQuery)(nil)

// Query resolves the status.
func (q *WizardStatusQuery) Query(_ context.Context, input WizardStatusInput) (WizardStatus, error) {
	controller, err := q.sessions.Session(input.SessionID)
	if err != nil {
		return WizardStatus{}, err
	}
	return StatusOf(controller), nil
}
