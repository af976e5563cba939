// Package lifecycle holds the forward-only state machines for reports and rehab cases.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/sajhasahayog/relief-api/models"
)

// Action is an admin operation on a report
type Action string

// Report actions
const (
	ActionDispatch Action = "dispatch"
	ActionStart    Action = "in_progress"
	ActionResolve  Action = "resolve"
)

// ErrInvalidTransition is matched by every TransitionError
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describes a refused transition
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %q to %q", e.From, e.To)
}

// Is lets errors.Is match ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// transitions lists the statuses each action may start from
var transitions = map[Action]struct {
	from []models.DispatchStatus
	to   models.DispatchStatus
}{
	ActionDispatch: {from: []models.DispatchStatus{models.StatusPending}, to: models.StatusDispatched},
	ActionStart:    {from: []models.DispatchStatus{models.StatusDispatched}, to: models.StatusInProgress},
	ActionResolve:  {from: []models.DispatchStatus{models.StatusDispatched, models.StatusInProgress}, to: models.StatusResolved},
}

// Next returns the status a report moves to when action is applied in status from
func Next(from models.DispatchStatus, action Action) (models.DispatchStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown action %q", action)
	}
	for _, f := range t.from {
		if f == from {
			return t.to, nil
		}
	}
	return "", &TransitionError{From: string(from), To: string(t.to)}
}

// Dispatch applies a dispatch to d, setting the team and the optional note
func Dispatch(d *models.Dispatch, team models.TeamID, note string) error {
	if !team.Valid() {
		return fmt.Errorf("unknown team %q", team)
	}
	next, err := Next(d.Status, ActionDispatch)
	if err != nil {
		return err
	}
	d.Status = next
	d.Team = &team
	d.Note = nil
	if note != "" {
		d.Note = &note
	}
	return nil
}

// Apply moves d forward for an action that carries no input
func Apply(d *models.Dispatch, action Action) error {
	if action == ActionDispatch {
		return fmt.Errorf("dispatch requires a team")
	}
	next, err := Next(d.Status, action)
	if err != nil {
		return err
	}
	d.Status = next
	return nil
}

// NextRehab checks a rehab case may move from one status to the other. Only single
// forward steps are allowed.
func NextRehab(from, to models.RehabStatus) error {
	fromIdx, toIdx := rehabRank(from), rehabRank(to)
	if fromIdx < 0 || toIdx < 0 || toIdx != fromIdx+1 {
		return &TransitionError{From: string(from), To: string(to)}
	}
	return nil
}

func rehabRank(s models.RehabStatus) int {
	for i, v := range models.RehabStatuses {
		if v == s {
			return i
		}
	}
	return -1
}
