package session

import (
	"errors"
	"fmt"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

var (
	// ErrUnauthenticated is returned when no user is signed in.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrForbidden is returned when the signed-in role may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// Action is an operation offered to the user that is subject to the role policy.
type Action int

const (
	// ActionView covers listing, searching and opening reports.
	ActionView Action = iota
	// ActionCreate covers adding a report.
	ActionCreate
	// ActionEdit covers changing the title or content of a report.
	ActionEdit
	// ActionDelete covers removing a report.
	ActionDelete
	// ActionReorder covers moving reports within the list.
	ActionReorder
	// ActionGenerate covers requesting generated report content.
	ActionGenerate
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionReorder:
		return "reorder"
	case ActionGenerate:
		return "generate"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Authorize is the single role policy. Admins may do everything, viewers may
// only view, and any other role is treated as signed out.
func Authorize(role models.Role, action Action) error {
	switch role {
	case models.RoleAdmin:
		return nil
	case models.RoleViewer:
		if action == ActionView {
			return nil
		}
		return fmt.Errorf("%w: %s requires admin", ErrForbidden, action)
	default:
		return ErrUnauthenticated
	}
}
