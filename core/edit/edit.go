// Package edit holds the state machine shared by the entity editors.
//
// An edit session moves Viewing -> Editing -> Committing and back:
// cancel always returns to the last committed snapshot, a failed commit
// returns to Editing with the draft retained.
package edit

import "errors"

type State int

const (
	StateViewing State = iota
	StateEditing
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	}
	return "unknown"
}

var (
	ErrNotEditing     = errors.New("no edit session in progress")
	ErrAlreadyEditing = errors.New("an edit session is already in progress")
	ErrCommitting     = errors.New("a commit is in progress")
)
