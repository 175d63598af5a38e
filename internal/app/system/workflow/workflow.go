// Package workflow models a game's lifecycle.
//
//	draft ──finalize──▶ finalized
//	in_progress ──finalize──▶ finalized
//	finalized ──reopen──▶ in_progress
//
// Finalizing requires at least one recorded stat line. Re-opening only
// flips the status; stat lines are untouched. A finalized game is locked:
// its metadata, deletion and stat lines are closed to edits until re-opened.
// The store does not enforce the lock; callers must check CanEdit before
// issuing any mutating call for a game.
package workflow

import (
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/domain/models"
)

// Status is a game's workflow state.
type Status string

const (
	Draft      Status = models.GameDraft
	InProgress Status = models.GameInProgress
	Finalized  Status = models.GameFinalized
)

// Action is a requested transition.
type Action string

const (
	Finalize Action = "finalize"
	Reopen   Action = "reopen"
)

// ErrNoStatsMsg is the message for finalizing a game without any stat line.
const ErrNoStatsMsg = "cannot finalize a game with no recorded stats"

// Parse returns the Status for s. An empty string is a new game (Draft).
func Parse(s string) (Status, bool) {
	switch Status(s) {
	case "", Draft:
		return Draft, true
	case InProgress:
		return InProgress, true
	case Finalized:
		return Finalized, true
	}
	return "", false
}

// Transition returns the status that results from applying a to current.
// hasStats reports whether the game has at least one skater or goalie line.
func Transition(current Status, a Action, hasStats bool) (Status, error) {
	switch a {
	case Finalize:
		switch current {
		case Draft, InProgress:
			if !hasStats {
				return current, apperr.Workflow(ErrNoStatsMsg)
			}
			return Finalized, nil
		case Finalized:
			return current, apperr.Workflow("game is already finalized")
		}
	case Reopen:
		if current == Finalized {
			return InProgress, nil
		}
		return current, apperr.Workflowf("cannot re-open a game that is %s", current)
	default:
		return current, apperr.Workflowf("unknown workflow action %q", a)
	}
	return current, apperr.Workflowf("unknown workflow status %q", current)
}

// OfferedAction is the single action available from s.
func OfferedAction(s Status) Action {
	if s == Finalized {
		return Reopen
	}
	return Finalize
}

// IsLocked reports whether edits are closed for a game in status s.
func IsLocked(s Status) bool {
	return s == Finalized
}

// CanEdit is the one gate for game metadata edits, deletion and stat-line
// edits: the caller's role must allow editing and the game must be unlocked.
func CanEdit(roleCanEdit bool, s Status) bool {
	return roleCanEdit && !IsLocked(s)
}

// GuardEdit returns a WorkflowError when a game in status s is locked.
func GuardEdit(s Status) error {
	if IsLocked(s) {
		return apperr.Workflow("game is finalized; re-open it to make changes")
	}
	return nil
}
