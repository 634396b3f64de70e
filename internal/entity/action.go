package entity

import (
	"fmt"
	"strings"

	"github.com/enrollhq/enroll/pkg/types/errs"
)

// Action is the closed set of lifecycle transitions. Keeping it a typed enum
// makes every dispatch site an exhaustive switch instead of a runtime lookup.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPause   Action = "pause"
	ActionBlock   Action = "block"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionSubmit:
		return ActionSubmit, nil
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	case ActionPause:
		return ActionPause, nil
	case ActionBlock:
		return ActionBlock, nil
	default:
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownAction, s)
	}
}

// Target is the status an entity ends up in after the action succeeds.
func (a Action) Target() Status {
	switch a {
	case ActionSubmit:
		return StatusPending
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	case ActionPause:
		return StatusPaused
	case ActionBlock:
		return StatusBlocked
	}

	return ""
}
