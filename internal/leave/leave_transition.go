package leave

import (
	leaveerrors "github.com/techmajster/saas-leave-system/internal/leave/errors"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type Effect string

const (
	EffectApplyBalance  Effect = "apply_balance"
	EffectNotifyRequest Effect = "notify_requester"
)

// Transition decides the next status for a review action and the effects
// the transition triggers. Only pending requests move.
func Transition(current, action string) (string, []Effect, error) {
	var next string
	switch action {
	case ActionApprove:
		next = StatusApproved
	case ActionReject:
		next = StatusRejected
	default:
		return "", nil, leaveerrors.ErrInvalidAction
	}

	if current != StatusPending {
		return "", nil, leaveerrors.StatusConflict(action, current)
	}

	if next == StatusApproved {
		return next, []Effect{EffectApplyBalance, EffectNotifyRequest}, nil
	}
	return next, []Effect{EffectNotifyRequest}, nil
}
