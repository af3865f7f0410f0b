package model

import (
	"errors"
	"fmt"
)

// Status is the review state of a submission. Each lifecycle owns a closed
// subset of the values below.
type Status string

const (
	StatusInReview  Status = "IN_REVIEW"
	StatusApproved  Status = "APPROVED"
	StatusDenied    Status = "DENIED"
	StatusDuplicate Status = "DUPLICATE"

	StatusOpen     Status = "OPEN"
	StatusClosed   Status = "CLOSED"
	StatusResolved Status = "RESOLVED"
)

// Action is one moderator-facing trigger on a review control.
type Action string

const (
	ActionApprove   Action = "approve"
	ActionDeny      Action = "deny"
	ActionImprove   Action = "improve"
	ActionDuplicate Action = "duplicate"
	ActionList      Action = "list"
	ActionClose     Action = "close"
	ActionResolve   Action = "resolve"
	ActionReopen    Action = "reopen"
)

// Lifecycle selects the state graph a kind follows.
type Lifecycle int

const (
	LifecycleReview Lifecycle = iota
	LifecycleTicket
)

var ErrInvalidTransition = errors.New("invalid transition")

type edge struct {
	from   Status
	action Action
}

var lifecycleEdges = map[Lifecycle]map[edge]Status{
	LifecycleReview: {
		{StatusInReview, ActionApprove}:   StatusApproved,
		{StatusInReview, ActionDeny}:      StatusDenied,
		{StatusInReview, ActionDuplicate}: StatusDuplicate,
	},
	LifecycleTicket: {
		{StatusOpen, ActionClose}:    StatusClosed,
		{StatusOpen, ActionResolve}:  StatusResolved,
		{StatusClosed, ActionReopen}: StatusOpen,
	},
}

var lifecycleStatuses = map[Lifecycle][]Status{
	LifecycleReview: {StatusInReview, StatusApproved, StatusDenied, StatusDuplicate},
	LifecycleTicket: {StatusOpen, StatusClosed, StatusResolved},
}

var lifecycleActions = map[Lifecycle][]Action{
	LifecycleReview: {ActionApprove, ActionDeny, ActionImprove, ActionDuplicate, ActionList},
	LifecycleTicket: {ActionClose, ActionResolve, ActionReopen, ActionList},
}

// Initial is the status every new submission of the lifecycle starts in.
func (l Lifecycle) Initial() Status {
	if l == LifecycleTicket {
		return StatusOpen
	}
	return StatusInReview
}

// Statuses lists the closed status enumeration of the lifecycle.
func (l Lifecycle) Statuses() []Status {
	return append([]Status(nil), lifecycleStatuses[l]...)
}

// Actions lists the controls shown for the lifecycle, in button order.
func (l Lifecycle) Actions() []Action {
	return append([]Action(nil), lifecycleActions[l]...)
}

// ParseStatus validates a persisted status name against the lifecycle.
func (l Lifecycle) ParseStatus(name string) (Status, error) {
	for _, s := range lifecycleStatuses[l] {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", name)
}

// Terminal reports whether no moderator transition leaves s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusDenied, StatusDuplicate, StatusResolved:
		return true
	}
	return false
}

// Transition is the pure state machine. It returns the next status for
// action applied in from, or ErrInvalidTransition.
func Transition(kind Kind, from Status, action Action) (Status, error) {
	next, ok := lifecycleEdges[kind.Spec().Lifecycle][edge{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
	}
	return next, nil
}

// Allowed reports whether action may be invoked on a control whose
// submission is in status. List is always allowed and improve is only
// allowed while the submission is still under review.
func Allowed(kind Kind, status Status, action Action) bool {
	switch action {
	case ActionList:
		return true
	case ActionImprove:
		return kind.Spec().Lifecycle == LifecycleReview && status == StatusInReview
	}
	_, err := Transition(kind, status, action)
	return err == nil
}
