// Stage result codes
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

// Code is the result of a stage handler.
type Code int

const (
	// OK: the action was accepted, the stage continues.
	OK Code = iota

	// READY: the action was accepted and completes the player's turn;
	// the framework marks the seat ready.
	READY

	// CHECKOUT: the stage is finished.
	CHECKOUT

	// FAILED: the action was rejected.
	FAILED

	// NOT_FOUND: no command matched the request.
	NOT_FOUND

	// CONTINUE: a timeout or leave event was absorbed without ending
	// the stage.
	CONTINUE
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case READY:
		return "READY"
	case CHECKOUT:
		return "CHECKOUT"
	case FAILED:
		return "FAILED"
	case NOT_FOUND:
		return "NOT_FOUND"
	case CONTINUE:
		return "CONTINUE"
	}
	return "INVALID"
}

// CheckoutReason says what ended a stage.
type CheckoutReason int

const (
	CheckoutByRequest CheckoutReason = iota
	CheckoutByTimeout
	CheckoutByLeave

	// CheckoutSkip marks a substage that was already over when it
	// began, so no player ever acted in it.
	CheckoutSkip
)
