// Common identifiers and constants
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot, a multi-tenant engine hosting
// turn-based game matches driven by chat messages.  lgtbot is free
// software, distributed under the GNU Lesser General Public License,
// version 2.

package lgtbot

import "fmt"

type (
	// UserID and GroupID are the opaque identifiers assigned by the
	// chat platform.  PlayerID is a dense 0-based seat index local to
	// one match, assigned at game start.
	UserID     uint64
	GroupID    uint64
	MatchID    uint64
	PlayerID   uint64
	ComputerID uint64
)

func (u UserID) String() string  { return fmt.Sprintf("user %d", uint64(u)) }
func (g GroupID) String() string { return fmt.Sprintf("group %d", uint64(g)) }
func (m MatchID) String() string { return fmt.Sprintf("match #%d", uint64(m)) }
