// Readiness tracking
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

type maskState uint8

const (
	maskUnset maskState = iota
	maskSet
	maskPinned
)

// Masker tracks which seats have acted this stage.  A seat is UNSET
// until its player acts, SET afterwards, and PINNED once the player
// permanently stops acting (left the match or was eliminated).  Pinned
// seats count as ready forever, Clear only rewinds SET seats.
type Masker struct {
	states []maskState
	unset  int
}

func NewMasker(n int) *Masker {
	return &Masker{states: make([]maskState, n), unset: n}
}

func (m *Masker) Size() int { return len(m.states) }

// Set marks the seat ready and reports whether every seat is now
// ready.  Pinned seats are unaffected.
func (m *Masker) Set(i int) bool {
	if m.states[i] == maskUnset {
		m.states[i] = maskSet
		m.unset--
	}
	return m.IsReady()
}

// Unset rewinds one SET seat, e.g. when a handler wants further input
// from a player that already acted.
func (m *Masker) Unset(i int) {
	if m.states[i] == maskSet {
		m.states[i] = maskUnset
		m.unset++
	}
}

// Pin marks the seat permanently ready and reports whether every seat
// is now ready.
func (m *Masker) Pin(i int) bool {
	if m.states[i] == maskUnset {
		m.unset--
	}
	m.states[i] = maskPinned
	return m.IsReady()
}

func (m *Masker) IsPinned(i int) bool { return m.states[i] == maskPinned }

func (m *Masker) IsSet(i int) bool { return m.states[i] != maskUnset }

// Clear rewinds every SET seat to UNSET; pinned seats stay pinned.
// Called when a new stage begins.
func (m *Masker) Clear() {
	for i, s := range m.states {
		if s == maskSet {
			m.states[i] = maskUnset
			m.unset++
		}
	}
}

// IsReady reports whether no seat remains UNSET.
func (m *Masker) IsReady() bool { return m.unset == 0 }
