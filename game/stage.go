// Stage framework
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

import (
	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/msg"
)

// Match is the view a running game has of its hosting match.
type Match interface {
	PlayerNum() int
	PlayerName(pid lgtbot.PlayerID) string
	AtPlayer(pid lgtbot.PlayerID) string
	Broadcast() *msg.Guard
	Tell(pid lgtbot.PlayerID) *msg.Guard
	StartTimer(sec uint64)
	StopTimer()
	Eliminate(pid lgtbot.PlayerID)
	IsEliminated(pid lgtbot.PlayerID) bool
	Achieve(pid lgtbot.PlayerID, name string)
	Masker() *Masker
}

// Stage is one phase of a running game.  Begin is called exactly once
// before any event; every Handle* entry point runs under the match
// lock.
type Stage interface {
	Name() string
	Begin()
	HandleRequest(r *command.Reader, pid lgtbot.PlayerID, public bool, reply msg.Sender) Code
	HandleTimeout() Code
	HandleLeave(pid lgtbot.PlayerID) Code
	HandleComputerAct(pid lgtbot.PlayerID) Code
	CommandInfos(withExample bool) []string
	IsOver() bool
}

// MainStage is the root stage of a game; its scores are read after the
// stage is over.
type MainStage interface {
	Stage
	PlayerScores() []int64
}

// AtomHooks customise an atomic stage.  Every field is optional; the
// zero hook checks out as soon as all seats are ready or the timer
// fires, absorbs leaves, and lets computers pass their turn.
type AtomHooks struct {
	// OnBegin runs after the readiness masker is cleared, before the
	// stage timer starts.
	OnBegin func()

	// OnAllReady runs when every seat is ready.  Return CHECKOUT to
	// finish the stage; return OK to keep collecting (the hook must
	// unset some seats itself or the stage stalls).
	OnAllReady func() Code

	// OnTimeout runs when the stage timer expires.  Return CONTINUE to
	// absorb the timeout, anything else checks out.
	OnTimeout func() Code

	// OnLeave runs when a player leaves mid-game, before the seat is
	// pinned ready.
	OnLeave func(pid lgtbot.PlayerID)

	// OnComputerAct picks the computer's action; the returned code goes
	// through the same READY handling as a request.
	OnComputerAct func(pid lgtbot.PlayerID) Code
}

// AtomStage collects one action from every seat, then checks out.
type AtomStage struct {
	M          Match
	name       string
	timeoutSec uint64
	hooks      AtomHooks
	cmds       []Command
	over       bool
}

// NewAtom builds an atomic stage.  A zero timeoutSec leaves the match
// timer untouched.
func NewAtom(m Match, name string, timeoutSec uint64, hooks AtomHooks, cmds ...Command) *AtomStage {
	return &AtomStage{M: m, name: name, timeoutSec: timeoutSec, hooks: hooks, cmds: cmds}
}

func (s *AtomStage) Name() string { return s.name }
func (s *AtomStage) IsOver() bool { return s.over }

func (s *AtomStage) Begin() {
	s.M.Masker().Clear()
	if s.hooks.OnBegin != nil {
		s.hooks.OnBegin()
	}
	if s.timeoutSec > 0 {
		s.M.StartTimer(s.timeoutSec)
	}
	// Every seat may already be pinned (everyone left or eliminated).
	if s.M.Masker().IsReady() {
		s.allReady()
	}
}

func (s *AtomStage) HandleRequest(r *command.Reader, pid lgtbot.PlayerID, public bool, reply msg.Sender) Code {
	code, matched := dispatch(s.cmds, r, pid, public, reply)
	if !matched {
		return NOT_FOUND
	}
	return s.absorb(pid, code)
}

func (s *AtomStage) HandleTimeout() Code {
	code := CHECKOUT
	if s.hooks.OnTimeout != nil {
		code = s.hooks.OnTimeout()
	}
	if code == CONTINUE && !s.over {
		return CONTINUE
	}
	s.finish()
	return CHECKOUT
}

func (s *AtomStage) HandleLeave(pid lgtbot.PlayerID) Code {
	if s.hooks.OnLeave != nil {
		s.hooks.OnLeave(pid)
	}
	if s.M.Masker().Pin(int(pid)) {
		s.allReady()
	}
	if s.over {
		return CHECKOUT
	}
	return CONTINUE
}

func (s *AtomStage) HandleComputerAct(pid lgtbot.PlayerID) Code {
	code := READY
	if s.hooks.OnComputerAct != nil {
		code = s.hooks.OnComputerAct(pid)
	}
	return s.absorb(pid, code)
}

func (s *AtomStage) CommandInfos(withExample bool) []string {
	return commandInfos(s.cmds, withExample)
}

// absorb folds a handler code into stage state: READY marks the seat
// and may complete the stage, CHECKOUT ends it outright.
func (s *AtomStage) absorb(pid lgtbot.PlayerID, code Code) Code {
	switch code {
	case READY:
		if s.M.Masker().Set(int(pid)) {
			s.allReady()
		}
		if s.over {
			return CHECKOUT
		}
		return OK
	case CHECKOUT:
		s.finish()
	}
	return code
}

func (s *AtomStage) allReady() {
	code := CHECKOUT
	if s.hooks.OnAllReady != nil {
		code = s.hooks.OnAllReady()
	}
	if code == CHECKOUT {
		s.finish()
	}
}

func (s *AtomStage) finish() {
	if s.over {
		return
	}
	s.over = true
	s.M.StopTimer()
}

// Readiness helpers for game code.

func (s *AtomStage) SetReady(pid lgtbot.PlayerID) {
	if s.M.Masker().Set(int(pid)) {
		s.allReady()
	}
}

func (s *AtomStage) ClearReady(pid lgtbot.PlayerID) { s.M.Masker().Unset(int(pid)) }

func (s *AtomStage) IsReady(pid lgtbot.PlayerID) bool { return s.M.Masker().IsSet(int(pid)) }

// Eliminate drops the player from the rest of the game and pins the
// seat ready.
func (s *AtomStage) Eliminate(pid lgtbot.PlayerID) {
	s.M.Eliminate(pid)
	if s.M.Masker().Pin(int(pid)) {
		s.allReady()
	}
}

// CompHooks customise a composite stage.
type CompHooks struct {
	// OnBegin returns the first substage.  Required.
	OnBegin func() Stage

	// Next returns the stage following a finished substage, or nil to
	// finish the composite stage.  Required.
	Next func(sub Stage, reason CheckoutReason) Stage

	// OnLeave is notified before the leave is forwarded to the
	// substage.
	OnLeave func(pid lgtbot.PlayerID)
}

// CompStage chains substages; events it cannot answer with its own
// commands are forwarded to the current substage, and a finished
// substage is replaced through the Next hook.
type CompStage struct {
	M     Match
	name  string
	hooks CompHooks
	cmds  []Command
	sub   Stage
	over  bool
}

func NewComp(m Match, name string, hooks CompHooks, cmds ...Command) *CompStage {
	return &CompStage{M: m, name: name, hooks: hooks, cmds: cmds}
}

func (s *CompStage) Name() string { return s.name }
func (s *CompStage) IsOver() bool { return s.over }

func (s *CompStage) Sub() Stage { return s.sub }

func (s *CompStage) Begin() {
	s.enter(s.hooks.OnBegin())
}

// enter installs substages until one survives its own Begin; a
// substage born over is skipped.
func (s *CompStage) enter(sub Stage) {
	for {
		if sub == nil {
			s.over = true
			return
		}
		s.sub = sub
		sub.Begin()
		if !sub.IsOver() {
			return
		}
		sub = s.hooks.Next(sub, CheckoutSkip)
	}
}

func (s *CompStage) HandleRequest(r *command.Reader, pid lgtbot.PlayerID, public bool, reply msg.Sender) Code {
	if code, matched := dispatch(s.cmds, r, pid, public, reply); matched {
		return code
	}
	code := s.sub.HandleRequest(r, pid, public, reply)
	return s.forwarded(code, CheckoutByRequest)
}

func (s *CompStage) HandleTimeout() Code {
	return s.forwarded(s.sub.HandleTimeout(), CheckoutByTimeout)
}

func (s *CompStage) HandleLeave(pid lgtbot.PlayerID) Code {
	if s.hooks.OnLeave != nil {
		s.hooks.OnLeave(pid)
	}
	return s.forwarded(s.sub.HandleLeave(pid), CheckoutByLeave)
}

func (s *CompStage) HandleComputerAct(pid lgtbot.PlayerID) Code {
	return s.forwarded(s.sub.HandleComputerAct(pid), CheckoutByRequest)
}

func (s *CompStage) CommandInfos(withExample bool) []string {
	infos := commandInfos(s.cmds, withExample)
	if s.sub != nil {
		infos = append(infos, s.sub.CommandInfos(withExample)...)
	}
	return infos
}

// forwarded folds a substage result: a substage checkout advances to
// the next substage, and only an exhausted chain checks the composite
// stage out.
func (s *CompStage) forwarded(code Code, reason CheckoutReason) Code {
	if s.sub.IsOver() {
		s.enter(s.hooks.Next(s.sub, reason))
	}
	if s.over {
		return CHECKOUT
	}
	if code == CHECKOUT {
		return OK
	}
	return code
}
