// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

import (
	"fmt"
	"testing"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/msg"
)

// fakeMatch hosts stages without a real match behind them.
type fakeMatch struct {
	masker     *Masker
	timers     []uint64
	stops      int
	eliminated map[lgtbot.PlayerID]bool
}

func newFakeMatch(n int) *fakeMatch {
	return &fakeMatch{masker: NewMasker(n), eliminated: make(map[lgtbot.PlayerID]bool)}
}

func (m *fakeMatch) PlayerNum() int { return m.masker.Size() }

func (m *fakeMatch) PlayerName(pid lgtbot.PlayerID) string {
	return fmt.Sprintf("玩家%d", uint64(pid))
}

func (m *fakeMatch) AtPlayer(pid lgtbot.PlayerID) string {
	return fmt.Sprintf("<%d>", uint64(pid))
}

func (m *fakeMatch) Broadcast() *msg.Guard { return msg.Empty{}.Open() }

func (m *fakeMatch) Tell(pid lgtbot.PlayerID) *msg.Guard { return msg.Empty{}.Open() }

func (m *fakeMatch) StartTimer(sec uint64) { m.timers = append(m.timers, sec) }

func (m *fakeMatch) StopTimer() { m.stops++ }

func (m *fakeMatch) Eliminate(pid lgtbot.PlayerID) { m.eliminated[pid] = true }

func (m *fakeMatch) IsEliminated(pid lgtbot.PlayerID) bool { return m.eliminated[pid] }

func (m *fakeMatch) Achieve(pid lgtbot.PlayerID, name string) {}

func (m *fakeMatch) Masker() *Masker { return m.masker }

func passCmd() Command {
	return NewCommand("结束回合", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) Code {
		return READY
	}, command.Keyword("过"))
}

func request(t *testing.T, s Stage, pid lgtbot.PlayerID, text string) Code {
	t.Helper()
	return s.HandleRequest(command.NewReader(text), pid, false, msg.Empty{})
}

func TestAtomChecksOutWhenAllReady(t *testing.T) {
	m := newFakeMatch(2)
	s := NewAtom(m, "回合", 60, AtomHooks{}, passCmd())
	s.Begin()
	if len(m.timers) != 1 || m.timers[0] != 60 {
		t.Fatalf("timers = %v", m.timers)
	}
	if code := request(t, s, 0, "过"); code != OK {
		t.Fatalf("first ready: code = %v", code)
	}
	if s.IsOver() {
		t.Fatal("over before all ready")
	}
	if code := request(t, s, 1, "过"); code != CHECKOUT {
		t.Fatalf("last ready: code = %v", code)
	}
	if !s.IsOver() {
		t.Fatal("not over after all ready")
	}
	if m.stops != 1 {
		t.Fatalf("stops = %d", m.stops)
	}
}

func TestAtomUnknownCommand(t *testing.T) {
	m := newFakeMatch(1)
	s := NewAtom(m, "回合", 0, AtomHooks{}, passCmd())
	s.Begin()
	if code := request(t, s, 0, "跳"); code != NOT_FOUND {
		t.Fatalf("code = %v", code)
	}
}

func TestAtomTimeoutChecksOut(t *testing.T) {
	m := newFakeMatch(2)
	s := NewAtom(m, "回合", 30, AtomHooks{}, passCmd())
	s.Begin()
	if code := s.HandleTimeout(); code != CHECKOUT {
		t.Fatalf("code = %v", code)
	}
	if !s.IsOver() {
		t.Fatal("not over after timeout")
	}
}

func TestAtomTimeoutContinue(t *testing.T) {
	m := newFakeMatch(2)
	absorbed := false
	s := NewAtom(m, "回合", 30, AtomHooks{
		OnTimeout: func() Code { absorbed = true; return CONTINUE },
	}, passCmd())
	s.Begin()
	if code := s.HandleTimeout(); code != CONTINUE {
		t.Fatalf("code = %v", code)
	}
	if !absorbed || s.IsOver() {
		t.Fatal("timeout not absorbed")
	}
}

func TestAtomLeavePinsSeat(t *testing.T) {
	m := newFakeMatch(2)
	s := NewAtom(m, "回合", 0, AtomHooks{}, passCmd())
	s.Begin()
	if code := s.HandleLeave(0); code != CONTINUE {
		t.Fatalf("code = %v", code)
	}
	if code := request(t, s, 1, "过"); code != CHECKOUT {
		t.Fatalf("code = %v", code)
	}
}

func TestAtomBeginWithAllPinned(t *testing.T) {
	m := newFakeMatch(2)
	m.masker.Pin(0)
	m.masker.Pin(1)
	s := NewAtom(m, "回合", 0, AtomHooks{}, passCmd())
	s.Begin()
	if !s.IsOver() {
		t.Fatal("stage with only pinned seats must check out at begin")
	}
}

func TestAtomAllReadyCanRestart(t *testing.T) {
	m := newFakeMatch(2)
	rounds := 0
	s := NewAtom(m, "回合", 0, AtomHooks{
		OnAllReady: func() Code {
			rounds++
			if rounds < 2 {
				m.masker.Clear()
				return OK
			}
			return CHECKOUT
		},
	}, passCmd())
	s.Begin()
	request(t, s, 0, "过")
	request(t, s, 1, "过")
	if s.IsOver() {
		t.Fatal("first collection must restart")
	}
	request(t, s, 0, "过")
	if code := request(t, s, 1, "过"); code != CHECKOUT {
		t.Fatalf("code = %v", code)
	}
}

func TestCompAdvancesSubstages(t *testing.T) {
	m := newFakeMatch(2)
	makeSub := func(name string) Stage {
		return NewAtom(m, name, 0, AtomHooks{}, passCmd())
	}
	comp := NewComp(m, "主流程", CompHooks{
		OnBegin: func() Stage { return makeSub("第一阶段") },
		Next: func(sub Stage, reason CheckoutReason) Stage {
			if reason != CheckoutByRequest {
				t.Fatalf("reason = %v", reason)
			}
			if sub.Name() == "第一阶段" {
				return makeSub("第二阶段")
			}
			return nil
		},
	})
	comp.Begin()
	if comp.Sub().Name() != "第一阶段" {
		t.Fatalf("sub = %s", comp.Sub().Name())
	}
	request(t, comp, 0, "过")
	if code := request(t, comp, 1, "过"); code != OK {
		t.Fatalf("substage checkout must map to OK, got %v", code)
	}
	if comp.Sub().Name() != "第二阶段" {
		t.Fatalf("sub = %s", comp.Sub().Name())
	}
	// The masker must be reusable in the second substage.
	request(t, comp, 0, "过")
	if code := request(t, comp, 1, "过"); code != CHECKOUT {
		t.Fatalf("final checkout: code = %v", code)
	}
	if !comp.IsOver() {
		t.Fatal("comp not over")
	}
}

func TestCompSkipsBornOverSubstage(t *testing.T) {
	m := newFakeMatch(2)
	m.masker.Pin(0)
	m.masker.Pin(1)
	seen := []string{}
	reasons := []CheckoutReason{}
	comp := NewComp(m, "主流程", CompHooks{
		OnBegin: func() Stage {
			seen = append(seen, "首")
			return NewAtom(m, "首", 0, AtomHooks{}, passCmd())
		},
		Next: func(sub Stage, reason CheckoutReason) Stage {
			reasons = append(reasons, reason)
			if len(seen) < 3 {
				seen = append(seen, "续")
				return NewAtom(m, "续", 0, AtomHooks{}, passCmd())
			}
			return nil
		},
	})
	comp.Begin()
	if !comp.IsOver() {
		t.Fatal("comp must run out of substages immediately")
	}
	if len(seen) != 3 {
		t.Fatalf("seen = %v", seen)
	}
	// A substage nobody acted in reports a skip, not a request.
	for i, r := range reasons {
		if r != CheckoutSkip {
			t.Fatalf("reasons[%d] = %v", i, r)
		}
	}
}

func TestCompOwnCommandDoesNotReachSub(t *testing.T) {
	m := newFakeMatch(1)
	info := NewCommand("查看进度", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) Code {
		return OK
	}, command.Keyword("赛况"))
	comp := NewComp(m, "主流程", CompHooks{
		OnBegin: func() Stage { return NewAtom(m, "回合", 0, AtomHooks{}, passCmd()) },
		Next:    func(sub Stage, reason CheckoutReason) Stage { return nil },
	}, info)
	comp.Begin()
	if code := request(t, comp, 0, "赛况"); code != OK {
		t.Fatalf("code = %v", code)
	}
	if comp.Sub().IsOver() {
		t.Fatal("informational command must not advance the substage")
	}
}
