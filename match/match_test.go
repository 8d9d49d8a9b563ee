// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/msg"
)

type recordSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordSink) Tell(uid lgtbot.UserID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf("tell %d: %s", uint64(uid), text))
}

func (s *recordSink) Broadcast(gid lgtbot.GroupID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf("group %d: %s", uint64(gid), text))
}

func (s *recordSink) At(gid lgtbot.GroupID, uid lgtbot.UserID) string {
	return fmt.Sprintf("[@%d]", uint64(uid))
}

func (s *recordSink) contains(sub string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// scoreGame is a one-stage game: every seat declares a score and the
// game ends when all seats declared.  Computers declare zero.
type scoreMain struct {
	*game.AtomStage
	scores []int64
}

func (s *scoreMain) PlayerScores() []int64 { return s.scores }

func scoreGame() *game.Info {
	return &game.Info{
		Name:         "出分",
		MinPlayerNum: 2,
		Multiple:     1,
		NewOptions: func() *game.Options {
			o := &game.Options{}
			limit := int64(100)
			o.Add("分数上限",
				func(args command.Args) { limit = args.Int(0) },
				func() string { return fmt.Sprint(limit) },
				command.Keyword("上限"), &command.Int{Name: "上限", Min: 1, Max: 1000})
			return o
		},
		NewMainStage: func(m game.Match, opts *game.Options) game.MainStage {
			s := &scoreMain{scores: make([]int64, m.PlayerNum())}
			s.AtomStage = game.NewAtom(m, "出分", 0, game.AtomHooks{},
				game.NewCommand("声明分数", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
					s.scores[pid] = args.Int(0)
					return game.READY
				}, command.Keyword("出分"), &command.Int{Name: "分数", Min: -100, Max: 100}))
			return s
		},
	}
}

func newTestRegistry() (*Registry, *recordSink) {
	sink := &recordSink{}
	return NewRegistry(sink, nil, "/tmp/games"), sink
}

func reply(sink *recordSink, uid lgtbot.UserID) msg.Sender {
	return &msg.UserSender{Sink: sink, UID: uid}
}

func TestRegistryExclusion(t *testing.T) {
	r, _ := newTestRegistry()
	info := scoreGame()
	m, rc := r.NewMatch(info, 1, 100)
	if rc != lgtbot.EC_OK || m == nil {
		t.Fatalf("NewMatch rc = %v", rc)
	}
	if _, rc := r.NewMatch(info, 1, 0); rc != lgtbot.EC_MATCH_USER_ALREADY_IN_OTHER_MATCH {
		t.Errorf("duplicate host rc = %v", rc)
	}
	if _, rc := r.NewMatch(info, 2, 100); rc != lgtbot.EC_MATCH_GROUP_ALREADY_HAS_MATCH {
		t.Errorf("duplicate group rc = %v", rc)
	}
	if r.GetMatch(1) != m || r.GetMatchByGroup(100) != m || r.GetMatchByID(m.ID()) != m {
		t.Error("lookup mismatch")
	}
}

func TestJoinLeaveAndHostSwitch(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)

	if rc := m.Join(2, reply(sink, 2), false); rc != lgtbot.EC_OK {
		t.Fatalf("join rc = %v", rc)
	}
	if rc := m.Join(2, reply(sink, 2), false); rc != lgtbot.EC_MATCH_USER_ALREADY_IN_MATCH {
		t.Errorf("rejoin rc = %v", rc)
	}

	// The host leaves before start; the remaining user is promoted.
	if rc := m.Leave(1, reply(sink, 1), false); rc != lgtbot.EC_OK {
		t.Fatalf("leave rc = %v", rc)
	}
	if !sink.contains("被选为新房主") {
		t.Error("no host switch announcement")
	}
	if r.GetMatch(1) != nil {
		t.Error("left user still bound")
	}

	// The last user leaves; the match dissolves.
	if rc := m.Leave(2, reply(sink, 2), false); rc != lgtbot.EC_OK {
		t.Fatalf("leave rc = %v", rc)
	}
	if r.GetMatchByGroup(100) != nil || r.GetMatchByID(m.ID()) != nil {
		t.Error("dissolved match still bound")
	}
}

func TestFullGameFlow(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)
	m.Join(2, reply(sink, 2), false)

	if rc := m.GameStart(2, reply(sink, 2)); rc != lgtbot.EC_MATCH_NOT_HOST {
		t.Fatalf("non-host start rc = %v", rc)
	}
	if rc := m.GameStart(1, reply(sink, 1)); rc != lgtbot.EC_OK {
		t.Fatalf("start rc = %v", rc)
	}
	if rc := m.Join(3, reply(sink, 3), false); rc != lgtbot.EC_MATCH_ALREADY_BEGIN {
		t.Errorf("late join rc = %v", rc)
	}

	if rc := m.Request(1, 100, "出分 10", reply(sink, 1)); rc != lgtbot.EC_GAME_REQUEST_OK {
		t.Fatalf("first request rc = %v", rc)
	}
	if rc := m.Request(2, 100, "出分 -10", reply(sink, 2)); rc != lgtbot.EC_GAME_REQUEST_CHECKOUT {
		t.Fatalf("second request rc = %v", rc)
	}
	if m.State() != IsOver {
		t.Error("match not over")
	}
	if !sink.contains("游戏结束，公布分数") {
		t.Error("no score announcement")
	}
	if !sink.contains("因为未连接数据库") {
		t.Error("expected unrecorded result note")
	}
	if r.GetMatch(1) != nil || r.GetMatchByGroup(100) != nil {
		t.Error("finished match still bound")
	}
}

func TestOptionConfigBeforeStart(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 0)
	m.Join(2, reply(sink, 2), false)

	if rc := m.Request(2, 0, "上限 50", reply(sink, 2)); rc != lgtbot.EC_MATCH_NOT_HOST {
		t.Errorf("non-host config rc = %v", rc)
	}
	if rc := m.Request(1, 0, "上限 50", reply(sink, 1)); rc != lgtbot.EC_GAME_REQUEST_OK {
		t.Errorf("config rc = %v", rc)
	}
	if rc := m.Request(1, 0, "胡说 50", reply(sink, 1)); rc != lgtbot.EC_GAME_REQUEST_NOT_FOUND {
		t.Errorf("unknown config rc = %v", rc)
	}
}

func TestKickOnConfigChange(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)
	m.Join(2, reply(sink, 2), true)

	if rc := m.SetMultiple(1, reply(sink, 1), 0); rc != lgtbot.EC_OK {
		t.Fatalf("set multiple rc = %v", rc)
	}
	if r.GetMatch(2) != nil {
		t.Error("flagged user not kicked on config change")
	}
	if !sink.contains("游戏配置已经发生变更") {
		t.Error("no kick announcement")
	}
}

func TestForceLeaveEndsMatchUnrecorded(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)
	m.Join(2, reply(sink, 2), false)
	m.GameStart(1, reply(sink, 1))

	if rc := m.Leave(1, reply(sink, 1), false); rc != lgtbot.EC_MATCH_ALREADY_BEGIN {
		t.Fatalf("soft leave mid-game rc = %v", rc)
	}
	if rc := m.Leave(1, reply(sink, 1), true); rc != lgtbot.EC_OK {
		t.Fatalf("force leave rc = %v", rc)
	}
	if r.GetMatch(1) != nil {
		t.Error("force-left user still bound")
	}
	// The remaining player still gets requests through.
	if rc := m.Leave(2, reply(sink, 2), true); rc != lgtbot.EC_OK {
		t.Fatalf("second force leave rc = %v", rc)
	}
	if !sink.contains("结果不会被记录") {
		t.Error("no dissolution announcement")
	}
	if r.GetMatchByID(m.ID()) != nil {
		t.Error("dissolved match still bound")
	}
}

func TestBenchToPadsWithComputers(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)

	if rc := m.SetBenchTo(1, reply(sink, 1), 3); rc != lgtbot.EC_OK {
		t.Fatalf("bench rc = %v", rc)
	}
	if rc := m.GameStart(1, reply(sink, 1)); rc != lgtbot.EC_OK {
		t.Fatalf("start rc = %v", rc)
	}
	// One human plus two computers; computers pass instantly, so a
	// single human action finishes the stage.
	if rc := m.Request(1, 100, "出分 7", reply(sink, 1)); rc != lgtbot.EC_GAME_REQUEST_CHECKOUT {
		t.Fatalf("request rc = %v", rc)
	}
	if m.State() != IsOver {
		t.Error("match not over")
	}
	if !sink.contains("因为玩家数小于2") {
		t.Error("single-user match must not be recorded")
	}
}

func TestTerminate(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 100)
	m.Join(2, reply(sink, 2), false)
	m.GameStart(1, reply(sink, 1))

	if rc := m.Terminate(false); rc != lgtbot.EC_MATCH_ALREADY_BEGIN {
		t.Errorf("soft terminate rc = %v", rc)
	}
	if rc := m.Terminate(true); rc != lgtbot.EC_OK {
		t.Errorf("force terminate rc = %v", rc)
	}
	if r.GetMatchByID(m.ID()) != nil || r.GetMatch(1) != nil {
		t.Error("terminated match still bound")
	}
}

func TestHelpAndShowInfo(t *testing.T) {
	r, sink := newTestRegistry()
	m, _ := r.NewMatch(scoreGame(), 1, 0)

	if rc := m.Request(1, 0, "帮助", reply(sink, 1)); rc != lgtbot.EC_GAME_REQUEST_OK {
		t.Fatalf("help rc = %v", rc)
	}
	if !sink.contains("当前可配置选项") {
		t.Error("pre-start help must list options")
	}
	m.ShowInfo(reply(sink, 1))
	if !sink.contains("游戏名称：出分") || !sink.contains("私密游戏") {
		t.Error("show info output incomplete")
	}
}
