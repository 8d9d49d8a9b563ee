// Synchronous mahjong game module
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

// Package mahjong is a synchronous riichi mahjong variant: every
// player draws from a private yama and acts simultaneously, with
// rounds separated by synchronization barriers.  Discards of the
// current round can be claimed or ronned by any number of players at
// once, and every player counts as the dealer of their own board.
package mahjong

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/msg"
)

func init() {
	game.Register(&game.Info{
		Name:         "同步麻将",
		Developer:    "森高",
		Description:  "所有玩家同时摸切的日式麻将",
		Rule:         rule,
		MinPlayerNum: 3,
		MaxPlayerNum: 4,
		Multiple:     2,
		NewOptions:   newOptions,
		NewMainStage: newMainStage,
	})
}

const rule = "每名玩家拥有独立的牌山，所有玩家同时摸牌、同时切牌。\n" +
	"每巡结束时结算：当巡的弃牌可以被任意多名玩家吃、碰、杠或荣和。\n" +
	"所有玩家都视为自家为庄家，场风役不计入。三人麻将移除 2m～8m，可拔北。\n" +
	"牌型以「345m」「5s」「0s（赤五）」的形式书写。对局结束后按点数变化计分。"

const achievementYakuman = "役满"

type mahjongOptions struct {
	timeoutSec uint64
	hands      int
	toumei     int
	initPoint  int
	seed       string
}

func newOptions() *game.Options {
	c := &mahjongOptions{timeoutSec: 300, hands: 4, initPoint: 25000}
	o := &game.Options{Custom: c}
	o.Add("每巡时限（秒）",
		func(args command.Args) { c.timeoutSec = uint64(args.Int(0)) },
		func() string { return fmt.Sprintf("%d秒", c.timeoutSec) },
		command.Keyword("时限"), &command.Int{Name: "秒数", Min: 30, Max: 3600})
	o.Add("对局局数",
		func(args command.Args) { c.hands = int(args.Int(0)) },
		func() string { return fmt.Sprintf("%d局", c.hands) },
		command.Keyword("局数"), &command.Int{Name: "局数", Min: 1, Max: 16})
	o.Add("透明牌数量",
		func(args command.Args) { c.toumei = int(args.Int(0)) },
		func() string { return fmt.Sprintf("%d张", c.toumei) },
		command.Keyword("透明牌"), &command.Int{Name: "数量", Min: 0, Max: 12})
	o.Add("起始点数",
		func(args command.Args) { c.initPoint = int(args.Int(0)) },
		func() string { return fmt.Sprintf("%d点", c.initPoint) },
		command.Keyword("起始点数"), &command.Int{Name: "点数", Min: 1000, Max: 100000})
	o.Add("随机种子",
		func(args command.Args) { c.seed = args.Str(0) },
		func() string {
			if c.seed == "" {
				return "随机"
			}
			return c.seed
		},
		command.Keyword("种子"), &command.AnyArg{Name: "种子"})
	return o
}

type mainStage struct {
	*game.CompStage
	m    game.Match
	opts *mahjongOptions
	rng  *rand.Rand

	points    []int
	richiiPot int
	hand      int
	auto      []autoOptions
}

type autoOptions struct {
	fu, kiri, getTile bool
}

func newMainStage(m game.Match, opts *game.Options) game.MainStage {
	c := opts.Custom.(*mahjongOptions)
	s := &mainStage{
		m:    m,
		opts: c,
		rng:  rand.New(rand.NewSource(seedOf(c.seed))),
		auto: make([]autoOptions, m.PlayerNum()),
	}
	s.points = make([]int, m.PlayerNum())
	for i := range s.points {
		s.points[i] = c.initPoint
	}
	s.CompStage = game.NewComp(m, "同步麻将", game.CompHooks{
		OnBegin: func() game.Stage {
			s.hand = 1
			return s.newHand()
		},
		Next: func(sub game.Stage, reason game.CheckoutReason) game.Stage {
			h := sub.(*handStage)
			for i, p := range h.table.players {
				s.points[i] = p.point
				s.auto[i] = autoOptions{fu: p.autoFu, kiri: p.autoKiri, getTile: p.autoGetTile}
			}
			if s.hand >= s.opts.hands || s.anyBusted() {
				return nil
			}
			s.hand++
			return s.newHand()
		},
	})
	return s
}

func seedOf(seed string) int64 {
	if seed == "" {
		return time.Now().UnixNano()
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

func (s *mainStage) anyBusted() bool {
	for _, p := range s.points {
		if p < 0 {
			return true
		}
	}
	return false
}

func (s *mainStage) newHand() *handStage {
	return newHandStage(s)
}

// PlayerScores is the point variation against the starting stack.
func (s *mainStage) PlayerScores() []int64 {
	scores := make([]int64, len(s.points))
	for i, p := range s.points {
		scores[i] = int64(p - s.opts.initPoint)
	}
	return scores
}

// handStage plays one hand to its settlement.
type handStage struct {
	*game.AtomStage
	main  *mainStage
	table *table
}

func newHandStage(main *mainStage) *handStage {
	s := &handStage{main: main}
	s.table = newTable(main.rng, main.m.PlayerNum(), main.opts.toumei,
		main.hand-1, main.points, &main.richiiPot)
	for i, a := range main.auto {
		p := s.table.players[i]
		p.autoFu, p.autoKiri, p.autoGetTile = a.fu, a.kiri, a.getTile
	}
	s.AtomStage = game.NewAtom(main.m, fmt.Sprintf("第%d局", main.hand), main.opts.timeoutSec, game.AtomHooks{
		OnBegin:       s.begin,
		OnAllReady:    s.advance,
		OnTimeout:     s.timeout,
		OnComputerAct: s.computerAct,
	}, s.commands()...)
	return s
}

func (s *handStage) begin() {
	broadcastf(s.main.m, "第 %d 局开始\n%s", s.main.hand, s.table.boardText())
	for _, p := range s.table.players {
		s.tellHand(p)
		if p.applyAuto() {
			s.M.Masker().Set(p.pid)
		}
	}
}

// advance runs barriers until some player owes an action or the hand
// is settled.
func (s *handStage) advance() game.Code {
	for {
		res, msgs := s.table.RoundOver()
		for _, m := range msgs {
			broadcastf(s.main.m, "%s", m)
		}
		switch res {
		case barrierHandOver:
			s.settle()
			return game.CHECKOUT
		case barrierRonWindow:
			if s.collectPending(true) {
				return game.OK
			}
		case barrierContinue:
			broadcastf(s.main.m, "%s", s.table.boardText())
			if s.collectPending(false) {
				return game.OK
			}
		}
	}
}

// collectPending applies auto options and reopens the seats that still
// owe an action; it reports whether any seat is pending.
func (s *handStage) collectPending(ronWindow bool) bool {
	pending := false
	for _, p := range s.table.players {
		if s.M.Masker().IsPinned(p.pid) {
			continue
		}
		if p.applyAuto() {
			s.M.Masker().Set(p.pid)
			continue
		}
		s.M.Masker().Unset(p.pid)
		pending = true
		if ronWindow {
			tellf(s.main.m, p.pid, "您可以荣和，请选择「荣」或「过」")
		} else {
			s.tellHand(p)
		}
	}
	if pending {
		s.M.StartTimer(s.main.opts.timeoutSec)
	}
	return pending
}

func (s *handStage) timeout() game.Code {
	for _, p := range s.table.players {
		if !p.done() {
			p.PerformDefault()
		}
	}
	if s.advance() == game.CHECKOUT {
		return game.CHECKOUT
	}
	return game.CONTINUE
}

func (s *handStage) computerAct(pid lgtbot.PlayerID) game.Code {
	p := s.table.players[int(pid)]
	for !p.done() {
		p.PerformDefault()
	}
	return game.READY
}

func (s *handStage) settle() {
	for _, p := range s.table.players {
		if p.win != nil && p.win.res.YakumanTimes > 0 {
			s.main.m.Achieve(lgtbot.PlayerID(p.pid), achievementYakuman)
		}
	}
	g := s.main.m.Broadcast()
	g.Printf("第 %d 局结束，当前点数：", s.main.hand)
	for _, p := range s.table.players {
		g.Printf("\n玩家 %d：%d 点", p.pid, p.point)
	}
	g.Close()
}

func (s *handStage) tellHand(p *player) {
	tellf(s.main.m, p.pid, "%s", p.handText())
}

// act wraps a player operation into a private-only stage command.
func (s *handStage) act(descr string, f func(p *player, args command.Args) error, checkers ...command.Checker) game.Command {
	return game.NewCommand(descr, func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
		if public {
			replyf(reply, "[错误] 麻将对局请私信裁判操作")
			return game.FAILED
		}
		p := s.table.players[int(pid)]
		if err := f(p, args); err != nil {
			replyf(reply, "[错误] %v", err)
			return game.FAILED
		}
		if p.applyAuto() {
			return game.READY
		}
		s.tellHand(p)
		return game.OK
	}, checkers...)
}

// toggle wraps an auto-option switch; flipping one on can finish the
// player's round immediately.
func (s *handStage) toggle(descr string, f func(p *player, on bool), keyword string) game.Command {
	return game.NewCommand(descr, func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
		p := s.table.players[int(pid)]
		f(p, args.Bool(0))
		replyf(reply, "设置成功")
		if !s.IsReady(pid) && p.applyAuto() {
			return game.READY
		}
		return game.OK
	}, command.Keyword(keyword), &command.Optional{
		Inner:   &command.Bool{Name: "开关", True: "开启", False: "关闭"},
		Default: true,
	})
}

func (s *handStage) commands() []game.Command {
	return []game.Command{
		s.act("摸牌", func(p *player, args command.Args) error {
			return p.Draw()
		}, command.Keyword("摸牌")),
		s.act("切出指定的牌", func(p *player, args command.Args) error {
			return p.Kiri(args.Str(0), false)
		}, command.Keyword("切"), &command.AnyArg{Name: "牌"}),
		s.act("切出刚摸到的牌", func(p *player, args command.Args) error {
			return p.Kiri("", false)
		}, command.Keyword("摸切")),
		s.act("立直并切出指定的牌", func(p *player, args command.Args) error {
			return p.Kiri(args.Str(0), true)
		}, command.Keyword("立直"), &command.AnyArg{Name: "牌"}),
		s.act("立直并切出刚摸到的牌", func(p *player, args command.Args) error {
			return p.Kiri("", true)
		}, command.Keyword("立直摸切")),
		s.act("吃上一巡的弃牌", func(p *player, args command.Args) error {
			return p.Chi(args.Str(0))
		}, command.Keyword("吃"), &command.AnyArg{Name: "牌组"}),
		s.act("碰上一巡的弃牌", func(p *player, args command.Args) error {
			return p.Pon(args.Str(0))
		}, command.Keyword("碰"), &command.AnyArg{Name: "牌"}),
		s.act("杠牌", func(p *player, args command.Args) error {
			return p.Kan(args.Str(0))
		}, command.Keyword("杠"), &command.AnyArg{Name: "牌"}),
		s.act("拔北", func(p *player, args command.Args) error {
			return p.Kita()
		}, command.Keyword("拔北")),
		s.act("自摸和牌", func(p *player, args command.Args) error {
			return p.Tsumo()
		}, command.Keyword("自摸")),
		s.act("荣和", func(p *player, args command.Args) error {
			return p.Ron()
		}, command.Keyword("荣")),
		s.act("九种九牌流局", func(p *player, args command.Args) error {
			return p.Nagashi()
		}, command.Keyword("九种九牌")),
		s.act("放弃荣和机会", func(p *player, args command.Args) error {
			return p.Pass()
		}, command.Keyword("过")),
		s.toggle("自动和牌", func(p *player, on bool) { p.autoFu = on }, "自动和了"),
		s.toggle("自动切出摸到的牌", func(p *player, on bool) { p.autoKiri = on }, "自动摸切"),
		s.toggle("跳过吃碰窗口自动摸牌", func(p *player, on bool) { p.autoGetTile = on }, "自动摸牌"),
		game.NewCommand("查看赛况", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
			replyf(reply, "%s", s.table.boardText())
			return game.OK
		}, command.Keyword("赛况")),
		game.NewCommand("查看手牌", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
			if public {
				replyf(reply, "[错误] 手牌只能私信查看")
				return game.FAILED
			}
			p := s.table.players[int(pid)]
			replyf(reply, "%s", p.handText())
			return game.OK
		}, command.Keyword("手牌")),
	}
}

func broadcastf(m game.Match, format string, args ...any) {
	g := m.Broadcast()
	g.Printf(format, args...)
	g.Close()
}

func tellf(m game.Match, pid int, format string, args ...any) {
	g := m.Tell(lgtbot.PlayerID(pid))
	g.Printf(format, args...)
	g.Close()
}

func replyf(reply msg.Sender, format string, args ...any) {
	g := reply.Open()
	g.Printf(format, args...)
	g.Close()
}
