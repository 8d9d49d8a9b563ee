// LIE dice game
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

// Package liedice is a two-player bluffing game.  Each round one
// player secretly picks a number and announces a number which may be a
// lie; the other player believes or doubts.  Whoever loses the round
// collects the secret number, and collecting three copies of one
// number or one copy of every number loses the game.
package liedice

import (
	"fmt"
	"math/rand"
	"time"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/msg"
)

const (
	nameNumber = "设置数字阶段"
	nameLie    = "提问数字阶段"
	nameGuess  = "猜测阶段"
)

func init() {
	game.Register(&game.Info{
		Name:         "LIE",
		Developer:    "森高",
		Description:  "欺骗与怀疑的博弈游戏",
		Rule:         rule,
		MinPlayerNum: 2,
		MaxPlayerNum: 2,
		Multiple:     1,
		NewOptions:   newOptions,
		NewMainStage: newMainStage,
	})
}

const rule = "每回合一名玩家担任提问者，私信裁判选择 1～6 中的一个数字，随后公开提问一个数字（可以与所选数字不同）。\n" +
	"另一名玩家选择「相信」或「质疑」：质疑且提问为谎言、或相信且提问属实时，提问者获得所选数字；否则猜测者获得所选数字。\n" +
	"获得数字的玩家成为下一回合的提问者。某一数字获得 3 个、或六种数字各获得至少 1 个的玩家落败。"

type lieOptions struct {
	timeoutSec uint64
}

func newOptions() *game.Options {
	c := &lieOptions{timeoutSec: 300}
	o := &game.Options{Custom: c}
	o.Add("每阶段时限（秒）",
		func(args command.Args) { c.timeoutSec = uint64(args.Int(0)) },
		func() string { return fmt.Sprintf("%d秒", c.timeoutSec) },
		command.Keyword("时限"), &command.Int{Name: "秒数", Min: 30, Max: 3600})
	return o
}

type mainStage struct {
	*game.CompStage
	m          game.Match
	opts       *lieOptions
	rng        *rand.Rand
	questioner lgtbot.PlayerID
	round      int
	counts     [2][6]int
}

func newMainStage(m game.Match, opts *game.Options) game.MainStage {
	s := &mainStage{
		m:    m,
		opts: opts.Custom.(*lieOptions),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.questioner = lgtbot.PlayerID(s.rng.Intn(2))
	s.CompStage = game.NewComp(m, "LIE", game.CompHooks{
		OnBegin: func() game.Stage {
			s.round = 1
			return s.newRound()
		},
		Next: func(sub game.Stage, reason game.CheckoutReason) game.Stage {
			r := sub.(*roundStage)
			s.questioner = r.loser
			if s.judgeOver() {
				return nil
			}
			s.round++
			return s.newRound()
		},
	})
	return s
}

func (s *mainStage) newRound() *roundStage {
	return newRound(s)
}

// judgeOver checks the current questioner, who just lost a round.
func (s *mainStage) judgeOver() bool {
	hasAll := true
	for _, count := range s.counts[s.questioner] {
		if count >= 3 {
			return true
		}
		if count == 0 {
			hasAll = false
		}
	}
	return hasAll
}

func (s *mainStage) PlayerScores() []int64 {
	scores := make([]int64, s.m.PlayerNum())
	for pid := range scores {
		if lgtbot.PlayerID(pid) == s.questioner {
			scores[pid] = -10
		} else {
			scores[pid] = 10
		}
	}
	return scores
}

// roundStage runs one question round: pick, announce, judge.
type roundStage struct {
	*game.CompStage
	main       *mainStage
	questioner lgtbot.PlayerID
	guesser    lgtbot.PlayerID
	num        int
	lieNum     int
	doubt      bool
	loser      lgtbot.PlayerID
}

func newRound(main *mainStage) *roundStage {
	r := &roundStage{
		main:       main,
		questioner: main.questioner,
		guesser:    1 - main.questioner,
	}
	r.CompStage = game.NewComp(main.m, "回合", game.CompHooks{
		OnBegin: func() game.Stage {
			g := main.m.Broadcast()
			g.Printf("第%d回合开始，请玩家%s私信裁判选择数字", main.round, main.m.AtPlayer(r.questioner))
			g.Close()
			return r.numberStage()
		},
		Next: func(sub game.Stage, reason game.CheckoutReason) game.Stage {
			switch sub.Name() {
			case nameNumber:
				return r.lieStage()
			case nameLie:
				return r.guessStage()
			default:
				r.settle()
				return nil
			}
		},
	})
	return r
}

// soloAtom builds a stage where only one seat acts; the other seat is
// marked ready up front so a single action checks the stage out.
func (r *roundStage) soloAtom(name string, actor lgtbot.PlayerID, onTimeout, onComputer func(), cmd game.Command) *game.AtomStage {
	m := r.main.m
	return game.NewAtom(m, name, r.main.opts.timeoutSec, game.AtomHooks{
		OnBegin: func() {
			for pid := 0; pid < m.PlayerNum(); pid++ {
				if lgtbot.PlayerID(pid) != actor {
					m.Masker().Set(pid)
				}
			}
		},
		OnTimeout: func() game.Code {
			onTimeout()
			return game.CHECKOUT
		},
		OnComputerAct: func(pid lgtbot.PlayerID) game.Code {
			if pid == actor {
				onComputer()
			}
			return game.READY
		},
	}, cmd)
}

func (r *roundStage) numberStage() *game.AtomStage {
	m := r.main.m
	return r.soloAtom(nameNumber, r.questioner,
		func() {
			r.num = 1 + r.main.rng.Intn(6)
			broadcastf(m, "设置数字超时，裁判随机选择了数字")
		},
		func() { r.num = 1 + r.main.rng.Intn(6) },
		game.NewCommand("设置数字", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
			if pid != r.questioner {
				replyf(reply, "[错误] 本回合您为猜测者，无法设置数字")
				return game.FAILED
			}
			if public {
				replyf(reply, "[错误] 请私信裁判选择数字，公开选择无效")
				return game.FAILED
			}
			r.num = int(args.Int(0))
			replyf(reply, "设置成功，请提问数字")
			return game.READY
		}, &command.Int{Name: "数字", Min: 1, Max: 6}))
}

func (r *roundStage) lieStage() *game.AtomStage {
	m := r.main.m
	return r.soloAtom(nameLie, r.questioner,
		func() {
			r.lieNum = r.num
			broadcastf(m, "提问超时，视为提问实际数字%d", r.num)
		},
		func() {
			// Computers lie half the time.
			if r.main.rng.Intn(2) == 0 {
				r.lieNum = r.num
			} else {
				r.lieNum = 1 + r.main.rng.Intn(6)
			}
			broadcastf(m, "玩家%s提问数字%d，请玩家%s相信或质疑",
				m.AtPlayer(r.questioner), r.lieNum, m.AtPlayer(r.guesser))
		},
		game.NewCommand("提问数字", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
			if pid != r.questioner {
				replyf(reply, "[错误] 本回合您为猜测者，无法提问")
				return game.FAILED
			}
			r.lieNum = int(args.Int(0))
			broadcastf(m, "玩家%s提问数字%d，请玩家%s相信或质疑",
				m.AtPlayer(r.questioner), r.lieNum, m.AtPlayer(r.guesser))
			return game.READY
		}, &command.Int{Name: "数字", Min: 1, Max: 6}))
}

func (r *roundStage) guessStage() *game.AtomStage {
	m := r.main.m
	return r.soloAtom(nameGuess, r.guesser,
		func() {
			r.doubt = false
			broadcastf(m, "猜测超时，视为相信")
		},
		func() { r.doubt = r.main.rng.Intn(2) == 0 },
		game.NewCommand("相信或质疑提问", func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) game.Code {
			if pid != r.guesser {
				replyf(reply, "[错误] 本回合您为提问者，无法猜测")
				return game.FAILED
			}
			r.doubt = args.Bool(0)
			return game.READY
		}, &command.Bool{Name: "猜测", True: "质疑", False: "相信"}))
}

func (r *roundStage) settle() {
	m := r.main.m
	if r.num == 0 {
		r.num = 1 + r.main.rng.Intn(6)
	}
	if r.lieNum == 0 {
		r.lieNum = r.num
	}

	suc := r.doubt != (r.num == r.lieNum)
	if suc {
		r.loser = r.questioner
	} else {
		r.loser = r.guesser
	}
	r.main.counts[r.loser][r.num-1]++

	verb := "相信"
	if r.doubt {
		verb = "怀疑"
	}
	result := "失败"
	if suc {
		result = "成功"
	}
	g := m.Broadcast()
	g.Printf("实际数字为%d，%s%s，玩家%s获得数字%d\n数字获得情况：\n%s：%s",
		r.num, verb, result, m.AtPlayer(r.loser), r.num, m.AtPlayer(0), m.AtPlayer(1))
	for num := 1; num <= 6; num++ {
		g.Printf("\n%d [%d] %d", r.main.counts[0][num-1], num, r.main.counts[1][num-1])
	}
	g.Close()
}

func broadcastf(m game.Match, format string, args ...any) {
	g := m.Broadcast()
	g.Printf(format, args...)
	g.Close()
}

func replyf(reply msg.Sender, format string, args ...any) {
	g := reply.Open()
	g.Printf(format, args...)
	g.Close()
}
