// Round synchronization and settlement
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package mahjong

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/kester2000/lgtbot/games/mahjong/counter"
)

// barrierResult is what one synchronization barrier produced.
type barrierResult uint8

const (
	// barrierContinue starts the next round.
	barrierContinue barrierResult = iota
	// barrierRonWindow pauses for players who may ron a discard.
	barrierRonWindow
	// barrierHandOver ends the hand; points are settled.
	barrierHandOver
)

// table runs one hand for all players in lockstep.  The riichi pot is
// shared across hands, so the owner passes a pointer in.
type table struct {
	rng          *rand.Rand
	playerNum    int
	threePlayers bool
	round        int
	benchang     int
	richiiPot    *int
	doras        *doraManager
	players      []*player

	kiri          [][]kiriTile // per seat, current round only
	doraRequested bool
	anyNari       bool
	lastNariRound int
	inRonStage    bool
}

func newTable(rng *rand.Rand, playerNum, toumei, benchang int, points []int, richiiPot *int) *table {
	t := &table{
		rng:          rng,
		playerNum:    playerNum,
		threePlayers: playerNum == 3,
		round:        1,
		benchang:     benchang,
		richiiPot:    richiiPot,
		kiri:         make([][]kiriTile, playerNum),
	}
	dm, hands, yamas := deal(rng, playerNum, toumei)
	t.doras = dm
	for i := 0; i < playerNum; i++ {
		t.players = append(t.players, newPlayer(t, i, points[i], hands[i], yamas[i]))
	}
	return t
}

func (t *table) recordKiri(pid int, k kiriTile) {
	if t.lastNariRound == t.round {
		k.breakIppatsu = true
	}
	t.kiri[pid] = append(t.kiri[pid], k)
}

// markNari notes a claim; every discard of the current round loses its
// ippatsu eligibility.
func (t *table) markNari() {
	t.anyNari = true
	t.lastNariRound = t.round
	for pid := range t.kiri {
		for i := range t.kiri[pid] {
			t.kiri[pid][i].breakIppatsu = true
		}
	}
}

func (t *table) requestDora() { t.doraRequested = true }

// kiriCount counts this round's plain discards of the kind by a seat.
func (t *table) kiriCount(pid int, b counter.Base) int {
	n := 0
	for _, k := range t.kiri[pid] {
		if k.typ == kiriNormal && k.tile.Base == b {
			n++
		}
	}
	return n
}

// findKiri locates any other seat offering the kind this round.
func (t *table) findKiri(self int, b counter.Base, typ kiriType) int {
	for pid := 0; pid < t.playerNum; pid++ {
		if pid == self {
			continue
		}
		for _, k := range t.kiri[pid] {
			if k.typ == typ && k.tile.Base == b {
				return pid
			}
		}
	}
	return -1
}

// claimKiri returns the concrete tile a claim takes.  The snapshot is
// not consumed: in the synchronous game several players may claim the
// same discard.
func (t *table) claimKiri(pid int, b counter.Base) counter.Tile {
	for _, k := range t.kiri[pid] {
		if k.typ == kiriNormal && k.tile.Base == b {
			return k.tile
		}
	}
	return counter.Tile{Base: b}
}

// RoundOver runs one synchronization barrier.  Every player must be in
// a terminal state; the returned messages describe what the barrier
// decided.
func (t *table) RoundOver() (barrierResult, []string) {
	var msgs []string

	if !t.inRonStage {
		for _, p := range t.players {
			if !p.done() {
				p.PerformDefault()
			}
		}
		if t.doraRequested {
			t.doraRequested = false
			if t.doras.TryOpenNewDora(t.round) {
				msgs = append(msgs, fmt.Sprintf("杠后翻开新的宝牌指示牌：%s", t.doraText()))
			}
		}
		// Riichi sticks go to the pot before any ron can collect them.
		for _, p := range t.players {
			if p.richiiRound == t.round {
				p.point -= 1000
				*t.richiiPot += 1000
				msgs = append(msgs, fmt.Sprintf("玩家 %d 宣告立直，供托 1000 点", p.pid))
			}
		}
		notified := false
		for _, p := range t.players {
			if p.state == stAfterKiri && p.win == nil && p.CanRon() {
				p.state = stNotifiedRon
				notified = true
			}
		}
		if notified {
			t.inRonStage = true
			return barrierRonWindow, msgs
		}
	} else {
		t.inRonStage = false
	}

	for _, p := range t.players {
		if p.state == stAfterKiri || p.state == stNotifiedRon {
			p.PerformDefault()
		}
	}

	var winners []*player
	for _, p := range t.players {
		if p.win != nil {
			winners = append(winners, p)
		}
	}
	if len(winners) >= 3 {
		return barrierHandOver, append(msgs, "三家和了，本局流局")
	}
	if len(winners) > 0 {
		msgs = append(msgs, t.applyWins(winners)...)
		return barrierHandOver, msgs
	}

	if t.round == 1 {
		for _, p := range t.players {
			if p.kyuushu {
				return barrierHandOver, append(msgs, fmt.Sprintf("玩家 %d 九种九牌，本局流局", p.pid))
			}
		}
		if t.fourWindAbort() {
			return barrierHandOver, append(msgs, "四风连打，本局流局")
		}
	}

	if t.yamaExhausted() {
		msgs = append(msgs, t.settleExhaustion()...)
		return barrierHandOver, msgs
	}

	t.round++
	if t.allRichii() {
		return barrierHandOver, append(msgs, "四家立直，本局流局")
	}
	t.startRound()
	return barrierContinue, msgs
}

func (t *table) fourWindAbort() bool {
	if t.threePlayers {
		return false
	}
	var wind counter.Base
	for i, p := range t.players {
		if len(p.river) != 1 || len(p.melds) > 0 {
			return false
		}
		b := p.river[0].tile.Base
		if !b.IsHonor() || b >= counter.Haku {
			return false
		}
		if i == 0 {
			wind = b
		} else if b != wind {
			return false
		}
	}
	return true
}

func (t *table) yamaExhausted() bool {
	for _, p := range t.players {
		if len(p.yama) == 0 {
			return true
		}
	}
	return false
}

func (t *table) allRichii() bool {
	for _, p := range t.players {
		if p.richiiRound == 0 {
			return false
		}
	}
	return true
}

// applyWins settles every winner: tsumo collects from everyone, ron
// only from the discarder, with multi-ron splits aliased up to 100
// points.  The riichi pot divides by integer floor among winners; the
// remainder stays for the next hand.
func (t *table) applyWins(winners []*player) []string {
	var msgs []string
	n := t.playerNum
	fromCount := map[int]int{}
	for _, w := range winners {
		if w.win.from >= 0 {
			fromCount[w.win.from]++
		}
	}
	for _, w := range winners {
		r := w.win
		if r.from < 0 {
			pay := r.res.Score1 + t.benchang*100
			for _, p := range t.players {
				if p != w {
					p.point -= pay
					w.point += pay
				}
			}
			msgs = append(msgs, fmt.Sprintf("玩家 %d 自摸「%s」：%s", w.pid, r.tile, resultText(r.res)))
		} else {
			pay := ceil100((r.res.Score1 + t.benchang*(n-1)*100) / fromCount[r.from])
			t.players[r.from].point -= pay
			w.point += pay
			msgs = append(msgs, fmt.Sprintf("玩家 %d 荣和玩家 %d 的「%s」：%s", w.pid, r.from, r.tile, resultText(r.res)))
		}
	}
	if *t.richiiPot > 0 {
		share := *t.richiiPot / len(winners)
		for _, w := range winners {
			w.point += share
		}
		*t.richiiPot -= share * len(winners)
	}
	return msgs
}

func ceil100(v int) int { return (v + 99) / 100 * 100 }

// settleExhaustion handles the dead wall: nagashi mangan first, then
// the tenpai payments between listen and not-listen sides.
func (t *table) settleExhaustion() []string {
	msgs := []string{"牌山摸尽，本局流局"}
	mangan := false
	for _, p := range t.players {
		if !p.nagashiMangan() {
			continue
		}
		mangan = true
		pay := 4000 + t.benchang*100
		for _, o := range t.players {
			if o != p {
				o.point -= pay
				p.point += pay
			}
		}
		msgs = append(msgs, fmt.Sprintf("玩家 %d 流局满贯", p.pid))
	}
	if mangan {
		return msgs
	}

	var listeners, others []*player
	for _, p := range t.players {
		if p.isListen() {
			listeners = append(listeners, p)
		} else {
			others = append(others, p)
		}
	}
	if len(listeners) == 0 || len(others) == 0 {
		return msgs
	}
	total := 1000 * (t.playerNum - 1)
	for _, p := range listeners {
		p.point += total / len(listeners)
		msgs = append(msgs, fmt.Sprintf("玩家 %d 听牌，获得 %d 点", p.pid, total/len(listeners)))
	}
	for _, p := range others {
		p.point -= total / len(others)
	}
	return msgs
}

// nagashiMangan needs a river of nothing but terminals and honors.
func (p *player) nagashiMangan() bool {
	if len(p.river) == 0 {
		return false
	}
	for _, r := range p.river {
		if !r.tile.Base.IsYaochuu() {
			return false
		}
	}
	return true
}

// startRound resets the per-round snapshot and rearms every player.
func (t *table) startRound() {
	t.kiri = make([][]kiriTile, t.playerNum)
	for _, p := range t.players {
		p.chiThisRound = 0
		p.state = stRoundBegin
	}
}

func (t *table) doraText() string {
	var parts []string
	for _, pair := range t.doras.Doras() {
		parts = append(parts, pair[0].String())
	}
	return strings.Join(parts, " ")
}

func resultText(r *counter.Result) string {
	var names []string
	for _, y := range r.Yakus {
		names = append(names, y.String())
	}
	if r.YakumanTimes > 0 {
		return fmt.Sprintf("%s，役满，%d 点", strings.Join(names, " "), r.Score1)
	}
	return fmt.Sprintf("%s，%d 番 %d 符，%d 点", strings.Join(names, " "), r.Fan, r.Fu, r.Score1)
}
