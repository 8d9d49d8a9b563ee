// Wall construction and dora bookkeeping
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package mahjong

import (
	"math/rand"

	"github.com/kester2000/lgtbot/games/mahjong/counter"
)

// tileSet builds the unshuffled wall: four of each kind, one five per
// suit replaced by the red five.  Three-player mode drops 2m through
// 8m, and with them the red 5m.
func tileSet(threePlayers bool) []counter.Tile {
	var tiles []counter.Tile
	for b := counter.Base(0); b < counter.BaseNum; b++ {
		if threePlayers && b > counter.Man1 && b < counter.Man9 {
			continue
		}
		for i := 0; i < 4; i++ {
			t := counter.Tile{Base: b}
			if i == 0 && !b.IsHonor() && b.Number() == 5 {
				t.Red = true
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// markToumei turns count random suited tiles transparent; a
// transparent tile stays visible to every player wherever it sits.
func markToumei(rng *rand.Rand, tiles []counter.Tile, count int) {
	for count > 0 {
		i := rng.Intn(len(tiles))
		if tiles[i].Base.IsHonor() || tiles[i].Toumei {
			continue
		}
		tiles[i].Toumei = true
		count--
	}
}

// doraSignToDora maps a dora sign tile to the kind it points at.
// Three-player mode has only 1m and 9m left in the man suit, which
// point at each other.
func doraSignToDora(b counter.Base, threePlayers bool) counter.Base {
	switch {
	case b.IsHonor():
		switch b {
		case counter.North:
			return counter.East
		case counter.Chun:
			return counter.Haku
		default:
			return b + 1
		}
	case threePlayers && b.Suit() == 0:
		if b == counter.Man1 {
			return counter.Man9
		}
		return counter.Man1
	case b.Number() == 9:
		return b - 8
	default:
		return b + 1
	}
}

// doraManager holds the four sign pairs set aside at the deal.  One
// pair starts open; a kan opens one more, at most once per round and
// never past four.
type doraManager struct {
	pairs       [4][2]counter.Tile // dora sign, inner dora sign
	num         int
	openedRound int
}

func newDoraManager(signs []counter.Tile) *doraManager {
	dm := &doraManager{num: 1, openedRound: -1}
	for i := 0; i < 4; i++ {
		dm.pairs[i] = [2]counter.Tile{signs[2*i], signs[2*i+1]}
	}
	return dm
}

// Doras returns the open sign pairs.
func (dm *doraManager) Doras() [][2]counter.Tile {
	out := make([][2]counter.Tile, dm.num)
	copy(out, dm.pairs[:dm.num])
	return out
}

// TryOpenNewDora opens the next sign pair unless the cap is reached or
// one was already opened this round.
func (dm *doraManager) TryOpenNewDora(round int) bool {
	if dm.num >= 4 || dm.openedRound == round {
		return false
	}
	dm.num++
	dm.openedRound = round
	return true
}

// doraKinds maps the open signs to the kinds they score.
func (dm *doraManager) doraKinds(threePlayers bool) (doras, inners []counter.Base) {
	for _, pair := range dm.Doras() {
		doras = append(doras, doraSignToDora(pair[0].Base, threePlayers))
		inners = append(inners, doraSignToDora(pair[1].Base, threePlayers))
	}
	return doras, inners
}

// deal shuffles the wall and splits it: eight tiles for the dora sign
// pairs, then a 13-tile hand plus a private yama for every player.
func deal(rng *rand.Rand, playerNum, toumei int) (*doraManager, [][]counter.Tile, [][]counter.Tile) {
	three := playerNum == 3
	tiles := tileSet(three)
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })
	markToumei(rng, tiles, toumei)

	dm := newDoraManager(tiles[:8])
	rest := tiles[8:]
	yamaLen := 19
	if three {
		yamaLen = 20
	}
	per := 13 + yamaLen
	hands := make([][]counter.Tile, playerNum)
	yamas := make([][]counter.Tile, playerNum)
	for i := 0; i < playerNum; i++ {
		chunk := rest[i*per : (i+1)*per]
		hand := append([]counter.Tile(nil), chunk[:13]...)
		counter.Sort(hand)
		hands[i] = hand
		yamas[i] = append([]counter.Tile(nil), chunk[13:]...)
	}
	return dm, hands, yamas
}
