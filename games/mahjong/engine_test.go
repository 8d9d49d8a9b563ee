// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package mahjong

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kester2000/lgtbot/games/mahjong/counter"
)

func mustTiles(t *testing.T, s string) []counter.Tile {
	t.Helper()
	tiles, err := parseTileGroup(s)
	require.NoError(t, err)
	return tiles
}

func mustTile(t *testing.T, s string) counter.Tile {
	t.Helper()
	tile, err := counter.ParseTile(s)
	require.NoError(t, err)
	return tile
}

func testTable(t *testing.T, playerNum int) (*table, *int) {
	t.Helper()
	pot := 0
	points := make([]int, playerNum)
	for i := range points {
		points[i] = 25000
	}
	return newTable(rand.New(rand.NewSource(7)), playerNum, 0, 0, points, &pot), &pot
}

// parkAll puts every seat into the passive terminal state so a test
// can drive the barrier directly.
func parkAll(tb *table) {
	for _, p := range tb.players {
		p.state = stRoundOver
	}
}

func TestDeal(t *testing.T) {
	dm, hands, yamas := deal(rand.New(rand.NewSource(1)), 4, 0)
	require.Len(t, hands, 4)
	reds := 0
	for i := 0; i < 4; i++ {
		assert.Len(t, hands[i], 13)
		assert.Len(t, yamas[i], 19)
		for _, tl := range append(hands[i], yamas[i]...) {
			if tl.Red {
				reds++
			}
		}
	}
	for _, pair := range dm.Doras() {
		if pair[0].Red || pair[1].Red {
			reds++
		}
	}
	assert.Equal(t, 3, reds, "one red five per suit")
	assert.Equal(t, 1, dm.num)

	_, hands3, yamas3 := deal(rand.New(rand.NewSource(1)), 3, 0)
	for i := 0; i < 3; i++ {
		assert.Len(t, hands3[i], 13)
		assert.Len(t, yamas3[i], 20)
		for _, tl := range append(hands3[i], yamas3[i]...) {
			mid := tl.Base > counter.Man1 && tl.Base < counter.Man9
			assert.False(t, mid, "man tile %s in a three-player deal", tl)
		}
	}
}

func TestDoraSignMapping(t *testing.T) {
	assert.Equal(t, counter.Man1, doraSignToDora(counter.Man9, false))
	assert.Equal(t, counter.Sou6, doraSignToDora(counter.Sou5, false))
	assert.Equal(t, counter.East, doraSignToDora(counter.North, false))
	assert.Equal(t, counter.Haku, doraSignToDora(counter.Chun, false))
	assert.Equal(t, counter.Man9, doraSignToDora(counter.Man1, true))
	assert.Equal(t, counter.Man1, doraSignToDora(counter.Man9, true))
}

func TestDoraOpeningMonotone(t *testing.T) {
	dm := newDoraManager(mustTiles(t, "11223344s"))
	assert.Equal(t, 1, len(dm.Doras()))
	assert.True(t, dm.TryOpenNewDora(1))
	assert.False(t, dm.TryOpenNewDora(1), "second opening in one round")
	assert.True(t, dm.TryOpenNewDora(2))
	assert.True(t, dm.TryOpenNewDora(3))
	assert.False(t, dm.TryOpenNewDora(4), "cap of four sign pairs")
	assert.Equal(t, 4, len(dm.Doras()))
}

func TestChiFromLocking(t *testing.T) {
	tb, _ := testTable(t, 4)
	// Player 2 discards 3m this round; nobody else offers one.
	tb.recordKiri(2, kiriTile{tile: mustTile(t, "3m")})

	p0 := tb.players[0]
	p0.hand = mustTiles(t, "2m4m2m4m123456789s")
	p0.state = stRoundBegin
	require.NoError(t, p0.Chi("234m"))
	assert.Equal(t, stAfterChiPon, p0.state)
	// Seats without a 3m discard are dropped from the chi-from set.
	assert.Equal(t, uint64(1<<2), p0.fromChiPlayers)

	// A second chi against the single 3m discard is rejected.
	p0.state = stRoundBegin
	err := p0.Chi("234m")
	require.Error(t, err)

	// Player 1 claims the same discard independently.
	p1 := tb.players[1]
	p1.hand = mustTiles(t, "2m4m123456789s55p")
	p1.state = stRoundBegin
	require.NoError(t, p1.Chi("234m"))
}

func TestChiDisabledForThreePlayers(t *testing.T) {
	tb, _ := testTable(t, 3)
	tb.recordKiri(1, kiriTile{tile: mustTile(t, "3s")})
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "2s4s1199m1199p555z")
	p0.state = stRoundBegin
	assert.Error(t, p0.Chi("234s"))
}

func TestRonAndSettlement(t *testing.T) {
	tb, _ := testTable(t, 4)
	tb.round = 2 // past the blessed-hand window
	parkAll(tb)

	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123m456m789m23s55p")
	p0.state = stAfterKiri
	tb.recordKiri(1, kiriTile{tile: mustTile(t, "4s")})

	res, _ := tb.RoundOver()
	require.Equal(t, barrierRonWindow, res)
	require.Equal(t, stNotifiedRon, p0.state)

	require.NoError(t, p0.Ron())
	require.NotNil(t, p0.win)
	assert.Equal(t, 1, p0.win.from)
	assert.Equal(t, stRoundOver, p0.state)

	res, _ = tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	// Pinfu plus ittsu, 3 fan 30 fu: the discarder pays 5800.
	assert.Equal(t, 25000+5800, p0.point)
	assert.Equal(t, 25000-5800, tb.players[1].point)
	assert.True(t, p0.win.res.HasYaku(counter.Ittsu))
}

func TestFurutinBlocksRon(t *testing.T) {
	tb, _ := testTable(t, 4)
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123m456m789m23s55p")
	p0.river = []riverTile{{tile: mustTile(t, "1s"), round: 1}}
	tb.recordKiri(1, kiriTile{tile: mustTile(t, "4s")})

	assert.True(t, p0.IsFurutin())
	assert.False(t, p0.CanRon())
	p0.state = stNotifiedRon
	assert.Error(t, p0.Ron())
}

func TestRiichiPassLocksFurutin(t *testing.T) {
	tb, _ := testTable(t, 4)
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123m456m789m23s55p")
	p0.richiiRound = 1
	p0.richiiListen = map[counter.Base]bool{counter.Sou1: true, counter.Sou4: true}
	p0.state = stNotifiedRon
	require.NoError(t, p0.Pass())
	assert.True(t, p0.permFurutin)
	assert.False(t, p0.CanRon())
}

func TestTsumoSettlement(t *testing.T) {
	tb, _ := testTable(t, 4)
	tb.round = 2
	parkAll(tb)

	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123m456m789s23s55p")
	win := mustTile(t, "4s")
	p0.tsumo = &win
	p0.state = stAfterGetTile
	require.NoError(t, p0.Tsumo())

	res, _ := tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	// Pinfu tsumo, 2 fan 20 fu: 700 from each of the three others.
	assert.Equal(t, 25000+3*700, p0.point)
	for _, p := range tb.players[1:] {
		assert.Equal(t, 25000-700, p.point)
	}
}

func TestRiichiStickAndPot(t *testing.T) {
	tb, pot := testTable(t, 4)
	parkAll(tb)

	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123m456m789m23s55p")
	tile := mustTile(t, "9p")
	p0.tsumo = &tile
	p0.state = stAfterGetTile
	require.NoError(t, p0.Kiri("9p", true))
	assert.Equal(t, 1, p0.richiiRound)

	res, _ := tb.RoundOver()
	require.Equal(t, barrierContinue, res)
	assert.Equal(t, 24000, p0.point)
	assert.Equal(t, 1000, *pot)
	assert.Equal(t, 2, tb.round)
}

func TestRiichiRequiresListen(t *testing.T) {
	tb, _ := testTable(t, 4)
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "1199m258s369p123z")
	tile := mustTile(t, "5m")
	p0.tsumo = &tile
	p0.state = stAfterGetTile
	assert.Error(t, p0.Kiri("5m", true))
	assert.Equal(t, 0, p0.richiiRound)
}

func TestDeadWallTenpaiSplit(t *testing.T) {
	tb, _ := testTable(t, 4)
	parkAll(tb)
	for _, p := range tb.players {
		p.yama = nil
		// A non-yaochuu river discard rules out nagashi mangan.
		p.river = []riverTile{{tile: mustTile(t, "5s"), round: 1}, {tile: mustTile(t, "6p"), round: 1}}
	}
	tb.players[0].hand = mustTiles(t, "123m456m789m23s55p")
	tb.players[1].hand = mustTiles(t, "234m567m234s678p8s")
	tb.players[2].hand = mustTiles(t, "147m258s369p12z77z")
	tb.players[3].hand = mustTiles(t, "129m47s258p123z44z")

	res, _ := tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	assert.Equal(t, 26500, tb.players[0].point)
	assert.Equal(t, 26500, tb.players[1].point)
	assert.Equal(t, 23500, tb.players[2].point)
	assert.Equal(t, 23500, tb.players[3].point)
}

func TestNagashiMangan(t *testing.T) {
	tb, _ := testTable(t, 4)
	parkAll(tb)
	for _, p := range tb.players {
		p.yama = nil
		p.river = []riverTile{{tile: mustTile(t, "5s"), round: 1}}
		p.hand = mustTiles(t, "129m47s258p123z44z")
	}
	tb.players[0].river = []riverTile{{tile: mustTile(t, "1m"), round: 1}, {tile: mustTile(t, "1z"), round: 2}}

	res, _ := tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	assert.Equal(t, 25000+3*4000, tb.players[0].point)
	for _, p := range tb.players[1:] {
		assert.Equal(t, 25000-4000, p.point)
	}
}

func TestFourWindAbort(t *testing.T) {
	tb, _ := testTable(t, 4)
	parkAll(tb)
	for _, p := range tb.players {
		p.river = []riverTile{{tile: mustTile(t, "1z"), round: 1}}
	}
	res, msgs := tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	assert.Contains(t, msgs[len(msgs)-1], "四风连打")
}

func TestKanOpensOneDoraPerRound(t *testing.T) {
	tb, _ := testTable(t, 4)
	parkAll(tb)

	p0 := tb.players[0]
	p0.hand = mustTiles(t, "1111m456m789s23s5p")
	p0.yama = mustTiles(t, "9s8s7s")
	p0.state = stAfterGetTile
	require.NoError(t, p0.Kan("1m"))
	assert.Equal(t, stAfterKan, p0.state)
	assert.True(t, tb.doraRequested)

	res, _ := tb.RoundOver()
	require.Equal(t, barrierContinue, res)
	assert.Equal(t, 2, len(tb.doras.Doras()))
}

func TestMultiRonSplitsDiscarderPayment(t *testing.T) {
	tb, pot := testTable(t, 4)
	tb.round = 2
	*pot = 2500
	parkAll(tb)

	hand := "123m456m789m23s55p"
	for _, pid := range []int{0, 1} {
		p := tb.players[pid]
		p.hand = mustTiles(t, hand)
		p.state = stAfterKiri
	}
	tb.recordKiri(2, kiriTile{tile: mustTile(t, "4s")})

	res, _ := tb.RoundOver()
	require.Equal(t, barrierRonWindow, res)
	require.NoError(t, tb.players[0].Ron())
	require.NoError(t, tb.players[1].Ron())

	res, _ = tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	// Each winner takes half of 5800 aliased up to 100, plus half of
	// the riichi pot.
	assert.Equal(t, 25000+2900+1250, tb.players[0].point)
	assert.Equal(t, 25000+2900+1250, tb.players[1].point)
	assert.Equal(t, 25000-2*2900, tb.players[2].point)
	assert.Equal(t, 0, *pot)
}

func TestNineOrphansAbort(t *testing.T) {
	tb, _ := testTable(t, 4)
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "19m19s19p123z456z7z")[:13]
	tile := mustTile(t, "5m")
	p0.tsumo = &tile
	p0.state = stAfterGetTile
	require.NoError(t, p0.Nagashi())
	assert.Equal(t, stRoundOver, p0.state)

	parkAll(tb)
	p0.kyuushu = true
	res, msgs := tb.RoundOver()
	require.Equal(t, barrierHandOver, res)
	assert.Contains(t, msgs[len(msgs)-1], "九种九牌")
}

func TestKitaCountsAndRedraws(t *testing.T) {
	tb, _ := testTable(t, 3)
	p0 := tb.players[0]
	p0.hand = mustTiles(t, "123s456s789s11p4z4z")
	tile := mustTile(t, "9p")
	p0.tsumo = &tile
	p0.yama = mustTiles(t, "5s6s")
	p0.state = stAfterGetTile
	require.NoError(t, p0.Kita())
	assert.Equal(t, 1, p0.kitaCount)
	assert.Equal(t, stAfterGetTile, p0.state)
	require.NotNil(t, p0.tsumo)

	// Four-player mode rejects the extraction.
	tb4, _ := testTable(t, 4)
	p := tb4.players[0]
	p.state = stAfterGetTile
	assert.Error(t, p.Kita())
}

func TestPerformDefaultFinishesRound(t *testing.T) {
	tb, _ := testTable(t, 4)
	for _, p := range tb.players {
		require.Equal(t, stRoundBegin, p.state)
		p.PerformDefault()
		assert.True(t, p.done())
		assert.Len(t, p.river, 1)
	}
}

func TestOptions(t *testing.T) {
	o := newOptions()
	c := o.Custom.(*mahjongOptions)
	require.True(t, o.Set("局数 8"))
	assert.Equal(t, 8, c.hands)
	require.True(t, o.Set("种子 abc"))
	assert.Equal(t, "abc", c.seed)
	assert.False(t, o.Set("局数 99"))
	assert.Equal(t, seedOf("abc"), seedOf("abc"), "seed must be stable")
}
