// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiles parses compact notation like "123m55p": digits accumulate
// until a suit letter flushes them.  '0' is the red five.
func tiles(t *testing.T, s string) []Tile {
	t.Helper()
	var out []Tile
	var digits []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
			continue
		}
		for _, d := range digits {
			tile, err := ParseTile(string([]byte{d, c}))
			require.NoError(t, err)
			out = append(out, tile)
		}
		digits = nil
	}
	require.Empty(t, digits, "trailing digits in %q", s)
	return out
}

func tile(t *testing.T, s string) Tile {
	t.Helper()
	tl, err := ParseTile(s)
	require.NoError(t, err)
	return tl
}

func yakuSet(r *Result) map[Yaku]int {
	m := map[Yaku]int{}
	for _, y := range r.Yakus {
		m[y]++
	}
	return m
}

func TestIsWin(t *testing.T) {
	for _, tc := range []struct {
		hand string
		win  bool
	}{
		{"123m456m789s234s55p", true},
		{"1122m4466s3377p55s", true}, // seven pairs
		{"19m19s19p1234567z1m", true}, // thirteen orphans
		{"123m456m789s234s57p", false},
		{"1122m4466s3377p5s6s", false},
	} {
		assert.Equal(t, tc.win, IsWin(Bases(tiles(t, tc.hand))), tc.hand)
	}
}

func TestListenTiles(t *testing.T) {
	listen := ListenTiles(Bases(tiles(t, "123m456m789m23s55p")))
	assert.Equal(t, []Base{Sou1, Sou4}, listen)

	// Tanki wait
	listen = ListenTiles(Bases(tiles(t, "123m456m789m234s5p")))
	assert.Equal(t, []Base{Pin5}, listen)

	assert.Nil(t, ListenTiles(Bases(tiles(t, "123m456m789m234s55p"))))
}

func TestPinfuTsumo(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "123m456m789s23s55p"), Win: tile(t, "4s")}
	r, err := Count(hand, &Context{Tsumo: true, SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Fan)
	assert.Equal(t, 20, r.Fu)
	assert.Equal(t, 700, r.Score1)
	ys := yakuSet(r)
	assert.Equal(t, 1, ys[Pinfu])
	assert.Equal(t, 1, ys[MenzenTsumo])
}

func TestRiichiDoraHaneman(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "123m456m789s23s55p"), Win: tile(t, "4s")}
	ctx := &Context{Tsumo: true, Riichi: true, Ippatsu: true, SeatWind: East,
		Doras: []Base{Pin5}}
	r, err := Count(hand, ctx)
	require.NoError(t, err)
	// Riichi, ippatsu, tsumo, pinfu plus two dora
	assert.Equal(t, 6, r.Fan)
	assert.Equal(t, 6000, r.Score1)
	assert.Equal(t, 2, yakuSet(r)[Dora])
}

func TestOpenYakuhaiRon(t *testing.T) {
	hand := &Hand{
		Concealed: tiles(t, "234m567s45p33p"),
		Melds:     []Meld{{Type: Pon, Tiles: tiles(t, "555z")}},
		Win:       tile(t, "6p"),
	}
	r, err := Count(hand, &Context{SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Fan)
	assert.Equal(t, 30, r.Fu)
	assert.Equal(t, 1500, r.Score1)
	assert.Equal(t, 1, yakuSet(r)[YakuHaku])
}

func TestChiitoitsu(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "1144m6688s3377p5m"), Win: tile(t, "5m")}
	r, err := Count(hand, &Context{Tsumo: true, SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Fan) // chiitoitsu + tsumo
	assert.Equal(t, 25, r.Fu)
	assert.Equal(t, 1600, r.Score1)
}

func TestKokushi(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "19m19s19p1234567z"), Win: tile(t, "9p")}
	r, err := Count(hand, &Context{SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 1, r.YakumanTimes)
	assert.Equal(t, []Yaku{Kokushi}, r.Yakus)
	assert.Equal(t, 48000, r.Score1)

	r, err = Count(hand, &Context{Tsumo: true, SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 16000, r.Score1)
}

func TestSanankouToitoiRon(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "111m333s555p9s9s22p"), Win: tile(t, "9s")}
	r, err := Count(hand, &Context{SeatWind: East})
	require.NoError(t, err)
	ys := yakuSet(r)
	// The ron-completed triplet is open, so only three concealed ones.
	assert.Equal(t, 1, ys[Toitoi])
	assert.Equal(t, 1, ys[Sanankou])
	assert.Equal(t, 0, ys[Suuankou])
	assert.Equal(t, 4, r.Fan)
	assert.Equal(t, 50, r.Fu)
	assert.Equal(t, 12000, r.Score1) // mangan
}

func TestSuuankouTsumo(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "111m333s555p9s9s22p"), Win: tile(t, "9s")}
	r, err := Count(hand, &Context{Tsumo: true, SeatWind: East})
	require.NoError(t, err)
	assert.Equal(t, 1, r.YakumanTimes)
	assert.Equal(t, []Yaku{Suuankou}, r.Yakus)
	assert.Equal(t, 16000, r.Score1)
}

func TestSeatWindCountsTwiceThenStripped(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "111z234m567s45p8p8p"), Win: tile(t, "6p")}
	r, err := Count(hand, &Context{SeatWind: East})
	require.NoError(t, err)
	ys := yakuSet(r)
	assert.Equal(t, 1, ys[SeatWindEast])
	assert.Equal(t, 1, ys[TableWindEast])
	assert.Equal(t, 2, r.Fan)
	assert.Equal(t, 40, r.Fu)

	// The engine drops the table-wind copies before reporting.
	fan := 0
	for _, y := range r.Yakus {
		if !y.IsTableWind() {
			fan++
		}
	}
	assert.Equal(t, 1, fan)
}

func TestRedAndNorthDora(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "123m406m789s23s55p"), Win: tile(t, "4s")}
	ctx := &Context{Tsumo: true, SeatWind: East, KitaCount: 2, Doras: []Base{North}}
	r, err := Count(hand, ctx)
	require.NoError(t, err)
	ys := yakuSet(r)
	assert.Equal(t, 1, ys[RedDora])
	assert.Equal(t, 2, ys[NorthDora])
	// Each extracted north also matches the north-pointing dora sign.
	assert.Equal(t, 2, ys[Dora])
}

func TestInnerDoraNeedsRiichi(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "123m456m789s23s55p"), Win: tile(t, "4s")}
	ctx := &Context{Tsumo: true, SeatWind: East, InnerDoras: []Base{Pin5}}
	r, err := Count(hand, ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, yakuSet(r)[InnerDora])

	ctx.Riichi = true
	r, err = Count(hand, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, yakuSet(r)[InnerDora])
}

func TestNoYaku(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "234m567m2s4s789p8s8s"), Win: tile(t, "3s")}
	_, err := Count(hand, &Context{SeatWind: East})
	assert.ErrorIs(t, err, ErrNoYaku)
}

func TestNotWin(t *testing.T) {
	hand := &Hand{Concealed: tiles(t, "239m567m2s4s789p8s9s"), Win: tile(t, "3s")}
	_, err := Count(hand, &Context{SeatWind: East})
	assert.ErrorIs(t, err, ErrNotWin)
}

func TestScoreLadder(t *testing.T) {
	for _, tc := range []struct {
		fan, fu, yakuman int
		tsumo            bool
		want             int
	}{
		{1, 30, 0, false, 1500},
		{3, 30, 0, true, 2000},
		{4, 40, 0, false, 12000}, // capped at mangan
		{5, 30, 0, false, 12000},
		{6, 30, 0, true, 6000},
		{8, 30, 0, false, 24000},
		{11, 30, 0, true, 12000},
		{13, 30, 0, false, 48000}, // counted yakuman
		{13, 0, 1, true, 16000},
		{26, 0, 2, false, 96000},
	} {
		assert.Equal(t, tc.want, score1(tc.fan, tc.fu, tc.yakuman, tc.tsumo),
			"fan=%d fu=%d yakuman=%d tsumo=%v", tc.fan, tc.fu, tc.yakuman, tc.tsumo)
	}
}

func TestTileNotation(t *testing.T) {
	red := tile(t, "0s")
	assert.True(t, red.Red)
	assert.Equal(t, Sou5, red.Base)
	assert.Equal(t, "0s", red.String())

	tm := tile(t, "t5p")
	assert.True(t, tm.Toumei)
	assert.Equal(t, "t5p", tm.String())

	_, err := ParseTile("8z")
	assert.Error(t, err)
	_, err = ParseTile("5x")
	assert.Error(t, err)
}
