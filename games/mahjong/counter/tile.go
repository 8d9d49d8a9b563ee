// Tile primitives
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

// Package counter is a riichi mahjong scoring library: win detection,
// listen-tile enumeration and yaku/fu/score counting for a single
// hand.  It knows nothing about rounds or players; the engine feeds it
// a hand snapshot plus context flags and reads back a result.
package counter

import (
	"fmt"
	"sort"
	"strings"
)

// Base identifies one of the 34 tile kinds.
type Base uint8

const (
	Man1 Base = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9
	Sou1
	Sou2
	Sou3
	Sou4
	Sou5
	Sou6
	Sou7
	Sou8
	Sou9
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9
	East
	South
	West
	North
	Haku
	Hatsu
	Chun

	BaseNum = 34
)

var oneNineBases = []Base{Man1, Man9, Sou1, Sou9, Pin1, Pin9, East, South, West, North, Haku, Hatsu, Chun}

// IsYaochuu reports whether the base is a terminal or honor.
func (b Base) IsYaochuu() bool {
	for _, t := range oneNineBases {
		if t == b {
			return true
		}
	}
	return false
}

// IsHonor reports whether the base is a wind or dragon.
func (b Base) IsHonor() bool { return b >= East }

// Suit returns 0/1/2 for man/sou/pin and 3 for honors.
func (b Base) Suit() int { return int(b) / 9 }

// Number returns the 1-based rank within the suit; honors yield their
// 1-based index among the seven honor kinds.
func (b Base) Number() int { return int(b)%9 + 1 }

var suitLetters = [4]byte{'m', 's', 'p', 'z'}

func (b Base) String() string {
	if b >= BaseNum {
		return fmt.Sprintf("Base(%d)", uint8(b))
	}
	n := b.Number()
	if b.IsHonor() {
		n = int(b-East) + 1
	}
	return fmt.Sprintf("%d%c", n, suitLetters[b.Suit()])
}

// Tile is one physical tile: a kind plus the red-five and transparency
// markers.
type Tile struct {
	Base   Base
	Red    bool // red five
	Toumei bool // transparent tile, visible to every player
}

// String renders the tile in standard notation: "5s", red five "0s",
// transparent tiles prefixed with 't'.
func (t Tile) String() string {
	n := t.Base.Number()
	if t.Base.IsHonor() {
		n = int(t.Base-East) + 1
	} else if t.Red {
		n = 0
	}
	s := fmt.Sprintf("%d%c", n, suitLetters[t.Base.Suit()])
	if t.Toumei {
		return "t" + s
	}
	return s
}

// ParseTile parses standard notation.  "0m" is the red five of man;
// a leading 't' marks a transparent tile.
func ParseTile(s string) (Tile, error) {
	var t Tile
	if strings.HasPrefix(s, "t") {
		t.Toumei = true
		s = s[1:]
	}
	if len(s) != 2 || s[0] < '0' || s[0] > '9' {
		return Tile{}, fmt.Errorf("非法的牌型「%s」", s)
	}
	n := int(s[0] - '0')
	suit := -1
	for i, l := range suitLetters {
		if s[1] == l {
			suit = i
		}
	}
	if suit == -1 {
		return Tile{}, fmt.Errorf("非法的牌型「%s」", s)
	}
	if suit == 3 {
		if n < 1 || n > 7 {
			return Tile{}, fmt.Errorf("非法的牌型「%s」", s)
		}
		t.Base = East + Base(n-1)
		return t, nil
	}
	if n == 0 {
		t.Red = true
		n = 5
	}
	if n < 1 || n > 9 {
		return Tile{}, fmt.Errorf("非法的牌型「%s」", s)
	}
	t.Base = Base(suit*9 + n - 1)
	return t, nil
}

// Less orders tiles for display: by kind, red fives after plain ones.
func (t Tile) Less(o Tile) bool {
	if t.Base != o.Base {
		return t.Base < o.Base
	}
	if t.Red != o.Red {
		return !t.Red
	}
	return !t.Toumei && o.Toumei
}

// Sort orders a tile slice for display.
func Sort(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Less(tiles[j]) })
}

// Counts tallies tiles per base kind.
func Counts(tiles []Tile) [BaseNum]int {
	var c [BaseNum]int
	for _, t := range tiles {
		c[t.Base]++
	}
	return c
}

// Bases projects tiles to their kinds.
func Bases(tiles []Tile) []Base {
	bases := make([]Base, len(tiles))
	for i, t := range tiles {
		bases[i] = t.Base
	}
	return bases
}
