// Text rendering of the shared board and private hands
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package mahjong

import (
	"fmt"
	"strings"

	"github.com/kester2000/lgtbot/games/mahjong/counter"
)

// boardText renders what every player may see: open dora signs, the
// riichi pot, and each seat's points, melds, extractions and river.
func (t *table) boardText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "第 %d 巡，宝牌指示牌：%s", t.round, t.doraText())
	if *t.richiiPot > 0 {
		fmt.Fprintf(&b, "，供托 %d 点", *t.richiiPot)
	}
	if t.benchang > 0 {
		fmt.Fprintf(&b, "，%d 本场", t.benchang)
	}
	for _, p := range t.players {
		fmt.Fprintf(&b, "\n%s", p.seatText())
	}
	return b.String()
}

func (p *player) seatText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "玩家 %d（%d 点）", p.pid, p.point)
	if p.richiiRound > 0 {
		b.WriteString("【立直】")
	}
	if p.kitaCount > 0 {
		fmt.Fprintf(&b, " 北×%d", p.kitaCount)
	}
	for _, m := range p.melds {
		b.WriteByte(' ')
		b.WriteString(meldText(m))
	}
	b.WriteString("\n  牌河：")
	if len(p.river) == 0 {
		b.WriteString("（无）")
	}
	for i, r := range p.river {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.tile.String())
		if r.richii {
			b.WriteString("(立)")
		}
	}
	return b.String()
}

func meldText(m meld) string {
	var parts []string
	for _, t := range m.tiles {
		parts = append(parts, t.String())
	}
	body := strings.Join(parts, "")
	switch m.typ {
	case counter.Chi:
		return "[吃" + body + "]"
	case counter.Pon:
		return "[碰" + body + "]"
	case counter.Ankan:
		return "[暗杠" + body + "]"
	default:
		return "[杠" + body + "]"
	}
}

// handText renders the player's private view: concealed tiles, the
// drawn tile set apart, and the current listen set when tenpai.
func (p *player) handText() string {
	sorted := append([]counter.Tile(nil), p.hand...)
	counter.Sort(sorted)
	var parts []string
	for _, t := range sorted {
		parts = append(parts, t.String())
	}
	s := "手牌：" + strings.Join(parts, " ")
	if p.tsumo != nil {
		s += "，摸到：" + p.tsumo.String()
	}
	if listen := counter.ListenTiles(counter.Bases(p.hand)); len(listen) > 0 && p.tsumo == nil {
		var ls []string
		for _, b := range listen {
			ls = append(ls, b.String())
		}
		s += "\n听牌：" + strings.Join(ls, " ")
	}
	return s
}
