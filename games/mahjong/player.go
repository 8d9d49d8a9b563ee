// Per-player action state machine
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package mahjong

import (
	"errors"
	"fmt"

	"github.com/kester2000/lgtbot/games/mahjong/counter"
)

// actionState is the per-player position inside one round.
type actionState uint8

const (
	stRoundBegin     actionState = iota // may chi/pon/kan a prior discard or draw
	stAfterChiPon                       // must discard
	stAfterGetTile                      // may discard, kan, riichi, tsumo or kita
	stAfterKan                          // post-kan draw, nari window closed
	stAfterKanCanNari                   // post-kan draw reached from a direct kan
	stAfterKiri                         // done, but may still ron a later discard
	stRoundOver                         // passive until the barrier
	stNotifiedRon                       // must declare ron or pass
)

// kiriType tags entries of the per-round cross-player discard
// snapshot.  Add-kans can be robbed by anyone, dark kans only by a
// thirteen-orphans hand.
type kiriType uint8

const (
	kiriNormal kiriType = iota
	kiriAddKan
	kiriDarkKan
	kiriNorth
	kiriRiverBottom
)

// kiriTile is one entry of the round's discard snapshot.
type kiriTile struct {
	tile         counter.Tile
	typ          kiriType
	breakIppatsu bool
}

// riverTile is one discard in a player's river.
type riverTile struct {
	tile   counter.Tile
	round  int
	richii bool
}

// meld is an exposed set with its claim bookkeeping.
type meld struct {
	typ       counter.MeldType
	tiles     []counter.Tile
	from      int // seat the claimed tile came from, -1 for none
	nariRound int
}

// winResult records a settled win before payments are applied.
type winResult struct {
	res  *counter.Result
	from int // discarder seat, -1 for tsumo
	tile counter.Tile
}

type player struct {
	table *table
	pid   int
	point int

	yama  []counter.Tile
	hand  []counter.Tile
	tsumo *counter.Tile
	melds []meld
	river []riverTile
	state actionState

	richiiRound  int // 0 when not declared
	richiiListen map[counter.Base]bool
	permFurutin  bool
	kitaCount    int
	afterKan     bool // the pending draw came off a kan
	kyuushu      bool

	chiThisRound   int
	fromChiPlayers uint64 // bitset of seats still eligible to chi from

	autoFu      bool
	autoKiri    bool
	autoGetTile bool

	win *winResult
}

func newPlayer(t *table, pid int, point int, hand, yama []counter.Tile) *player {
	p := &player{table: t, pid: pid, point: point, hand: hand, yama: yama, state: stRoundBegin}
	for i := 0; i < t.playerNum; i++ {
		if i != pid {
			p.fromChiPlayers |= 1 << uint(i)
		}
	}
	return p
}

var (
	errBadState = errors.New("当前状态无法执行该操作")
	errYamaOut  = errors.New("牌山已空")
)

// done reports whether the player needs no more input this round.
func (p *player) done() bool {
	return p.state == stAfterKiri || p.state == stRoundOver
}

// concealed returns the hand plus the drawn tile, if any.
func (p *player) concealed() []counter.Tile {
	out := append([]counter.Tile(nil), p.hand...)
	if p.tsumo != nil {
		out = append(out, *p.tsumo)
	}
	return out
}

// Draw takes the next tile off the player's own yama.
func (p *player) Draw() error {
	if p.state != stRoundBegin {
		return errBadState
	}
	if len(p.yama) == 0 {
		return errYamaOut
	}
	t := p.yama[0]
	p.yama = p.yama[1:]
	p.tsumo = &t
	p.state = stAfterGetTile
	return nil
}

// takeTile removes one matching tile, preferring the drawn tile for an
// exact match, then the hand.  Red fives match a plain request only
// when no plain five is left.
func (p *player) takeTile(want counter.Tile) (counter.Tile, bool) {
	if p.tsumo != nil && tileMatches(*p.tsumo, want) {
		t := *p.tsumo
		p.tsumo = nil
		return t, true
	}
	idx := -1
	for i, t := range p.hand {
		if tileMatches(t, want) && (idx == -1 || preferTake(t, p.hand[idx])) {
			idx = i
		}
	}
	if idx == -1 {
		return counter.Tile{}, false
	}
	t := p.hand[idx]
	p.hand = append(p.hand[:idx], p.hand[idx+1:]...)
	return t, true
}

// tileMatches accepts a plain request for a transparent copy, but a
// red five must be named as "0x".
func tileMatches(have, want counter.Tile) bool {
	return have.Base == want.Base && have.Red == want.Red
}

// preferTake keeps red and transparent copies in hand when a plain one
// can serve.
func preferTake(candidate, current counter.Tile) bool {
	if candidate.Red != current.Red {
		return !candidate.Red
	}
	return !candidate.Toumei && current.Toumei
}

// mergeTsumo folds the drawn tile into the hand after a discard from
// hand.
func (p *player) mergeTsumo() {
	if p.tsumo != nil {
		p.hand = append(p.hand, *p.tsumo)
		p.tsumo = nil
		counter.Sort(p.hand)
	}
}

// Kiri discards a tile; an empty spec discards the drawn tile.  With
// richii the discard doubles as the riichi declaration.
func (p *player) Kiri(spec string, richii bool) error {
	switch p.state {
	case stAfterChiPon, stAfterGetTile, stAfterKan, stAfterKanCanNari:
	default:
		return errBadState
	}
	if richii {
		if p.richiiRound > 0 {
			return errors.New("已经处于立直状态")
		}
		if p.hasOpenMeld() {
			return errors.New("副露后无法立直")
		}
		if len(p.yama) == 0 {
			return errors.New("牌山已空，无法立直")
		}
		if p.point < 1000 {
			return errors.New("点数不足 1000，无法立直")
		}
	}

	var tile counter.Tile
	if spec == "" {
		if p.tsumo == nil {
			return errors.New("没有刚摸到的牌，无法摸切")
		}
		tile = *p.tsumo
		p.tsumo = nil
	} else {
		want, err := counter.ParseTile(spec)
		if err != nil {
			return err
		}
		if p.richiiRound > 0 && (p.tsumo == nil || !tileMatches(*p.tsumo, want)) {
			return errors.New("立直后只能切刚摸到的牌")
		}
		taken, ok := p.takeTile(want)
		if !ok {
			return fmt.Errorf("手牌中没有「%s」", spec)
		}
		tile = taken
		p.mergeTsumo()
	}

	if richii {
		listen := counter.ListenTiles(counter.Bases(p.hand))
		if len(listen) == 0 {
			p.hand = append(p.hand, tile)
			counter.Sort(p.hand)
			return errors.New("切出该牌后未听牌，无法立直")
		}
		p.richiiRound = p.table.round
		p.richiiListen = map[counter.Base]bool{}
		for _, b := range listen {
			p.richiiListen[b] = true
		}
	}

	typ := kiriNormal
	if len(p.yama) == 0 {
		typ = kiriRiverBottom
	}
	p.river = append(p.river, riverTile{tile: tile, round: p.table.round, richii: richii})
	p.table.recordKiri(p.pid, kiriTile{tile: tile, typ: typ})
	p.afterKan = false
	p.state = stAfterKiri
	return nil
}

func (p *player) hasOpenMeld() bool {
	for _, m := range p.melds {
		if m.typ != counter.Ankan {
			return true
		}
	}
	return false
}

// chooseChiSource enforces the chi-from discipline: the claimed kind
// must still be on offer from an eligible seat, counting this round's
// chis against the matching discards.  Seats whose discards could not
// have supplied the tile are dropped afterwards.
func (p *player) chooseChiSource(b counter.Base) (int, error) {
	matching := 0
	source := -1
	for pid := 0; pid < p.table.playerNum; pid++ {
		if p.fromChiPlayers&(1<<uint(pid)) == 0 {
			continue
		}
		n := p.table.kiriCount(pid, b)
		matching += n
		if n > 0 && source == -1 {
			source = pid
		}
	}
	if p.chiThisRound >= matching {
		return -1, errors.New("没有可供吃牌的弃牌")
	}
	for pid := 0; pid < p.table.playerNum; pid++ {
		if p.fromChiPlayers&(1<<uint(pid)) != 0 && p.table.kiriCount(pid, b) == 0 {
			p.fromChiPlayers &^= 1 << uint(pid)
		}
	}
	return source, nil
}

// Chi claims a discard to complete the given three-tile run, e.g.
// "345m".  The claimed tile is whichever of the three the hand cannot
// supply.
func (p *player) Chi(spec string) error {
	if p.table.threePlayers {
		return errors.New("三人麻将无法吃牌")
	}
	if p.state != stRoundBegin {
		return errBadState
	}
	tiles, err := parseTileGroup(spec)
	if err != nil {
		return err
	}
	if len(tiles) != 3 || tiles[0].Base.IsHonor() ||
		tiles[0].Base.Suit() != tiles[2].Base.Suit() ||
		tiles[1].Base != tiles[0].Base+1 || tiles[2].Base != tiles[0].Base+2 {
		return fmt.Errorf("「%s」不是顺子", spec)
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		target := tiles[i]
		source, err := p.chooseChiSource(target.Base)
		if err != nil {
			lastErr = err
			continue
		}
		saved := append([]counter.Tile(nil), p.hand...)
		got := make([]counter.Tile, 0, 3)
		ok := true
		for j := 0; j < 3; j++ {
			if j == i {
				continue
			}
			t, taken := p.takeTile(tiles[j])
			if !taken {
				ok = false
				break
			}
			got = append(got, t)
		}
		if !ok {
			p.hand = saved
			lastErr = fmt.Errorf("手牌中没有「%s」", spec)
			continue
		}
		claimed := p.table.claimKiri(source, target.Base)
		p.melds = append(p.melds, meld{
			typ:       counter.Chi,
			tiles:     []counter.Tile{claimed, got[0], got[1]},
			from:      source,
			nariRound: p.table.round,
		})
		p.chiThisRound++
		p.table.markNari()
		p.state = stAfterChiPon
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("没有可供吃牌的弃牌")
	}
	return lastErr
}

// Pon claims any seat's discard of the given kind.
func (p *player) Pon(spec string) error {
	if p.state != stRoundBegin {
		return errBadState
	}
	want, err := counter.ParseTile(spec)
	if err != nil {
		return err
	}
	source := p.table.findKiri(p.pid, want.Base, kiriNormal)
	if source == -1 {
		return fmt.Errorf("没有可供碰牌的「%s」", spec)
	}
	if p.countInHand(want.Base) < 2 {
		return fmt.Errorf("手牌中不足两张「%s」", spec)
	}
	a := p.takeBase(want.Base)
	b := p.takeBase(want.Base)
	claimed := p.table.claimKiri(source, want.Base)
	p.melds = append(p.melds, meld{
		typ:       counter.Pon,
		tiles:     []counter.Tile{claimed, a, b},
		from:      source,
		nariRound: p.table.round,
	})
	p.table.markNari()
	p.state = stAfterChiPon
	return nil
}

// Kan declares whichever kan the position allows: a direct kan of a
// discard from ROUND_BEGIN, or a dark/added kan of the drawn position.
// Every kan draws a replacement tile and asks for a new dora.
func (p *player) Kan(spec string) error {
	want, err := counter.ParseTile(spec)
	if err != nil {
		return err
	}
	b := want.Base
	switch p.state {
	case stRoundBegin:
		return p.directKan(b)
	case stAfterGetTile, stAfterKan, stAfterKanCanNari:
		return p.ownKan(b)
	default:
		return errBadState
	}
}

func (p *player) directKan(b counter.Base) error {
	source := p.table.findKiri(p.pid, b, kiriNormal)
	if source == -1 {
		return fmt.Errorf("没有可供明杠的「%s」", b)
	}
	if p.countInHand(b) < 3 {
		return fmt.Errorf("手牌中不足三张「%s」", b)
	}
	if len(p.yama) == 0 {
		return errYamaOut
	}
	if p.richiiRound > 0 {
		return errors.New("立直后无法明杠")
	}
	tiles := []counter.Tile{p.table.claimKiri(source, b), p.takeBase(b), p.takeBase(b), p.takeBase(b)}
	p.melds = append(p.melds, meld{typ: counter.Minkan, tiles: tiles, from: source, nariRound: p.table.round})
	p.table.markNari()
	p.table.requestDora()
	p.drawReplacement(stAfterKanCanNari)
	return nil
}

func (p *player) ownKan(b counter.Base) error {
	if len(p.yama) == 0 {
		return errYamaOut
	}
	all := p.concealed()
	held := 0
	for _, t := range all {
		if t.Base == b {
			held++
		}
	}
	if held >= 4 {
		return p.darkKan(b)
	}
	if held >= 1 {
		return p.addKan(b)
	}
	return fmt.Errorf("手牌中没有「%s」", b)
}

func (p *player) darkKan(b counter.Base) error {
	if p.richiiRound > 0 {
		if p.tsumo == nil || p.tsumo.Base != b {
			return errors.New("立直后只能暗杠刚摸到的牌")
		}
		if !p.kanKeepsListen(b) {
			return errors.New("该暗杠会改变听牌，立直后无法执行")
		}
	}
	p.mergeTsumo()
	tiles := []counter.Tile{p.takeBase(b), p.takeBase(b), p.takeBase(b), p.takeBase(b)}
	p.melds = append(p.melds, meld{typ: counter.Ankan, tiles: tiles, from: -1, nariRound: p.table.round})
	p.table.recordKiri(p.pid, kiriTile{tile: tiles[0], typ: kiriDarkKan})
	p.table.requestDora()
	p.drawReplacement(stAfterKan)
	return nil
}

func (p *player) addKan(b counter.Base) error {
	if p.richiiRound > 0 {
		return errors.New("立直后无法加杠")
	}
	found := -1
	for i, m := range p.melds {
		if m.typ == counter.Pon && m.tiles[0].Base == b {
			found = i
		}
	}
	if found == -1 {
		return fmt.Errorf("没有「%s」的碰牌，无法加杠", b)
	}
	p.mergeTsumo()
	t := p.takeBase(b)
	m := &p.melds[found]
	m.typ = counter.Addkan
	m.tiles = append(m.tiles, t)
	m.nariRound = p.table.round
	p.table.recordKiri(p.pid, kiriTile{tile: t, typ: kiriAddKan})
	p.table.requestDora()
	p.drawReplacement(stAfterKan)
	return nil
}

// kanKeepsListen checks that removing all four copies leaves the
// riichi listen set unchanged.
func (p *player) kanKeepsListen(b counter.Base) bool {
	bases := counter.Bases(p.concealed())
	var rest []counter.Base
	for _, got := range bases {
		if got != b {
			rest = append(rest, got)
		}
	}
	listen := counter.ListenTiles(rest)
	if len(listen) != len(p.richiiListen) {
		return false
	}
	for _, got := range listen {
		if !p.richiiListen[got] {
			return false
		}
	}
	return true
}

func (p *player) drawReplacement(next actionState) {
	t := p.yama[0]
	p.yama = p.yama[1:]
	p.tsumo = &t
	p.afterKan = true
	p.state = next
}

// Kita exposes a north tile for an extra dora and draws a replacement.
func (p *player) Kita() error {
	if !p.table.threePlayers {
		return errors.New("只有三人麻将可以拔北")
	}
	if p.state != stAfterGetTile {
		return errBadState
	}
	if len(p.yama) == 0 {
		return errYamaOut
	}
	p.mergeTsumo()
	if p.countInHand(counter.North) == 0 {
		return errors.New("手牌中没有北风")
	}
	t := p.takeBase(counter.North)
	p.kitaCount++
	p.table.recordKiri(p.pid, kiriTile{tile: t, typ: kiriNorth})
	next := p.yama[0]
	p.yama = p.yama[1:]
	p.tsumo = &next
	return nil
}

// Tsumo declares a self-drawn win.
func (p *player) Tsumo() error {
	switch p.state {
	case stAfterGetTile, stAfterKan, stAfterKanCanNari:
	default:
		return errBadState
	}
	res, err := counter.Count(p.counterHand(*p.tsumo), p.counterContext(true, false, len(p.yama) == 0))
	if err != nil {
		return err
	}
	res.StripTableWind()
	p.win = &winResult{res: res, from: -1, tile: *p.tsumo}
	p.state = stRoundOver
	return nil
}

// Ron declares a win on another seat's discard from this round,
// picking the highest-scoring target.
func (p *player) Ron() error {
	if p.state != stNotifiedRon {
		return errBadState
	}
	if p.IsFurutin() {
		return errors.New("处于振听状态，无法荣和")
	}
	best, bestFrom, bestTile := p.bestRonTarget()
	if best == nil {
		return errors.New("没有可以荣和的牌")
	}
	p.win = &winResult{res: best, from: bestFrom, tile: bestTile}
	p.state = stRoundOver
	return nil
}

func (p *player) bestRonTarget() (*counter.Result, int, counter.Tile) {
	var best *counter.Result
	bestFrom := -1
	var bestTile counter.Tile
	for pid := 0; pid < p.table.playerNum; pid++ {
		if pid == p.pid {
			continue
		}
		for _, k := range p.table.kiri[pid] {
			res := p.tryRon(k)
			if res == nil {
				continue
			}
			if best == nil || res.YakumanTimes > best.YakumanTimes ||
				(res.YakumanTimes == best.YakumanTimes && res.Score1 > best.Score1) {
				best, bestFrom, bestTile = res, pid, k.tile
			}
		}
	}
	return best, bestFrom, bestTile
}

func (p *player) tryRon(k kiriTile) *counter.Result {
	ctx := p.counterContext(false, k.typ == kiriAddKan, k.typ == kiriRiverBottom)
	if k.breakIppatsu {
		ctx.Ippatsu = false
	}
	res, err := counter.Count(p.counterHand(k.tile), ctx)
	if err != nil {
		return nil
	}
	// A dark kan can only be robbed by thirteen orphans.
	if k.typ == kiriDarkKan && !res.HasYaku(counter.Kokushi) {
		return nil
	}
	res.StripTableWind()
	return res
}

// CanRon reports whether any discard of this round wins for the
// player.  A furutin player can never ron.
func (p *player) CanRon() bool {
	if p.IsFurutin() {
		return false
	}
	res, _, _ := p.bestRonTarget()
	return res != nil
}

// IsFurutin reports the discard lock: any own discard inside the
// current listen set, or the permanent lock after a riichi player let
// a winning tile pass.
func (p *player) IsFurutin() bool {
	if p.permFurutin {
		return true
	}
	listen := p.listenSet()
	for _, r := range p.river {
		if listen[r.tile.Base] {
			return true
		}
	}
	return false
}

func (p *player) listenSet() map[counter.Base]bool {
	if p.richiiListen != nil {
		return p.richiiListen
	}
	set := map[counter.Base]bool{}
	for _, b := range counter.ListenTiles(counter.Bases(p.hand)) {
		set[b] = true
	}
	return set
}

// isListen reports tenpai for the dead-wall settlement.
func (p *player) isListen() bool {
	return len(counter.ListenTiles(counter.Bases(p.hand))) > 0
}

// Nagashi aborts the hand with nine distinct terminals and honors on
// the first draw.
func (p *player) Nagashi() error {
	if p.state != stAfterGetTile || p.table.round != 1 || len(p.melds) > 0 {
		return errBadState
	}
	kinds := map[counter.Base]bool{}
	for _, t := range p.concealed() {
		if t.Base.IsYaochuu() {
			kinds[t.Base] = true
		}
	}
	if len(kinds) < 9 {
		return errors.New("幺九牌不足九种，无法九种九牌流局")
	}
	p.kyuushu = true
	p.state = stRoundOver
	return nil
}

// Pass declines the ron window.  A riichi player who lets a winning
// tile pass is locked furutin for the rest of the hand.
func (p *player) Pass() error {
	if p.state != stNotifiedRon {
		return errBadState
	}
	if p.richiiRound > 0 {
		p.permFurutin = true
	}
	p.state = stRoundOver
	return nil
}

// PerformDefault plays the timeout action for the current state: draw
// and discard the draw, discard the first hand tile after a claim, or
// let a ron window lapse.
func (p *player) PerformDefault() {
	switch p.state {
	case stRoundBegin:
		if p.Draw() != nil {
			p.state = stRoundOver
			return
		}
		p.PerformDefault()
	case stAfterChiPon:
		if len(p.hand) > 0 {
			_ = p.Kiri(p.hand[0].String(), false)
		}
		if p.state != stAfterKiri {
			p.state = stRoundOver
		}
	case stAfterGetTile, stAfterKan, stAfterKanCanNari:
		if p.autoFu && p.Tsumo() == nil {
			return
		}
		if p.Kiri("", false) != nil {
			p.state = stRoundOver
		}
	case stNotifiedRon:
		if p.autoFu && p.Ron() == nil {
			return
		}
		_ = p.Pass()
	case stAfterKiri:
		p.state = stRoundOver
	}
}

// applyAuto plays out the player's auto options; it returns true if
// the player needs no further input this round.
func (p *player) applyAuto() bool {
	if p.state == stRoundBegin && (p.autoGetTile || p.richiiRound > 0) {
		if p.Draw() != nil {
			p.state = stRoundOver
			return true
		}
	}
	switch p.state {
	case stAfterGetTile, stAfterKan, stAfterKanCanNari:
		if p.autoFu && p.Tsumo() == nil {
			return true
		}
		if p.autoKiri {
			if p.Kiri("", false) != nil {
				p.state = stRoundOver
			}
			return true
		}
	case stNotifiedRon:
		if p.autoFu {
			if p.Ron() == nil {
				return true
			}
			_ = p.Pass()
			return true
		}
	}
	return p.done()
}

// counterHand snapshots the hand for scoring.  The winning tile is
// passed separately, so the concealed part is always the 13-tile hand
// less melds; on tsumo the drawn tile never joins the hand.
func (p *player) counterHand(win counter.Tile) *counter.Hand {
	concealed := append([]counter.Tile(nil), p.hand...)
	melds := make([]counter.Meld, len(p.melds))
	for i, m := range p.melds {
		melds[i] = counter.Meld{Type: m.typ, Tiles: m.tiles}
	}
	return &counter.Hand{Concealed: concealed, Melds: melds, Win: win}
}

func (p *player) counterContext(tsumo, robKan, lastTile bool) *counter.Context {
	doras, inners := p.table.doras.doraKinds(p.table.threePlayers)
	return &counter.Context{
		Tsumo:        tsumo,
		RobKan:       robKan,
		LastTile:     lastTile,
		AfterKan:     p.afterKan && tsumo,
		Riichi:       p.richiiRound > 0,
		DoubleRiichi: p.richiiRound == 1,
		Ippatsu:      p.ippatsuAlive(),
		FirstRound:   tsumo && p.table.round == 1 && len(p.melds) == 0 && len(p.river) == 0 && !p.table.anyNari,
		SeatWind:     counter.East,
		ThreePlayers: p.table.threePlayers,
		Doras:        doras,
		InnerDoras:   inners,
		KitaCount:    p.kitaCount,
	}
}

// ippatsuAlive holds from the riichi discard through the next round,
// unless any claim intervened.
func (p *player) ippatsuAlive() bool {
	return p.richiiRound > 0 &&
		p.table.round <= p.richiiRound+1 &&
		p.table.lastNariRound < p.richiiRound
}

func (p *player) countInHand(b counter.Base) int {
	n := 0
	for _, t := range p.hand {
		if t.Base == b {
			n++
		}
	}
	return n
}

// takeBase removes one tile of the kind, plain copies first.
func (p *player) takeBase(b counter.Base) counter.Tile {
	idx := -1
	for i, t := range p.hand {
		if t.Base == b && (idx == -1 || preferTake(t, p.hand[idx])) {
			idx = i
		}
	}
	t := p.hand[idx]
	p.hand = append(p.hand[:idx], p.hand[idx+1:]...)
	return t
}

// parseTileGroup parses compact notation like "345m" into tiles.
func parseTileGroup(s string) ([]counter.Tile, error) {
	var tiles []counter.Tile
	var digits []byte
	toumei := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 't':
			toumei = true
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		default:
			for _, d := range digits {
				prefix := ""
				if toumei {
					prefix = "t"
				}
				t, err := counter.ParseTile(prefix + string([]byte{d, c}))
				if err != nil {
					return nil, err
				}
				tiles = append(tiles, t)
			}
			digits = nil
			toumei = false
		}
	}
	if len(digits) > 0 {
		return nil, fmt.Errorf("非法的牌组「%s」", s)
	}
	return tiles, nil
}
