// Yaku, fu and score counting
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package counter

import (
	"errors"
)

// MeldType distinguishes exposed set shapes.
type MeldType uint8

const (
	Chi MeldType = iota
	Pon
	Minkan
	Ankan
	Addkan
)

// Meld is an exposed set.  Ankan counts as concealed for yaku
// purposes but still breaks pinfu and chiitoitsu.
type Meld struct {
	Type  MeldType
	Tiles []Tile
}

func (m Meld) open() bool { return m.Type != Ankan }

func (m Meld) base() Base {
	b := m.Tiles[0].Base
	for _, t := range m.Tiles[1:] {
		if t.Base < b {
			b = t.Base
		}
	}
	return b
}

func (m Meld) isRun() bool { return m.Type == Chi }

// Hand is the snapshot the engine scores: concealed tiles (winning
// tile excluded), exposed melds, and the winning tile.
type Hand struct {
	Concealed []Tile
	Melds     []Meld
	Win       Tile
}

// Context carries everything outside the hand that affects scoring.
// SeatWind doubles as the table wind: in the synchronous variant each
// player is the dealer of their own board, and the engine strips the
// table-wind yaku from the result afterwards.
type Context struct {
	Tsumo        bool
	RobKan       bool // won off a kan declaration
	LastTile     bool // no draws remain
	AfterKan     bool // the winning draw was a replacement tile
	Riichi       bool
	DoubleRiichi bool
	Ippatsu      bool
	FirstRound   bool // nothing discarded or melded yet
	SeatWind     Base
	ThreePlayers bool
	Doras        []Base // dora kinds, already mapped from the signs
	InnerDoras   []Base
	KitaCount    int // exposed north extractions
}

// Result is the score of one winning hand.  Score1 is the per-player
// payment on tsumo and the discarder's full payment on ron.
type Result struct {
	Yakus        []Yaku
	Fan          int
	Fu           int
	Score1       int
	YakumanTimes int

	tsumo bool
}

// StripTableWind drops the table-wind yaku copies and reprices the
// hand.  The synchronous engine calls it because every player counts
// as dealer of their own board, so a seat-wind triplet always brings a
// spurious table-wind copy along.
func (r *Result) StripTableWind() {
	kept := r.Yakus[:0]
	removed := 0
	for _, y := range r.Yakus {
		if y.IsTableWind() {
			removed++
			continue
		}
		kept = append(kept, y)
	}
	r.Yakus = kept
	if removed == 0 || r.YakumanTimes > 0 {
		return
	}
	r.Fan -= removed
	r.Score1 = score1(r.Fan, r.Fu, 0, r.tsumo)
}

// HasYaku reports whether the yaku appears in the result.
func (r *Result) HasYaku(y Yaku) bool {
	for _, got := range r.Yakus {
		if got == y {
			return true
		}
	}
	return false
}

var ErrNotWin = errors.New("不满足和牌牌型")
var ErrNoYaku = errors.New("无役")

// Count scores the hand, picking the highest-valued reading.
func Count(hand *Hand, ctx *Context) (*Result, error) {
	all := append([]Base(nil), Bases(hand.Concealed)...)
	all = append(all, hand.Win.Base)

	var best *Result
	consider := func(r *Result) {
		if r == nil {
			return
		}
		if best == nil ||
			r.YakumanTimes > best.YakumanTimes ||
			(r.YakumanTimes == best.YakumanTimes && r.Score1 > best.Score1) ||
			(r.YakumanTimes == best.YakumanTimes && r.Score1 == best.Score1 && r.Fan > best.Fan) {
			best = r
		}
	}

	won := false
	if len(hand.Melds) == 0 && len(all) == 14 {
		counts := countBases(all)
		if isKokushi(counts) {
			won = true
			consider(finish(hand, ctx, []Yaku{Kokushi}, 0))
		}
		if isSevenPairs(counts) {
			won = true
			consider(sevenPairsResult(hand, ctx))
		}
	}

	need := 4 - len(hand.Melds)
	for _, d := range decompose(countBases(all), need, nil) {
		won = true
		for _, v := range winPlacements(d, hand.Win.Base) {
			consider(evaluate(hand, ctx, d, v))
		}
	}

	if best == nil {
		if !won {
			return nil, ErrNotWin
		}
		return nil, ErrNoYaku
	}
	return best, nil
}

func countBases(bases []Base) [BaseNum]int {
	var c [BaseNum]int
	for _, b := range bases {
		c[b]++
	}
	return c
}

func meldTiles(melds []Meld) []Tile {
	var tiles []Tile
	for _, m := range melds {
		tiles = append(tiles, m.Tiles...)
	}
	return tiles
}

// winPlacement pins the winning tile to one concealed set (index into
// the decomposition's sets) or to the pair (index -1).
type winPlacement int

func winPlacements(d decomposition, win Base) []winPlacement {
	var ps []winPlacement
	if d.Pair == win {
		ps = append(ps, -1)
	}
	for i, s := range d.Sets {
		if s.Kind == tripletSet && s.Base == win {
			ps = append(ps, winPlacement(i))
		}
		if s.Kind == runSet && win >= s.Base && win <= s.Base+2 && win.Suit() == s.Base.Suit() {
			ps = append(ps, winPlacement(i))
		}
	}
	return ps
}

// fullSet is one of the four sets of the final reading, concealed or
// exposed.
type fullSet struct {
	run       bool
	base      Base
	kan       bool
	concealed bool // counts for ankou purposes
}

func evaluate(hand *Hand, ctx *Context, d decomposition, place winPlacement) *Result {
	menzen := true
	sets := make([]fullSet, 0, 4)
	for i, s := range d.Sets {
		concealed := true
		// A triplet completed by another player's discard is open.
		if !ctx.Tsumo && winPlacement(i) == place && s.Kind == tripletSet {
			concealed = false
		}
		sets = append(sets, fullSet{run: s.Kind == runSet, base: s.Base, concealed: concealed})
	}
	for _, m := range hand.Melds {
		if m.open() {
			menzen = false
		}
		sets = append(sets, fullSet{
			run:       m.isRun(),
			base:      m.base(),
			kan:       m.Type != Chi && m.Type != Pon,
			concealed: m.Type == Ankan,
		})
	}

	var yakus []Yaku
	add := func(y Yaku) { yakus = append(yakus, y) }

	if ctx.DoubleRiichi {
		add(DoubleRiichi)
	} else if ctx.Riichi {
		add(Riichi)
	}
	if ctx.Ippatsu && (ctx.Riichi || ctx.DoubleRiichi) {
		add(Ippatsu)
	}
	if menzen && ctx.Tsumo {
		add(MenzenTsumo)
	}
	if ctx.FirstRound && ctx.Tsumo && len(hand.Melds) == 0 {
		add(Tenhou)
	}
	if ctx.RobKan {
		add(Chankan)
	}
	if ctx.AfterKan && ctx.Tsumo {
		add(Rinshan)
	} else if ctx.LastTile {
		if ctx.Tsumo {
			add(Haitei)
		} else {
			add(Houtei)
		}
	}

	pairYakuhai := d.Pair >= Haku || d.Pair == ctx.SeatWind
	pinfu := menzen && !pairYakuhai
	waitFu := 0
	switch {
	case place == -1:
		waitFu = 2 // tanki
		pinfu = false
	case d.Sets[place].Kind == tripletSet:
		pinfu = false
	default:
		s := d.Sets[place]
		win := hand.Win.Base
		switch {
		case win == s.Base+1:
			waitFu = 2 // kanchan
			pinfu = false
		case win == s.Base+2 && s.Base.Number() == 1, win == s.Base && s.Base.Number() == 7:
			waitFu = 2 // penchan
			pinfu = false
		}
	}
	for _, s := range sets {
		if !s.run {
			pinfu = false
		}
	}
	if pinfu {
		add(Pinfu)
	}

	// Tile-composition yaku
	allTiles := allHandTiles(hand)
	tanyao := !d.Pair.IsYaochuu()
	for _, t := range allTiles {
		if t.Base.IsYaochuu() {
			tanyao = false
		}
	}
	if tanyao {
		add(Tanyao)
	}

	if menzen {
		pairs := countDuplicateRuns(sets)
		if pairs >= 2 {
			add(Ryanpeiko)
		} else if pairs == 1 {
			add(Iipeiko)
		}
	}

	triplets, kans, ankou := 0, 0, 0
	dragonTriplets, windTriplets := 0, 0
	for _, s := range sets {
		if s.run {
			continue
		}
		triplets++
		if s.kan {
			kans++
		}
		if s.concealed {
			ankou++
		}
		if s.base >= Haku {
			dragonTriplets++
			add(dragonYaku[s.base])
		} else if s.base.IsHonor() {
			windTriplets++
			if s.base == ctx.SeatWind {
				add(seatWindYaku[s.base])
				add(tableWindYaku[s.base])
			}
		}
	}

	if sanshoku(sets) {
		add(Sanshoku)
	}
	if ittsu(sets) {
		add(Ittsu)
	}
	if y := chantaFamily(sets, d.Pair); y != YakuNone {
		add(y)
	}
	if triplets == 4 {
		add(Toitoi)
	}
	if ankou == 4 {
		add(Suuankou)
	} else if ankou == 3 {
		add(Sanankou)
	}
	if kans == 4 {
		add(Suukantsu)
	} else if kans == 3 {
		add(Sankantsu)
	}
	if dragonTriplets == 3 {
		add(Daisangen)
	} else if dragonTriplets == 2 && d.Pair >= Haku {
		add(Shousangen)
	}
	if windTriplets == 4 {
		add(Daisuushii)
	} else if windTriplets == 3 && d.Pair >= East && d.Pair <= North {
		add(Shousuushii)
	}
	if y := flushFamily(allTiles); y != YakuNone {
		add(y)
	}
	if tsuuiisou(allTiles) {
		add(Tsuuiisou)
	}
	if chinroutou(allTiles) {
		add(Chinroutou)
	}
	if ryuuiisou(allTiles) {
		add(Ryuuiisou)
	}
	if menzen && len(hand.Melds) == 0 && chuuren(allTiles) {
		add(Chuuren)
	}

	if len(yakus) == 0 {
		return nil
	}

	fu := 20
	if menzen && !ctx.Tsumo {
		fu += 10
	}
	if ctx.Tsumo && !pinfu {
		fu += 2
	}
	fu += waitFu
	for _, s := range sets {
		fu += setFu(s)
	}
	fu += pairFu(d.Pair, ctx.SeatWind)
	if pinfu && ctx.Tsumo {
		fu = 20
	}
	fu = (fu + 9) / 10 * 10

	return finish(hand, ctx, yakus, fu)
}

func sevenPairsResult(hand *Hand, ctx *Context) *Result {
	yakus := []Yaku{Chiitoitsu}
	if ctx.DoubleRiichi {
		yakus = append(yakus, DoubleRiichi)
	} else if ctx.Riichi {
		yakus = append(yakus, Riichi)
	}
	if ctx.Ippatsu && (ctx.Riichi || ctx.DoubleRiichi) {
		yakus = append(yakus, Ippatsu)
	}
	if ctx.Tsumo {
		yakus = append(yakus, MenzenTsumo)
	}
	if ctx.LastTile {
		if ctx.Tsumo {
			yakus = append(yakus, Haitei)
		} else {
			yakus = append(yakus, Houtei)
		}
	}
	all := allHandTiles(hand)
	tanyao := true
	for _, t := range all {
		if t.Base.IsYaochuu() {
			tanyao = false
		}
	}
	if tanyao {
		yakus = append(yakus, Tanyao)
	}
	if y := flushFamily(all); y != YakuNone {
		yakus = append(yakus, y)
	}
	if tsuuiisou(all) {
		yakus = append(yakus, Tsuuiisou)
	}
	return finish(hand, ctx, yakus, 25)
}

// finish folds in the dora counts, applies yakuman suppression and
// computes the payment.
func finish(hand *Hand, ctx *Context, yakus []Yaku, fu int) *Result {
	yakumanTimes := 0
	for _, y := range yakus {
		if y.IsYakuman() {
			yakumanTimes++
		}
	}
	if yakumanTimes > 0 {
		kept := yakus[:0]
		for _, y := range yakus {
			if y.IsYakuman() {
				kept = append(kept, y)
			}
		}
		yakus = kept
		return &Result{Yakus: yakus, Fan: 13 * yakumanTimes, Fu: fu,
			Score1:       score1(13*yakumanTimes, fu, yakumanTimes, ctx.Tsumo),
			YakumanTimes: yakumanTimes, tsumo: ctx.Tsumo}
	}

	fan := 0
	for _, y := range yakus {
		fan += yakuFan(y, len(hand.Melds) > 0 && anyOpen(hand.Melds))
	}
	yakus, fan = addDoras(hand, ctx, yakus, fan)
	return &Result{Yakus: yakus, Fan: fan, Fu: fu, Score1: score1(fan, fu, 0, ctx.Tsumo), tsumo: ctx.Tsumo}
}

func anyOpen(melds []Meld) bool {
	for _, m := range melds {
		if m.open() {
			return true
		}
	}
	return false
}

func addDoras(hand *Hand, ctx *Context, yakus []Yaku, fan int) ([]Yaku, int) {
	all := allHandTiles(hand)
	appendN := func(y Yaku, n int) {
		fan += n
		for i := 0; i < n; i++ {
			yakus = append(yakus, y)
		}
	}
	countKind := func(doras []Base) int {
		n := 0
		for _, d := range doras {
			for _, t := range all {
				if t.Base == d {
					n++
				}
			}
			if d == North {
				n += ctx.KitaCount
			}
		}
		return n
	}
	red := 0
	for _, t := range all {
		if t.Red {
			red++
		}
	}
	appendN(Dora, countKind(ctx.Doras))
	appendN(RedDora, red)
	appendN(NorthDora, ctx.KitaCount)
	if ctx.Riichi || ctx.DoubleRiichi {
		appendN(InnerDora, countKind(ctx.InnerDoras))
	}
	return yakus, fan
}

func allHandTiles(hand *Hand) []Tile {
	all := append([]Tile(nil), hand.Concealed...)
	all = append(all, hand.Win)
	all = append(all, meldTiles(hand.Melds)...)
	return all
}

// yakuFan is the base han value; open hands lose one han on the yaku
// that discount when exposed.
func yakuFan(y Yaku, open bool) int {
	switch y {
	case DoubleRiichi, Chiitoitsu, Toitoi, Sanankou, Sankantsu, Shousangen, Honroutou:
		return 2
	case Sanshoku, Ittsu, Chanta:
		if open {
			return 1
		}
		return 2
	case Junchan:
		if open {
			return 2
		}
		return 3
	case Ryanpeiko:
		return 3
	case Honitsu:
		if open {
			return 2
		}
		return 3
	case Chinitsu:
		if open {
			return 5
		}
		return 6
	default:
		return 1
	}
}

func score1(fan, fu, yakumanTimes int, tsumo bool) int {
	var base int
	switch {
	case yakumanTimes > 0:
		base = 8000 * yakumanTimes
	case fan >= 13:
		base = 8000
	case fan >= 11:
		base = 6000
	case fan >= 8:
		base = 4000
	case fan >= 6:
		base = 3000
	case fan >= 5:
		base = 2000
	default:
		base = fu << (2 + uint(fan))
		if base > 2000 {
			base = 2000
		}
	}
	if tsumo {
		return ceil100(2 * base)
	}
	return ceil100(6 * base)
}

func ceil100(v int) int { return (v + 99) / 100 * 100 }

func setFu(s fullSet) int {
	if s.run {
		return 0
	}
	fu := 2
	if s.concealed {
		fu *= 2
	}
	if s.base.IsYaochuu() {
		fu *= 2
	}
	if s.kan {
		fu *= 4
	}
	return fu
}

func pairFu(pair, seatWind Base) int {
	fu := 0
	if pair >= Haku {
		fu += 2
	}
	if pair == seatWind {
		fu += 4 // seat wind doubles as table wind here
	}
	return fu
}

func countDuplicateRuns(sets []fullSet) int {
	var runs []Base
	for _, s := range sets {
		if s.run && s.concealed {
			runs = append(runs, s.base)
		}
	}
	pairs := 0
	seen := map[Base]int{}
	for _, b := range runs {
		seen[b]++
		if seen[b] == 2 {
			pairs++
			seen[b] = 0
		}
	}
	return pairs
}

func sanshoku(sets []fullSet) bool {
	for _, s := range sets {
		if !s.run {
			continue
		}
		n := s.base.Number()
		found := [3]bool{}
		for _, o := range sets {
			if o.run && o.base.Number() == n {
				found[o.base.Suit()] = true
			}
		}
		if found[0] && found[1] && found[2] {
			return true
		}
	}
	return false
}

func ittsu(sets []fullSet) bool {
	for suit := 0; suit < 3; suit++ {
		found := [3]bool{}
		for _, s := range sets {
			if s.run && s.base.Suit() == suit {
				switch s.base.Number() {
				case 1:
					found[0] = true
				case 4:
					found[1] = true
				case 7:
					found[2] = true
				}
			}
		}
		if found[0] && found[1] && found[2] {
			return true
		}
	}
	return false
}

func chantaFamily(sets []fullSet, pair Base) Yaku {
	hasRun := false
	honors := pair.IsHonor()
	terminalPair := pair.IsYaochuu()
	if !terminalPair {
		return YakuNone
	}
	for _, s := range sets {
		if s.run {
			hasRun = true
			if s.base.Number() != 1 && s.base.Number() != 7 {
				return YakuNone
			}
			continue
		}
		if !s.base.IsYaochuu() {
			return YakuNone
		}
		if s.base.IsHonor() {
			honors = true
		}
	}
	if !hasRun {
		if honors {
			return Honroutou
		}
		return YakuNone // all-terminal triplets score as chinroutou
	}
	if honors {
		return Chanta
	}
	return Junchan
}

func flushFamily(tiles []Tile) Yaku {
	suit := -1
	honors := false
	for _, t := range tiles {
		if t.Base.IsHonor() {
			honors = true
			continue
		}
		if suit == -1 {
			suit = t.Base.Suit()
		} else if suit != t.Base.Suit() {
			return YakuNone
		}
	}
	if suit == -1 {
		return YakuNone // all honors, scored as tsuuiisou
	}
	if honors {
		return Honitsu
	}
	return Chinitsu
}

func tsuuiisou(tiles []Tile) bool {
	for _, t := range tiles {
		if !t.Base.IsHonor() {
			return false
		}
	}
	return true
}

func chinroutou(tiles []Tile) bool {
	for _, t := range tiles {
		if t.Base.IsHonor() || (t.Base.Number() != 1 && t.Base.Number() != 9) {
			return false
		}
	}
	return true
}

var greenBases = map[Base]bool{Sou2: true, Sou3: true, Sou4: true, Sou6: true, Sou8: true, Hatsu: true}

func ryuuiisou(tiles []Tile) bool {
	for _, t := range tiles {
		if !greenBases[t.Base] {
			return false
		}
	}
	return true
}

func chuuren(tiles []Tile) bool {
	suit := tiles[0].Base.Suit()
	var counts [9]int
	for _, t := range tiles {
		if t.Base.IsHonor() || t.Base.Suit() != suit {
			return false
		}
		counts[t.Base.Number()-1]++
	}
	extra := 0
	for n, c := range counts {
		need := 1
		if n == 0 || n == 8 {
			need = 3
		}
		if c < need {
			return false
		}
		extra += c - need
	}
	return extra == 1
}
