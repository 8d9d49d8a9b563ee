// Win detection and hand decomposition
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package counter

// IsWin reports whether the bases form a complete hand: four sets and
// a pair (scaled down for partial hands with melds), seven pairs, or
// thirteen orphans.  The slice length must be 3k+2.
func IsWin(bases []Base) bool {
	if len(bases)%3 != 2 {
		return false
	}
	var counts [BaseNum]int
	for _, b := range bases {
		if counts[b]++; counts[b] > 4 {
			return false
		}
	}
	if len(bases) == 14 && (isSevenPairs(counts) || isKokushi(counts)) {
		return true
	}
	return decompose(counts, len(bases)/3, nil) != nil
}

func isSevenPairs(counts [BaseNum]int) bool {
	pairs := 0
	for _, c := range counts {
		switch c {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

func isKokushi(counts [BaseNum]int) bool {
	pair := false
	for b := Base(0); b < BaseNum; b++ {
		c := counts[b]
		if c == 0 {
			if b.IsYaochuu() {
				return false
			}
			continue
		}
		if !b.IsYaochuu() || c > 2 {
			return false
		}
		if c == 2 {
			if pair {
				return false
			}
			pair = true
		}
	}
	return pair
}

// setKind distinguishes runs from triplets in a decomposition.
type setKind uint8

const (
	runSet setKind = iota
	tripletSet
)

// handSet is one concealed set found by decomposition; Base is the
// lowest tile of a run or the tile of a triplet.
type handSet struct {
	Kind setKind
	Base Base
}

// decomposition is one way to read the concealed tiles: a pair plus
// concealed sets.
type decomposition struct {
	Pair Base
	Sets []handSet
}

// decompose enumerates every pair+sets reading of the counts.  The
// accumulator is shared across the recursion; returned decompositions
// own their set slices.
func decompose(counts [BaseNum]int, sets int, acc []decomposition) []decomposition {
	for b := Base(0); b < BaseNum; b++ {
		if counts[b] < 2 {
			continue
		}
		counts[b] -= 2
		acc = decomposeSets(counts, b, 0, sets, nil, acc)
		counts[b] += 2
	}
	return acc
}

func decomposeSets(counts [BaseNum]int, pair Base, from Base, left int, sets []handSet, acc []decomposition) []decomposition {
	if left == 0 {
		d := decomposition{Pair: pair, Sets: append([]handSet(nil), sets...)}
		return append(acc, d)
	}
	b := from
	for b < BaseNum && counts[b] == 0 {
		b++
	}
	if b == BaseNum {
		return acc
	}
	if counts[b] >= 3 {
		counts[b] -= 3
		acc = decomposeSets(counts, pair, b, left-1, append(sets, handSet{tripletSet, b}), acc)
		counts[b] += 3
	}
	if !b.IsHonor() && b.Number() <= 7 && counts[b+1] > 0 && counts[b+2] > 0 {
		counts[b]--
		counts[b+1]--
		counts[b+2]--
		acc = decomposeSets(counts, pair, b, left-1, append(sets, handSet{runSet, b}), acc)
		counts[b]++
		counts[b+1]++
		counts[b+2]++
	}
	return acc
}

// ListenTiles returns every base that completes the hand.  The hand
// must be one tile short of complete (3k+1 tiles).  Kinds already
// exhausted in hand are skipped.
func ListenTiles(bases []Base) []Base {
	if len(bases)%3 != 1 {
		return nil
	}
	var counts [BaseNum]int
	for _, b := range bases {
		counts[b]++
	}
	var listen []Base
	probe := make([]Base, len(bases)+1)
	copy(probe, bases)
	for b := Base(0); b < BaseNum; b++ {
		if counts[b] == 4 {
			continue
		}
		probe[len(bases)] = b
		if IsWin(probe) {
			listen = append(listen, b)
		}
	}
	return listen
}
