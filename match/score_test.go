// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"testing"

	lgtbot "github.com/kester2000/lgtbot"
)

func TestCalScoresTwoPlayers(t *testing.T) {
	infos := calScores([]userScore{{uid: 1, score: 10}, {uid: 2, score: -10}}, 2)
	if len(infos) != 2 {
		t.Fatalf("len = %d", len(infos))
	}
	if infos[0].ZeroSumScore != 20 || infos[1].ZeroSumScore != -20 {
		t.Errorf("zero sum = %d, %d", infos[0].ZeroSumScore, infos[1].ZeroSumScore)
	}
	if infos[0].TopScore != 20 || infos[1].TopScore != -20 {
		t.Errorf("top = %d, %d", infos[0].TopScore, infos[1].TopScore)
	}
}

func TestCalScoresZeroSumLaw(t *testing.T) {
	for _, scores := range [][]int64{
		{10, -10},
		{5, 5, -10},
		{100, 20, -40, -80},
		{1, 2, 3, 4, 5},
		{7, 7, 7},
	} {
		var us []userScore
		for i, s := range scores {
			us = append(us, userScore{uid: lgtbot.UserID(i + 1), score: s})
		}
		infos := calScores(us, 3)
		var zeroSum, top int64
		for _, info := range infos {
			zeroSum += info.ZeroSumScore
			top += info.TopScore
		}
		if zeroSum != 0 {
			t.Errorf("scores %v: zero sum column sums to %d", scores, zeroSum)
		}
		if top != 0 {
			t.Errorf("scores %v: top column sums to %d", scores, top)
		}
	}
}

func TestCalScoresAllEqual(t *testing.T) {
	infos := calScores([]userScore{{uid: 1, score: 5}, {uid: 2, score: 5}}, 1)
	for _, info := range infos {
		if info.ZeroSumScore != 0 {
			t.Errorf("equal scores must give zero sum 0, got %d", info.ZeroSumScore)
		}
		// Everyone is both max-tied and min-tied; the bonus cancels.
		if info.TopScore != 0 {
			t.Errorf("equal scores must give top 0, got %d", info.TopScore)
		}
	}
}

func TestCalScoresTiedTop(t *testing.T) {
	infos := calScores([]userScore{
		{uid: 1, score: 10}, {uid: 2, score: 10}, {uid: 3, score: 0}, {uid: 4, score: -20},
	}, 1)
	// Top bonus 4*5/2 for the two leaders, 4*5/1 penalty at the bottom.
	if infos[0].TopScore != 10 || infos[1].TopScore != 10 {
		t.Errorf("leader top = %d, %d", infos[0].TopScore, infos[1].TopScore)
	}
	if infos[2].TopScore != 0 {
		t.Errorf("middle top = %d", infos[2].TopScore)
	}
	if infos[3].TopScore != -20 {
		t.Errorf("bottom top = %d", infos[3].TopScore)
	}
}

func TestCalScoresZeroMultiple(t *testing.T) {
	infos := calScores([]userScore{{uid: 1, score: 3}, {uid: 2, score: -3}}, 0)
	for _, info := range infos {
		if info.ZeroSumScore != 0 || info.TopScore != 0 {
			t.Errorf("multiple 0 must zero all derived scores: %+v", info)
		}
	}
}
