// Score settlement
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/db"
)

const (
	zeroSumScoreMulti = 10
	topScoreMulti     = 5
)

type userScore struct {
	uid   lgtbot.UserID
	score int64
}

// calScores converts raw game scores into the two recorded currencies.
// The zero-sum score redistributes the dispersion around the mean so
// that the column sums to zero; the top score rewards the maximum-tied
// set and penalises the minimum-tied set symmetrically.
func calScores(scores []userScore, multiple uint32) []db.Score {
	userNum := int64(len(scores))

	var sumScore int64
	for _, s := range scores {
		sumScore += s.score
	}
	var absSumScore int64
	for _, s := range scores {
		d := s.score*userNum - sumScore
		if d < 0 {
			d = -d
		}
		absSumScore += d
	}

	type recorder struct {
		score int64
		count int64
	}
	var minRec, maxRec recorder
	record := func(score int64, rec *recorder, better func(a, b int64) bool) {
		if rec.count == 0 || better(score, rec.score) {
			rec.score = score
			rec.count = 1
		} else if score == rec.score {
			rec.count++
		}
	}
	for _, s := range scores {
		record(s.score, &minRec, func(a, b int64) bool { return a < b })
		record(s.score, &maxRec, func(a, b int64) bool { return a > b })
	}
	topScore := func(score int64, rec recorder) int64 {
		if score != rec.score {
			return 0
		}
		return userNum * topScoreMulti / rec.count * int64(multiple)
	}

	ret := make([]db.Score, 0, len(scores))
	for _, s := range scores {
		var zeroSum int64
		if absSumScore != 0 {
			zeroSum = (s.score*userNum - sumScore) * userNum * zeroSumScoreMulti / absSumScore * int64(multiple)
		}
		ret = append(ret, db.Score{
			UID:          s.uid,
			GameScore:    s.score,
			ZeroSumScore: zeroSum,
			TopScore:     topScore(s.score, maxRec) - topScore(s.score, minRec),
		})
	}
	return ret
}
