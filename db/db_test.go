// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestRecordMatchAndProfile(t *testing.T) {
	db := open(t)
	ctx := context.Background()

	require.NoError(t, db.RecordMatch(ctx, &MatchResult{
		GameName: "猜拳",
		GroupID:  100,
		HostUID:  1,
		Multiple: 2,
		Scores: []Score{
			{UID: 1, GameScore: 10, ZeroSumScore: 30, TopScore: 10},
			{UID: 2, GameScore: -10, ZeroSumScore: -30, TopScore: 0},
		},
		Achievements: []Achievement{{UID: 1, Name: "三连胜"}},
	}))
	require.NoError(t, db.RecordMatch(ctx, &MatchResult{
		GameName: "猜拳",
		HostUID:  2,
		Multiple: 1,
		Scores: []Score{
			{UID: 1, GameScore: -5, ZeroSumScore: -15, TopScore: 0},
			{UID: 2, GameScore: 5, ZeroSumScore: 15, TopScore: 5},
		},
	}))

	p, err := db.UserProfile(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 2, p.MatchCount)
	require.EqualValues(t, 15, p.TotalZeroSum)
	require.EqualValues(t, 10, p.TotalTop)
	require.Len(t, p.Recent, 2)
	// Newest first.
	require.EqualValues(t, -5, p.Recent[0].GameScore)
	require.EqualValues(t, 10, p.Recent[1].GameScore)
	require.Len(t, p.Achievements, 1)
	require.Equal(t, "三连胜", p.Achievements[0].Name)
}

func TestProfileOfUnknownUserIsEmpty(t *testing.T) {
	db := open(t)
	p, err := db.UserProfile(context.Background(), 42)
	require.NoError(t, err)
	require.EqualValues(t, 0, p.MatchCount)
	require.Empty(t, p.Recent)
}

func TestRank(t *testing.T) {
	db := open(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, db.RecordMatch(ctx, &MatchResult{
			GameName: "猜拳",
			HostUID:  1,
			Multiple: 1,
			Scores: []Score{
				{UID: 1, GameScore: 1, ZeroSumScore: 10, TopScore: 5},
				{UID: 2, GameScore: -1, ZeroSumScore: -10, TopScore: 0},
			},
		}))
	}

	zeroSum, top, err := db.Rank(ctx)
	require.NoError(t, err)
	require.Len(t, zeroSum, 2)
	require.EqualValues(t, 1, zeroSum[0].UID)
	require.EqualValues(t, 30, zeroSum[0].Score)
	require.EqualValues(t, 15, top[0].Score)
}

func TestRecentMatchesCapped(t *testing.T) {
	db := open(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, db.RecordMatch(ctx, &MatchResult{
			GameName: "猜拳",
			HostUID:  7,
			Multiple: 1,
			Scores:   []Score{{UID: 7, GameScore: int64(i)}},
		}))
	}
	p, err := db.UserProfile(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 12, p.MatchCount)
	require.Len(t, p.Recent, 10)
	require.EqualValues(t, 11, p.Recent[0].GameScore)
}
