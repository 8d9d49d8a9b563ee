// Match result storage
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	lgtbot "github.com/kester2000/lgtbot"
)

//go:embed *.sql
var sqlDir embed.FS

// DB records finished matches and answers profile queries.  It keeps
// two connections: a single-writer connection for commands and a
// shared one for queries.  The SQL statements live in the embedded
// *.sql files; create-* files are executed at open time, select-*
// files are prepared on the read connection and everything else on
// the write connection.
type DB struct {
	read  *sql.DB
	write *sql.DB

	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt
}

// Open opens (creating if necessary) the database at file.
func Open(file string) (*DB, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		read.Close()
		return nil, err
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &DB{
		read:     read,
		write:    write,
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
	} {
		lgtbot.Debug.Printf("Run PRAGMA %v", pragma)
		if _, err = db.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			db.Close()
			return nil, err
		}
	}

	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sqlDir, entry.Name())
		if err != nil {
			db.Close()
			return nil, err
		}

		if strings.HasPrefix(base, "create-") {
			_, err = db.write.Exec(string(data))
			lgtbot.Debug.Printf("Executed query %v", base)
		} else {
			query := strings.TrimSuffix(base, ".sql")
			if strings.HasPrefix(query, "select-") {
				db.queries[query], err = db.read.Prepare(string(data))
				lgtbot.Debug.Printf("Registered query %v", query)
			} else {
				db.commands[query], err = db.write.Prepare(string(data))
				lgtbot.Debug.Printf("Registered command %v", query)
			}
		}
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}

	if len(db.queries) == 0 {
		return nil, fmt.Errorf("no queries loaded")
	}
	return db, nil
}

func (db *DB) Close() {
	// https://www.sqlite.org/pragma.html#pragma_optimize
	if _, err := db.write.Exec("PRAGMA optimize;"); err != nil {
		lgtbot.Debug.Print(err)
	}
	db.write.Close()
	db.read.Close()
}

// Score is one player's result in a finished match.
type Score struct {
	UID          lgtbot.UserID
	GameScore    int64
	ZeroSumScore int64
	TopScore     int64
}

// Achievement is one honour earned during a match.
type Achievement struct {
	UID  lgtbot.UserID
	Name string
}

// MatchResult is everything recorded about one finished match.
type MatchResult struct {
	GameName     string
	GroupID      lgtbot.GroupID // zero for private matches
	HostUID      lgtbot.UserID
	Multiple     uint32
	Scores       []Score
	Achievements []Achievement
}

// RecordMatch stores a finished match in a single transaction: the
// match row, one score row per human player, and any achievements.
// Missing user rows are created on the fly.
func (db *DB) RecordMatch(ctx context.Context, res *MatchResult) error {
	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var gid any
	if res.GroupID != 0 {
		gid = uint64(res.GroupID)
	}
	r, err := tx.Stmt(db.commands["insert-match"]).ExecContext(ctx,
		res.GameName, gid, uint64(res.HostUID), len(res.Scores), res.Multiple)
	if err != nil {
		return err
	}
	mid, err := r.LastInsertId()
	if err != nil {
		return err
	}

	for _, s := range res.Scores {
		_, err = tx.Stmt(db.commands["insert-user"]).ExecContext(ctx, uint64(s.UID))
		if err != nil {
			return err
		}
		_, err = tx.Stmt(db.commands["insert-user-with-match"]).ExecContext(ctx,
			uint64(s.UID), mid, s.GameScore, s.ZeroSumScore, s.TopScore)
		if err != nil {
			return err
		}
	}
	for _, a := range res.Achievements {
		_, err = tx.Stmt(db.commands["insert-achievement"]).ExecContext(ctx,
			uint64(a.UID), res.GameName, a.Name)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MatchBrief is one row of a profile's recent match history.
type MatchBrief struct {
	GameName     string
	FinishTime   time.Time
	UserCount    uint64
	Multiple     uint32
	GameScore    int64
	ZeroSumScore int64
	TopScore     int64
}

// UserAchievement is one earned honour shown on a profile.
type UserAchievement struct {
	GameName string
	Name     string
}

// Profile is the aggregated record of one user.
type Profile struct {
	UID          lgtbot.UserID
	MatchCount   uint64
	TotalZeroSum int64
	TotalTop     int64
	Recent       []MatchBrief // newest first, at most ten
	Achievements []UserAchievement
}

// UserProfile aggregates the match history of one user.  A user with
// no recorded matches gets an all-zero profile rather than an error.
func (db *DB) UserProfile(ctx context.Context, uid lgtbot.UserID) (*Profile, error) {
	p := &Profile{UID: uid}
	err := db.queries["select-profile-counts"].QueryRowContext(ctx, uint64(uid)).Scan(
		&p.MatchCount, &p.TotalZeroSum, &p.TotalTop)
	if err != nil {
		return nil, err
	}

	rows, err := db.queries["select-recent-matches"].QueryContext(ctx, uint64(uid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b MatchBrief
		err = rows.Scan(&b.GameName, &b.FinishTime, &b.UserCount, &b.Multiple,
			&b.GameScore, &b.ZeroSumScore, &b.TopScore)
		if err != nil {
			return nil, err
		}
		p.Recent = append(p.Recent, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	arows, err := db.queries["select-user-achievements"].QueryContext(ctx, uint64(uid))
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a UserAchievement
		if err = arows.Scan(&a.GameName, &a.Name); err != nil {
			return nil, err
		}
		p.Achievements = append(p.Achievements, a)
	}
	return p, arows.Err()
}

// RankEntry is one line of a leaderboard.
type RankEntry struct {
	UID   lgtbot.UserID
	Score int64
}

// Rank returns the ten best users by accumulated zero-sum score and by
// accumulated top score.
func (db *DB) Rank(ctx context.Context) (zeroSum, top []RankEntry, err error) {
	scan := func(stmt *sql.Stmt) ([]RankEntry, error) {
		rows, err := stmt.QueryContext(ctx)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var entries []RankEntry
		for rows.Next() {
			var e RankEntry
			var uid uint64
			if err = rows.Scan(&uid, &e.Score); err != nil {
				return nil, err
			}
			e.UID = lgtbot.UserID(uid)
			entries = append(entries, e)
		}
		return entries, rows.Err()
	}

	if zeroSum, err = scan(db.queries["select-rank-zero-sum"]); err != nil {
		return nil, nil, err
	}
	if top, err = scan(db.queries["select-rank-top"]); err != nil {
		return nil, nil, err
	}
	return zeroSum, top, nil
}
