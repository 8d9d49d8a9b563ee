// Match registry
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"sort"
	"sync"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/db"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/msg"
)

// Registry indexes every live match by user, group and match ID.  A
// user belongs to at most one match, a group hosts at most one match.
// The registry lock is never held while a match lock is taken, so
// matches may call back into the registry freely.
type Registry struct {
	mu       sync.Mutex
	sink     msg.Sink
	database *db.DB // may be nil
	gameDir  string

	byUser  map[lgtbot.UserID]*Match
	byGroup map[lgtbot.GroupID]*Match
	byID    map[lgtbot.MatchID]*Match
	nextMID uint64
}

func NewRegistry(sink msg.Sink, database *db.DB, gameDir string) *Registry {
	return &Registry{
		sink:     sink,
		database: database,
		gameDir:  gameDir,
		byUser:   make(map[lgtbot.UserID]*Match),
		byGroup:  make(map[lgtbot.GroupID]*Match),
		byID:     make(map[lgtbot.MatchID]*Match),
	}
}

// NewMatch creates a match hosted by uid, bound to gid unless private.
func (r *Registry) NewMatch(info *game.Info, host lgtbot.UserID, gid lgtbot.GroupID) (*Match, lgtbot.ErrCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[host]; ok {
		return nil, lgtbot.EC_MATCH_USER_ALREADY_IN_OTHER_MATCH
	}
	if gid != 0 {
		if _, ok := r.byGroup[gid]; ok {
			return nil, lgtbot.EC_MATCH_GROUP_ALREADY_HAS_MATCH
		}
	}
	r.nextMID++
	m := newMatch(r, lgtbot.MatchID(r.nextMID), info, host, gid)
	r.byUser[host] = m
	r.byID[m.mid] = m
	if gid != 0 {
		r.byGroup[gid] = m
	}
	return m, lgtbot.EC_OK
}

// GetMatch returns the match the user participates in, or nil.
func (r *Registry) GetMatch(uid lgtbot.UserID) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUser[uid]
}

// GetMatchByGroup returns the match bound to the group, or nil.
func (r *Registry) GetMatchByGroup(gid lgtbot.GroupID) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byGroup[gid]
}

// GetMatchByID returns the match with the given ID, or nil.
func (r *Registry) GetMatchByID(mid lgtbot.MatchID) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[mid]
}

// Matches returns every live match, ordered by ID.
func (r *Registry) Matches() []*Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms := make([]*Match, 0, len(r.byID))
	for _, m := range r.byID {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].mid < ms[j].mid })
	return ms
}

// bindUser claims the user for the match; it fails when the user is
// already in any match.
func (r *Registry) bindUser(uid lgtbot.UserID, m *Match) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[uid]; ok {
		return false
	}
	r.byUser[uid] = m
	return true
}

func (r *Registry) unbindUser(uid lgtbot.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, uid)
}

func (r *Registry) unbindMatch(mid lgtbot.MatchID, gid lgtbot.GroupID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, mid)
	if gid != 0 {
		delete(r.byGroup, gid)
	}
}
