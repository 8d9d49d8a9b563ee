// Game descriptors and registration
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

import (
	"sort"
	"sync"
)

// Info describes one installed game.
type Info struct {
	Name        string
	Developer   string
	Description string
	Rule        string

	MinPlayerNum  int
	MaxPlayerNum  int // 0 means unbounded
	BestPlayerNum int // bench target when the host asks for padding

	// Multiple is the default score multiple of new matches.
	Multiple uint32

	NewOptions   func() *Options
	NewMainStage func(m Match, opts *Options) MainStage
}

// ValidPlayerNum reports whether a match of n players can start.
func (g *Info) ValidPlayerNum(n int) bool {
	if n < g.MinPlayerNum {
		return false
	}
	return g.MaxPlayerNum == 0 || n <= g.MaxPlayerNum
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Info)
)

// Register installs a game; usually called from a game package's init.
func Register(g *Info) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[g.Name]; dup {
		panic("game: duplicate registration of " + g.Name)
	}
	registry[g.Name] = g
}

// Find returns the game with the given name, or nil.
func Find(name string) *Info {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// All returns every installed game, sorted by name.
func All() []*Info {
	registryMu.RLock()
	defer registryMu.RUnlock()
	games := make([]*Info, 0, len(registry))
	for _, g := range registry {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games
}
