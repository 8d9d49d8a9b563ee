// Configuration specification
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package conf

import (
	"context"
	"io"
	"log"

	lgtbot "github.com/kester2000/lgtbot"
)

// Internal representation
type conf struct {
	Debug    bool `toml:"debug"`
	Database struct {
		File string `toml:"file"`
	} `toml:"database"`
	Gateway struct {
		Addr string `toml:"addr"`
		Path string `toml:"path"`
	} `toml:"gateway"`
	Game struct {
		ResourceDir string `toml:"resource_dir"`
	} `toml:"game"`
	Admin struct {
		UIDs []uint64 `toml:"uids"`
	} `toml:"admin"`
}

// Public configuration
type Conf struct {
	Log   *log.Logger
	Debug *log.Logger

	// Database configuration
	Database string // File to store the database

	// Chat gateway configuration
	GatewayAddr string // Listen address of the websocket endpoint
	GatewayPath string // URL path of the websocket endpoint

	// Game configuration
	ResourceDir string // Directory with per-game resources

	// Users allowed to use admin commands
	Admins []lgtbot.UserID

	// Cancel to request an orderly shutdown
	Ctx context.Context

	// Internal state
	man []Manager // List of system managers
	run bool      // Running flag
}

// IsAdmin reports whether the user may use admin commands.
func (c *Conf) IsAdmin(uid lgtbot.UserID) bool {
	for _, a := range c.Admins {
		if a == uid {
			return true
		}
	}
	return false
}

// Configuration object used by default
var defaultConfig = Conf{
	Log:   log.Default(),
	Debug: log.New(io.Discard, "", 0),

	Database: "lgtbot.db",

	GatewayAddr: ":8030",
	GatewayPath: "/ws",

	ResourceDir: "./resource",

	Ctx: context.Background(),
}
