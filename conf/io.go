// Configuration loading and dumping
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package conf

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	lgtbot "github.com/kester2000/lgtbot"
)

// Parse a configuration from R into CONF
func load(r io.Reader) (*Conf, error) {
	// Load configuration data
	var data conf
	_, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, err
	}

	// Create a configuration object
	c := defaultConfig

	// Apply configuration requests
	if data.Debug {
		c.Debug = lgtbot.Debug
		c.Debug.SetOutput(os.Stderr)
	}
	if data.Database.File != "" {
		c.Database = data.Database.File
	}
	if data.Gateway.Addr != "" {
		c.GatewayAddr = data.Gateway.Addr
	}
	if data.Gateway.Path != "" {
		c.GatewayPath = data.Gateway.Path
	}
	if data.Game.ResourceDir != "" {
		c.ResourceDir = data.Game.ResourceDir
	}
	for _, uid := range data.Admin.UIDs {
		c.Admins = append(c.Admins, lgtbot.UserID(uid))
	}

	return &c, nil
}

// Open a configuration file and return it
func Open(name string) (*Conf, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return load(file)
}

// Return a reference to the default configuration
func Default() *Conf {
	return &defaultConfig
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	var data conf

	data.Database.File = c.Database
	data.Gateway.Addr = c.GatewayAddr
	data.Gateway.Path = c.GatewayPath
	data.Game.ResourceDir = c.ResourceDir
	for _, uid := range c.Admins {
		data.Admin.UIDs = append(data.Admin.UIDs, uint64(uid))
	}

	return toml.NewEncoder(wr).Encode(data)
}
