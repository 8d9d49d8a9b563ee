// Service lifecycle management
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package conf

import (
	"fmt"
	"os"
	"os/signal"
)

// Manager is one long-running service of the bot.
type Manager interface {
	fmt.Stringer
	Start()
	Shutdown()
}

func (c *Conf) Register(m Manager) {
	if c.run {
		panic(fmt.Sprintf("Late register: %#v", m))
	}
	c.man = append(c.man, m)
}

// Start runs every registered manager and blocks until an interrupt or
// the configuration context is cancelled, then shuts everything down
// in registration order.
func (c *Conf) Start() {
	for _, m := range c.man {
		c.Debug.Printf("Starting %s", m)
		go m.Start()
	}
	c.run = true

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	select {
	case <-intr:
		c.Debug.Println("Caught interrupt")
	case <-c.Ctx.Done():
		c.Debug.Println("Requested shutdown")
	}

	c.Debug.Println("Waiting for managers to shutdown...")
	for _, m := range c.man {
		c.Debug.Printf("Shutting %s down", m)
		m.Shutdown()
	}
	c.Debug.Println("Shutting down")
}
