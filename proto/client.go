// Adapter connection management
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package proto

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	lgtbot "github.com/kester2000/lgtbot"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// client wraps one adapter websocket.  Writes from concurrent match
// goroutines are serialised by the IO lock.
type client struct {
	gw     *Gateway
	conn   *websocket.Conn
	iolock sync.Mutex
}

func (c *client) send(a Action) {
	data, err := json.Marshal(a)
	if err != nil {
		lgtbot.Debug.Print(err)
		return
	}

	c.iolock.Lock()
	defer c.iolock.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		lgtbot.Debug.Printf("%s: write: %s", c.conn.RemoteAddr(), err)
	}
}

func (c *client) ping() bool {
	c.iolock.Lock()
	defer c.iolock.Unlock()
	err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
	return err == nil
}

// pinger keeps the connection alive and drops adapters that stop
// answering pongs.
func (c *client) pinger(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !c.ping() {
				c.conn.Close()
				return
			}
		}
	}
}

// handle reads events until the adapter disconnects.  Events are
// interpreted in order: the bot relies on per-connection sequencing of
// a user's requests.
func (c *client) handle() {
	defer func() {
		c.gw.drop(c)
		c.conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go c.pinger(done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			lgtbot.Debug.Printf("%s: read: %s", c.conn.RemoteAddr(), err)
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			lgtbot.Debug.Printf("%s: bad frame: %s", c.conn.RemoteAddr(), err)
			continue
		}
		if ev.PostType != "message" || ev.UserID == 0 {
			continue
		}

		gid := lgtbot.GroupID(0)
		if ev.MessageType == "group" {
			gid = lgtbot.GroupID(ev.GroupID)
		}
		c.gw.handler.HandleRequest(lgtbot.UserID(ev.UserID), gid, ev.Message)
	}
}
