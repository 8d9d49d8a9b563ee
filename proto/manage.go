// Websocket gateway
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package proto

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/conf"
)

// Handler interprets one request from a chat platform.
type Handler interface {
	HandleRequest(uid lgtbot.UserID, gid lgtbot.GroupID, text string) lgtbot.ErrCode
}

// Gateway accepts adapter connections and fans outgoing messages out
// to every connected adapter.  It is both a managed service and the
// message sink the rest of the bot writes to.
type Gateway struct {
	conf    *conf.Conf
	handler Handler

	lock    sync.Mutex
	clients map[*client]struct{}
	srv     *http.Server
}

func NewGateway(cfg *conf.Conf) *Gateway {
	return &Gateway{conf: cfg, clients: make(map[*client]struct{})}
}

// Bind installs the request handler.  Must be called before Start.
func (g *Gateway) Bind(h Handler) { g.handler = h }

func (*Gateway) String() string { return "Chat Gateway" }

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := (&websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}).Upgrade(w, r, nil)
	if err != nil {
		lgtbot.Debug.Printf("Unable to upgrade connection: %s", err)
		return
	}

	log.Printf("New adapter connection from %s", conn.RemoteAddr())
	c := &client{gw: g, conn: conn}
	g.lock.Lock()
	g.clients[c] = struct{}{}
	g.lock.Unlock()
	go c.handle()
}

func (g *Gateway) Start() {
	if g.handler == nil {
		panic("No request handler")
	}

	mux := http.NewServeMux()
	mux.Handle(g.conf.GatewayPath, g)
	g.srv = &http.Server{Addr: g.conf.GatewayAddr, Handler: mux}

	log.Printf("Accepting adapter connections on %s%s",
		g.conf.GatewayAddr, g.conf.GatewayPath)
	if err := g.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		g.conf.Log.Fatal(err)
	}
}

func (g *Gateway) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if g.srv != nil {
		if err := g.srv.Shutdown(ctx); err != nil {
			g.conf.Log.Print(err)
		}
	}

	g.lock.Lock()
	defer g.lock.Unlock()
	for c := range g.clients {
		c.conn.Close()
	}
}

func (g *Gateway) drop(c *client) {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.clients, c)
}

func (g *Gateway) each(fn func(*client)) {
	g.lock.Lock()
	defer g.lock.Unlock()
	for c := range g.clients {
		fn(c)
	}
}

// Tell sends a private message through every connected adapter.
func (g *Gateway) Tell(uid lgtbot.UserID, text string) {
	g.each(func(c *client) { c.send(tellAction(uid, text)) })
}

// Broadcast sends a group message through every connected adapter.
func (g *Gateway) Broadcast(gid lgtbot.GroupID, text string) {
	g.each(func(c *client) { c.send(broadcastAction(gid, text)) })
}

// At renders an in-message mention of a group member.
func (g *Gateway) At(gid lgtbot.GroupID, uid lgtbot.UserID) string {
	return fmt.Sprintf("[CQ:at,qq=%d]", uint64(uid))
}
