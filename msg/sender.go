// Outgoing message plumbing
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package msg

import (
	"fmt"
	"strings"

	lgtbot "github.com/kester2000/lgtbot"
)

// Sink is the egress side of the chat platform.  Implementations must
// be safe for concurrent use.
type Sink interface {
	Tell(uid lgtbot.UserID, text string)
	Broadcast(gid lgtbot.GroupID, text string)
	At(gid lgtbot.GroupID, uid lgtbot.UserID) string
}

// Sender composes one outgoing message towards a fixed destination.
// Open returns a guard buffering the text; the guard flushes exactly
// once when closed, or not at all when released.
type Sender interface {
	Open() *Guard
	At(uid lgtbot.UserID) string
}

// Guard buffers one composed reply.
type Guard struct {
	buf   strings.Builder
	flush func(text string)
	done  bool
}

func newGuard(flush func(string)) *Guard { return &Guard{flush: flush} }

func (g *Guard) Write(p []byte) (int, error) { return g.buf.Write(p) }

func (g *Guard) WriteString(s string) *Guard {
	g.buf.WriteString(s)
	return g
}

func (g *Guard) Printf(format string, args ...any) *Guard {
	fmt.Fprintf(&g.buf, format, args...)
	return g
}

// Release discards the buffer without sending; used when a composed
// reply turns out to say nothing.
func (g *Guard) Release() { g.done = true }

// Close flushes the buffer exactly once.  Empty buffers are not sent.
func (g *Guard) Close() {
	if g.done {
		return
	}
	g.done = true
	if g.buf.Len() > 0 && g.flush != nil {
		g.flush(g.buf.String())
	}
}

// UserSender sends private messages to one user.
type UserSender struct {
	Sink Sink
	UID  lgtbot.UserID
}

func (s *UserSender) Open() *Guard {
	return newGuard(func(text string) { s.Sink.Tell(s.UID, text) })
}

// In a private conversation a mention is just the name.
func (s *UserSender) At(uid lgtbot.UserID) string {
	return fmt.Sprintf("<%d>", uint64(uid))
}

// GroupSender posts publicly to one group.
type GroupSender struct {
	Sink Sink
	GID  lgtbot.GroupID
}

func (s *GroupSender) Open() *Guard {
	return newGuard(func(text string) { s.Sink.Broadcast(s.GID, text) })
}

func (s *GroupSender) At(uid lgtbot.UserID) string {
	return s.Sink.At(s.GID, uid)
}

// ReplySender posts publicly but prefixes every composed message with
// a mention of the requesting user, so that replies in a busy group
// can be attributed.
type ReplySender struct {
	GroupSender
	UID lgtbot.UserID
}

func (s *ReplySender) Open() *Guard {
	g := s.GroupSender.Open()
	g.WriteString(s.At(s.UID)).WriteString("\n")
	return g
}

// BatchSender fans one composed message out to several senders; used
// as the broadcast channel of matches without a group.
type BatchSender struct {
	Each func(fn func(Sender))
}

func (s *BatchSender) Open() *Guard {
	return newGuard(func(text string) {
		s.Each(func(inner Sender) {
			g := inner.Open()
			g.WriteString(text)
			g.Close()
		})
	})
}

func (s *BatchSender) At(uid lgtbot.UserID) string {
	return fmt.Sprintf("<%d>", uint64(uid))
}

// Empty discards everything; bound to computer seats and to
// participants that left mid-game.
type Empty struct{}

func (Empty) Open() *Guard                { return newGuard(nil) }
func (Empty) At(uid lgtbot.UserID) string { return fmt.Sprintf("<%d>", uint64(uid)) }
