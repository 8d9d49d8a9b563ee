// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package msg

import (
	"fmt"
	"testing"

	lgtbot "github.com/kester2000/lgtbot"
)

type recordSink struct {
	tells  []string
	groups []string
}

func (s *recordSink) Tell(uid lgtbot.UserID, text string) {
	s.tells = append(s.tells, fmt.Sprintf("%d:%s", uint64(uid), text))
}

func (s *recordSink) Broadcast(gid lgtbot.GroupID, text string) {
	s.groups = append(s.groups, fmt.Sprintf("%d:%s", uint64(gid), text))
}

func (s *recordSink) At(gid lgtbot.GroupID, uid lgtbot.UserID) string {
	return fmt.Sprintf("[@%d]", uint64(uid))
}

func TestGuardFlushesOnce(t *testing.T) {
	sink := &recordSink{}
	sender := &UserSender{Sink: sink, UID: 7}
	g := sender.Open()
	g.WriteString("你好")
	g.Close()
	g.Close()
	if len(sink.tells) != 1 || sink.tells[0] != "7:你好" {
		t.Fatalf("tells = %v", sink.tells)
	}
}

func TestGuardReleaseDiscards(t *testing.T) {
	sink := &recordSink{}
	g := (&UserSender{Sink: sink, UID: 7}).Open()
	g.WriteString("作废")
	g.Release()
	g.Close()
	if len(sink.tells) != 0 {
		t.Fatalf("tells = %v", sink.tells)
	}
}

func TestEmptyGuardNotSent(t *testing.T) {
	sink := &recordSink{}
	g := (&GroupSender{Sink: sink, GID: 1}).Open()
	g.Close()
	if len(sink.groups) != 0 {
		t.Fatalf("groups = %v", sink.groups)
	}
}

func TestReplySenderPrefixesMention(t *testing.T) {
	sink := &recordSink{}
	sender := &ReplySender{GroupSender: GroupSender{Sink: sink, GID: 2}, UID: 9}
	g := sender.Open()
	g.WriteString("轮到你了")
	g.Close()
	if len(sink.groups) != 1 || sink.groups[0] != "2:[@9]\n轮到你了" {
		t.Fatalf("groups = %v", sink.groups)
	}
}

func TestBatchSenderFansOut(t *testing.T) {
	sink := &recordSink{}
	members := []Sender{
		&UserSender{Sink: sink, UID: 1},
		&UserSender{Sink: sink, UID: 2},
		Empty{},
	}
	batch := &BatchSender{Each: func(fn func(Sender)) {
		for _, m := range members {
			fn(m)
		}
	}}
	g := batch.Open()
	g.Printf("第 %d 回合", 3)
	g.Close()
	if len(sink.tells) != 2 || sink.tells[0] != "1:第 3 回合" || sink.tells[1] != "2:第 3 回合" {
		t.Fatalf("tells = %v", sink.tells)
	}
}
