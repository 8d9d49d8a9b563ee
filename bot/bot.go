// Request routing
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package bot

import (
	"strings"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/conf"
	"github.com/kester2000/lgtbot/db"
	"github.com/kester2000/lgtbot/match"
	"github.com/kester2000/lgtbot/msg"
)

// Ctx ties the long-lived pieces of the bot together: the match
// registry, the result store and the outgoing message sink.
type Ctx struct {
	conf     *conf.Conf
	database *db.DB // may be nil
	sink     msg.Sink
	registry *match.Registry
}

func New(cfg *conf.Conf, database *db.DB, sink msg.Sink) *Ctx {
	return &Ctx{
		conf:     cfg,
		database: database,
		sink:     sink,
		registry: match.NewRegistry(sink, database, cfg.ResourceDir),
	}
}

func (b *Ctx) Registry() *match.Registry { return b.registry }

// HandleRequest routes one incoming message.  The first rune decides
// the surface: '#' is a meta command, '%' an admin command, anything
// else goes to the requesting user's running match.  A zero gid marks
// a private message.
func (b *Ctx) HandleRequest(uid lgtbot.UserID, gid lgtbot.GroupID, text string) lgtbot.ErrCode {
	var reply msg.Sender
	if gid != 0 {
		reply = &msg.ReplySender{GroupSender: msg.GroupSender{Sink: b.sink, GID: gid}, UID: uid}
	} else {
		reply = &msg.UserSender{Sink: b.sink, UID: uid}
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		b.replyf(reply, "[错误] 我不理解，所以你是想表达什么？")
		return lgtbot.EC_REQUEST_EMPTY
	}

	switch fields[0][0] {
	case '#':
		return b.handleMeta(uid, gid, text, reply)
	case '%':
		if !b.conf.IsAdmin(uid) {
			b.replyf(reply, "[错误] 您未持有管理员权限")
			return lgtbot.EC_REQUEST_NOT_ADMIN
		}
		return b.handleAdmin(uid, gid, text, reply)
	default:
		m := b.registry.GetMatch(uid)
		if m == nil {
			b.replyf(reply, "[错误] 您未参与游戏\n"+
				"若您想执行元指令，请尝试在请求前加「#」，或通过「#帮助」查看所有支持的元指令")
			return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
		}
		if gid != 0 && m.GroupID() != gid {
			b.replyf(reply, "[错误] 您未在本群参与游戏\n"+
				"若您想执行元指令，请尝试在请求前加「#」，或通过「#帮助」查看所有支持的元指令")
			return lgtbot.EC_MATCH_NOT_THIS_GROUP
		}
		return m.Request(uid, gid, text, reply)
	}
}

func (b *Ctx) replyf(reply msg.Sender, format string, args ...any) {
	g := reply.Open()
	g.Printf(format, args...)
	g.Close()
}
