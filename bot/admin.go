// Admin command surface
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package bot

import (
	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/msg"
)

var adminCommands []metaCommand

func init() {
	adminCommands = []metaCommand{
		metaCmd("查看管理指令", (*Ctx).adminHelp, command.Keyword("%帮助")),
		metaCmd("查看所有进行中的比赛", (*Ctx).adminMatchList, command.Keyword("%比赛列表")),
		metaCmd("强制中止比赛", (*Ctx).adminTerminate,
			command.Keyword("%中止游戏"), &command.Int{Name: "比赛编号", Min: 1, Max: 1 << 62}),
	}
}

func (b *Ctx) handleAdmin(uid lgtbot.UserID, gid lgtbot.GroupID, text string, reply msg.Sender) lgtbot.ErrCode {
	for i := range adminCommands {
		r := command.NewReader(text)
		if args, mis := command.Match(r, adminCommands[i].spec.Checkers); mis == nil {
			return adminCommands[i].fn(b, uid, gid, reply, args)
		}
	}
	b.replyf(reply, "[错误] 未预料的管理指令，您可以通过「%%帮助」查看所有支持的管理指令")
	return lgtbot.EC_GAME_REQUEST_NOT_FOUND
}

func (b *Ctx) adminHelp(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	g := reply.Open()
	defer g.Close()
	g.WriteString("支持的管理指令：")
	for i := range adminCommands {
		g.Printf("\n%d. %s", i+1, adminCommands[i].spec.Info(true))
	}
	return lgtbot.EC_OK
}

func (b *Ctx) adminMatchList(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	matches := b.registry.Matches()
	g := reply.Open()
	defer g.Close()
	g.Printf("进行中的比赛：%d 场", len(matches))
	for _, m := range matches {
		g.Printf("\n- 编号 %d：%s", uint64(m.ID()), m.GameName())
		if m.GroupID() != 0 {
			g.Printf("（群 %d）", uint64(m.GroupID()))
		} else {
			g.WriteString("（私密）")
		}
	}
	return lgtbot.EC_OK
}

func (b *Ctx) adminTerminate(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.registry.GetMatchByID(lgtbot.MatchID(args.Int(0)))
	if m == nil {
		b.replyf(reply, "[错误] 编号为 %d 的比赛不存在", args.Int(0))
		return lgtbot.EC_GAME_NOT_FOUND
	}
	rc := m.Terminate(true)
	if rc == lgtbot.EC_OK {
		b.replyf(reply, "比赛 %d 已强制中止", args.Int(0))
	}
	return rc
}
