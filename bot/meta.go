// Meta command surface
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package bot

import (
	"context"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/match"
	"github.com/kester2000/lgtbot/msg"
)

type metaHandler func(b *Ctx, uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode

type metaCommand struct {
	spec command.Spec
	fn   metaHandler
}

func metaCmd(descr string, fn metaHandler, checkers ...command.Checker) metaCommand {
	return metaCommand{spec: command.NewSpec(descr, checkers...), fn: fn}
}

var metaCommands []metaCommand

func init() {
	metaCommands = []metaCommand{
		metaCmd("查看帮助", (*Ctx).metaHelp, command.Keyword("#帮助")),
		metaCmd("查看游戏列表", (*Ctx).metaGameList, command.Keyword("#游戏列表")),
		metaCmd("查看游戏规则", (*Ctx).metaRule, command.Keyword("#规则"), &command.AnyArg{Name: "游戏名称"}),
		metaCmd("创建新游戏", (*Ctx).metaNewGame, command.Keyword("#新游戏"), &command.AnyArg{Name: "游戏名称"}),
		metaCmd("加入游戏，私信时需注明比赛编号；「仅当前配置」表示配置变更时自动退出",
			(*Ctx).metaJoin, command.Keyword("#加入"),
			&command.Optional{Inner: &command.Int{Name: "比赛编号", Min: 1, Max: 1 << 62}, Default: int64(0)},
			command.Flag("仅当前配置")),
		metaCmd("退出游戏，游戏中需使用「强制」", (*Ctx).metaLeave, command.Keyword("#退出"), command.Flag("强制")),
		metaCmd("开始游戏", (*Ctx).metaStart, command.Keyword("#开始")),
		metaCmd("查看游戏信息", (*Ctx).metaShowInfo, command.Keyword("#游戏信息")),
		metaCmd("设置游戏倍率，0 表示试玩", (*Ctx).metaSetMultiple,
			command.Keyword("#倍率"), &command.Int{Name: "倍率", Min: 0, Max: 16}),
		metaCmd("设置替补人数，空缺席位由电脑填充", (*Ctx).metaSetBenchTo,
			command.Keyword("#替补至"), &command.Optional{Inner: &command.Int{Name: "人数", Min: 2, Max: 64}, Default: int64(0)}),
		metaCmd("中止未开始的游戏", (*Ctx).metaTerminate, command.Keyword("#中止游戏")),
		metaCmd("查看个人战绩", (*Ctx).metaProfile, command.Keyword("#战绩")),
		metaCmd("查看排行榜", (*Ctx).metaRank, command.Keyword("#排行")),
	}
}

func (b *Ctx) handleMeta(uid lgtbot.UserID, gid lgtbot.GroupID, text string, reply msg.Sender) lgtbot.ErrCode {
	for i := range metaCommands {
		r := command.NewReader(text)
		if args, mis := command.Match(r, metaCommands[i].spec.Checkers); mis == nil {
			return metaCommands[i].fn(b, uid, gid, reply, args)
		}
	}
	b.replyf(reply, "[错误] 未预料的元指令，您可以通过「#帮助」查看所有支持的元指令")
	return lgtbot.EC_GAME_REQUEST_NOT_FOUND
}

func (b *Ctx) metaHelp(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	g := reply.Open()
	defer g.Close()
	g.WriteString("支持的元指令：")
	for i := range metaCommands {
		g.Printf("\n%d. %s", i+1, metaCommands[i].spec.Info(true))
	}
	return lgtbot.EC_OK
}

func (b *Ctx) metaGameList(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	games := game.All()
	g := reply.Open()
	defer g.Close()
	g.Printf("共 %d 款游戏：", len(games))
	for i, info := range games {
		g.Printf("\n%d. %s", i+1, info.Name)
	}
	return lgtbot.EC_OK
}

func (b *Ctx) metaRule(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	info := game.Find(args.Str(0))
	if info == nil {
		b.replyf(reply, "[错误] 未知的游戏：%s，可通过「#游戏列表」查看游戏名称", args.Str(0))
		return lgtbot.EC_GAME_NOT_FOUND
	}
	g := reply.Open()
	g.Printf("%s（%d", info.Name, info.MinPlayerNum)
	if info.MaxPlayerNum == 0 {
		g.WriteString("+ 人）")
	} else {
		g.Printf("~%d 人）", info.MaxPlayerNum)
	}
	g.Printf("\n%s\n\n%s", info.Description, info.Rule)
	g.Close()
	return lgtbot.EC_OK
}

func (b *Ctx) metaNewGame(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	info := game.Find(args.Str(0))
	if info == nil {
		b.replyf(reply, "[错误] 未知的游戏：%s，可通过「#游戏列表」查看游戏名称", args.Str(0))
		return lgtbot.EC_GAME_NOT_FOUND
	}
	m, rc := b.registry.NewMatch(info, uid, gid)
	if rc != lgtbot.EC_OK {
		switch rc {
		case lgtbot.EC_MATCH_USER_ALREADY_IN_OTHER_MATCH:
			b.replyf(reply, "[错误] 创建失败：您已加入其他游戏，可通过「#退出」退出")
		case lgtbot.EC_MATCH_GROUP_ALREADY_HAS_MATCH:
			b.replyf(reply, "[错误] 创建失败：本群已经开启了一场游戏")
		}
		return rc
	}
	b.replyf(reply, "创建 %s 游戏成功，比赛编号：%d，其他玩家可通过「#加入」报名游戏", info.Name, uint64(m.ID()))
	return lgtbot.EC_OK
}

func (b *Ctx) metaJoin(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	mid := args.Int(0)
	leaveOnConfigChange := args.Bool(1)
	var m *match.Match
	if gid != 0 {
		m = b.registry.GetMatchByGroup(gid)
		if m == nil {
			b.replyf(reply, "[错误] 本群当前没有进行中的游戏，可通过「#新游戏 游戏名」创建")
			return lgtbot.EC_GAME_NOT_FOUND
		}
	} else {
		if mid == 0 {
			b.replyf(reply, "[错误] 私信加入游戏请注明比赛编号，例如「#加入 1」")
			return lgtbot.EC_GAME_NOT_FOUND
		}
		m = b.registry.GetMatchByID(lgtbot.MatchID(mid))
		if m == nil {
			b.replyf(reply, "[错误] 编号为 %d 的比赛不存在", mid)
			return lgtbot.EC_GAME_NOT_FOUND
		}
	}
	return m.Join(uid, reply, leaveOnConfigChange)
}

func (b *Ctx) userMatch(uid lgtbot.UserID, reply msg.Sender) *match.Match {
	m := b.registry.GetMatch(uid)
	if m == nil {
		b.replyf(reply, "[错误] 您未参与游戏")
	}
	return m
}

func (b *Ctx) metaLeave(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.userMatch(uid, reply)
	if m == nil {
		return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
	}
	return m.Leave(uid, reply, args.Bool(0))
}

func (b *Ctx) metaStart(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.userMatch(uid, reply)
	if m == nil {
		return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
	}
	return m.GameStart(uid, reply)
}

func (b *Ctx) metaShowInfo(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	var m *match.Match
	if gid != 0 {
		m = b.registry.GetMatchByGroup(gid)
	} else {
		m = b.registry.GetMatch(uid)
	}
	if m == nil {
		b.replyf(reply, "[错误] 没有查询到游戏")
		return lgtbot.EC_GAME_NOT_FOUND
	}
	m.ShowInfo(reply)
	return lgtbot.EC_OK
}

func (b *Ctx) metaSetMultiple(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.userMatch(uid, reply)
	if m == nil {
		return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
	}
	return m.SetMultiple(uid, reply, uint32(args.Int(0)))
}

func (b *Ctx) metaSetBenchTo(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.userMatch(uid, reply)
	if m == nil {
		return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
	}
	return m.SetBenchTo(uid, reply, uint64(args.Int(0)))
}

func (b *Ctx) metaTerminate(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	m := b.userMatch(uid, reply)
	if m == nil {
		return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
	}
	rc := m.Terminate(false)
	if rc == lgtbot.EC_MATCH_ALREADY_BEGIN {
		b.replyf(reply, "[错误] 中止失败：游戏已经开始")
	}
	return rc
}

func (b *Ctx) metaProfile(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	if b.database == nil {
		b.replyf(reply, "[错误] 未连接数据库")
		return lgtbot.EC_NOT_INIT
	}
	p, err := b.database.UserProfile(context.Background(), uid)
	if err != nil {
		lgtbot.Debug.Print(err)
		b.replyf(reply, "[错误] 查询战绩失败，请联系管理员")
		return lgtbot.EC_GAME_REQUEST_UNKNOWN
	}
	g := reply.Open()
	defer g.Close()
	g.Printf("比赛场次：%d\n零和总分：%d\n头名总分：%d", p.MatchCount, p.TotalZeroSum, p.TotalTop)
	if len(p.Achievements) > 0 {
		g.WriteString("\n获得成就：")
		for _, a := range p.Achievements {
			g.Printf("\n- %s（%s）", a.Name, a.GameName)
		}
	}
	if len(p.Recent) > 0 {
		g.WriteString("\n最近战绩：")
		for _, r := range p.Recent {
			g.Printf("\n- %s %s [零和%+d] [头名%+d]",
				r.FinishTime.Format("2006-01-02 15:04"), r.GameName, r.ZeroSumScore, r.TopScore)
		}
	}
	return lgtbot.EC_OK
}

func (b *Ctx) metaRank(uid lgtbot.UserID, gid lgtbot.GroupID, reply msg.Sender, args command.Args) lgtbot.ErrCode {
	if b.database == nil {
		b.replyf(reply, "[错误] 未连接数据库")
		return lgtbot.EC_NOT_INIT
	}
	zeroSum, top, err := b.database.Rank(context.Background())
	if err != nil {
		lgtbot.Debug.Print(err)
		b.replyf(reply, "[错误] 查询排行失败，请联系管理员")
		return lgtbot.EC_GAME_REQUEST_UNKNOWN
	}
	g := reply.Open()
	defer g.Close()
	g.WriteString("零和得分排行：")
	for i, e := range zeroSum {
		g.Printf("\n%d. 玩家%d：%d", i+1, uint64(e.UID), e.Score)
	}
	g.WriteString("\n头名得分排行：")
	for i, e := range top {
		g.Printf("\n%d. 玩家%d：%d", i+1, uint64(e.UID), e.Score)
	}
	return lgtbot.EC_OK
}
