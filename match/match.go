// Match lifecycle
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/db"
	"github.com/kester2000/lgtbot/game"
	"github.com/kester2000/lgtbot/msg"
)

type State int

const (
	NotStarted State = iota
	IsStarted
	IsOver
)

// participant is one human user of a match.  Records of users that
// force-left mid-game are retained so their seats stay valid, but no
// message reaches them any more.
type participant struct {
	uid                 lgtbot.UserID
	sender              msg.Sender
	left                bool
	pids                []lgtbot.PlayerID
	leaveOnConfigChange bool
}

// player is one seat of a started match.
type player struct {
	uid        lgtbot.UserID
	cid        lgtbot.ComputerID
	computer   bool
	eliminated bool
}

// Match owns the full state of one game room, from signup through the
// running game to result settlement.  All exported methods lock the
// match; the game.Match methods are only called back from stage code
// that already runs under the lock.
type Match struct {
	mu       sync.Mutex
	registry *Registry
	sink     msg.Sink
	database *db.DB // may be nil
	gameDir  string

	mid      lgtbot.MatchID
	info     *game.Info
	hostUID  lgtbot.UserID
	gid      lgtbot.GroupID // zero for private matches
	state    State
	options  *game.Options
	main     game.MainStage
	users    map[lgtbot.UserID]*participant
	players  []player
	benchTo  uint64
	multiple uint32

	masker       *game.Masker
	achievements []db.Achievement
	broadcast    msg.Sender
	timer        *timer
	timerOver    *bool

	helpCmd command.Spec
}

func newMatch(reg *Registry, mid lgtbot.MatchID, info *game.Info, host lgtbot.UserID, gid lgtbot.GroupID) *Match {
	m := &Match{
		registry: reg,
		sink:     reg.sink,
		database: reg.database,
		gameDir:  reg.gameDir,
		mid:      mid,
		info:     info,
		hostUID:  host,
		gid:      gid,
		state:    NotStarted,
		options:  info.NewOptions(),
		users:    make(map[lgtbot.UserID]*participant),
		multiple: info.Multiple,
		helpCmd:  command.NewSpec("查看游戏帮助", command.Keyword("帮助"), command.Flag("文字")),
	}
	m.users[host] = &participant{uid: host, sender: &msg.UserSender{Sink: m.sink, UID: host}}
	if gid != 0 {
		m.broadcast = &msg.GroupSender{Sink: m.sink, GID: gid}
	} else {
		m.broadcast = &msg.BatchSender{Each: m.eachActiveSender}
	}
	return m
}

func (m *Match) ID() lgtbot.MatchID      { return m.mid }
func (m *Match) GameName() string        { return m.info.Name }
func (m *Match) GroupID() lgtbot.GroupID { return m.gid }

func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) has(uid lgtbot.UserID) bool {
	_, ok := m.users[uid]
	return ok
}

func (m *Match) sortedUIDs() []lgtbot.UserID {
	uids := make([]lgtbot.UserID, 0, len(m.users))
	for uid := range m.users {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids
}

func (m *Match) eachActiveSender(fn func(msg.Sender)) {
	for _, uid := range m.sortedUIDs() {
		if u := m.users[uid]; !u.left {
			fn(u.sender)
		}
	}
}

func (m *Match) userNum() uint64 { return uint64(len(m.users)) }

func (m *Match) comNum() uint64 {
	if m.benchTo > m.userNum() {
		return m.benchTo - m.userNum()
	}
	return 0
}

// broadcastAtAll opens a broadcast guard that starts by mentioning
// every active participant; in private matches a plain broadcast
// already reaches everyone personally.
func (m *Match) broadcastAtAll() *msg.Guard {
	g := m.broadcast.Open()
	if m.gid != 0 {
		for _, uid := range m.sortedUIDs() {
			if !m.users[uid].left {
				g.WriteString(m.broadcast.At(uid))
			}
		}
		g.WriteString("\n")
	}
	return g
}

// ---- game.Match interface; every method requires the match lock ----

func (m *Match) PlayerNum() int { return len(m.players) }

func (m *Match) PlayerName(pid lgtbot.PlayerID) string {
	p := m.players[pid]
	if p.computer {
		return fmt.Sprintf("电脑%d号", uint64(p.cid))
	}
	return fmt.Sprintf("玩家%d", uint64(p.uid))
}

func (m *Match) AtPlayer(pid lgtbot.PlayerID) string {
	p := m.players[pid]
	if p.computer {
		return fmt.Sprintf("电脑%d号", uint64(p.cid))
	}
	return m.broadcast.At(p.uid)
}

func (m *Match) Broadcast() *msg.Guard { return m.broadcast.Open() }

func (m *Match) Tell(pid lgtbot.PlayerID) *msg.Guard {
	p := m.players[pid]
	if p.computer {
		return msg.Empty{}.Open()
	}
	if u, ok := m.users[p.uid]; ok && !u.left {
		return u.sender.Open()
	}
	return msg.Empty{}.Open()
}

// StartTimer arms the stage deadline.  The timeout and alert handlers
// reacquire the match lock, so a request that stops the timer first
// wins the race through the timerOver flag.
func (m *Match) StartTimer(sec uint64) {
	if sec == 0 {
		return
	}
	m.StopTimer()
	over := new(bool)
	m.timerOver = over
	timeout := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if *over {
			return
		}
		m.main.HandleTimeout()
		m.routine()
	}
	alert := func(remain uint64) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if *over {
			return
		}
		g := m.broadcast.Open()
		g.Printf("剩余时间 %d 秒", remain)
		g.Close()
	}
	m.timer = newTimer(timerTasks(sec, alert, timeout))
}

func (m *Match) StopTimer() {
	if m.timerOver != nil {
		*m.timerOver = true
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Match) Eliminate(pid lgtbot.PlayerID) {
	m.players[pid].eliminated = true
	g := m.Tell(pid)
	g.WriteString("很遗憾，您被淘汰了，可以通过「#退出」以退出游戏")
	g.Close()
}

func (m *Match) IsEliminated(pid lgtbot.PlayerID) bool { return m.players[pid].eliminated }

func (m *Match) Achieve(pid lgtbot.PlayerID, name string) {
	p := m.players[pid]
	if p.computer {
		return
	}
	m.achievements = append(m.achievements, db.Achievement{UID: p.uid, Name: name})
}

func (m *Match) Masker() *game.Masker { return m.masker }

// ---- score gate ----

func (m *Match) checkScoreEnough(uid lgtbot.UserID, reply msg.Sender, multiple uint32) lgtbot.ErrCode {
	if multiple <= m.info.Multiple || m.database == nil {
		return lgtbot.EC_OK
	}
	requiredZeroSum := int64(zeroSumScoreMulti) * int64(multiple) * 2
	requiredTop := int64(topScoreMulti) * int64(multiple) * 2
	profile, err := m.database.UserProfile(context.Background(), uid)
	if err != nil {
		lgtbot.Debug.Print(err)
		profile = &db.Profile{UID: uid}
	}
	if profile.TotalZeroSum < requiredZeroSum || profile.TotalTop < requiredTop {
		g := reply.Open()
		g.Printf("[错误] 您的分数未达到要求，零和总分至少需要达到 %d（当前 %d），头名总分至少需要达到 %d（当前 %d）",
			requiredZeroSum, profile.TotalZeroSum, requiredTop, profile.TotalTop)
		g.Close()
		return lgtbot.EC_MATCH_SCORE_NOT_ENOUGH
	}
	return lgtbot.EC_OK
}

// ---- configuration ----

func (m *Match) SetBenchTo(uid lgtbot.UserID, reply msg.Sender, benchTo uint64) lgtbot.ErrCode {
	if benchTo == 0 {
		benchTo = uint64(m.info.BestPlayerNum)
		if benchTo == 0 {
			benchTo = uint64(m.info.MinPlayerNum)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if uid != m.hostUID {
		m.replyf(reply, "[错误] 您并非房主，没有变更游戏设置的权限")
		return lgtbot.EC_MATCH_NOT_HOST
	}
	if benchTo <= m.userNum() {
		m.replyf(reply, "[警告] 当前玩家数 %d 已满足条件", m.userNum())
		return lgtbot.EC_OK
	}
	if m.info.MaxPlayerNum != 0 && benchTo > uint64(m.info.MaxPlayerNum) {
		m.replyf(reply, "[错误] 设置失败：比赛人数将超过上限 %d 人", m.info.MaxPlayerNum)
		return lgtbot.EC_MATCH_ACHIEVE_MAX_PLAYER
	}
	m.benchTo = benchTo
	m.kickForConfigChange()
	m.replyf(reply, "设置成功！\n- 当前用户数:%d\n- 当前电脑数:%d", m.userNum(), m.comNum())
	return lgtbot.EC_OK
}

func (m *Match) SetMultiple(uid lgtbot.UserID, reply msg.Sender, multiple uint32) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if uid != m.hostUID {
		m.replyf(reply, "[错误] 您并非房主，没有变更游戏设置的权限")
		return lgtbot.EC_MATCH_NOT_HOST
	}
	if multiple == m.multiple {
		m.replyf(reply, "[警告] 赔率 %d 和目前配置相同", multiple)
		return lgtbot.EC_OK
	}
	if rc := m.checkScoreEnough(uid, reply, multiple); rc != lgtbot.EC_OK {
		return rc
	}
	m.multiple = multiple
	m.kickForConfigChange()
	if multiple == 0 {
		m.replyf(reply, "设置成功！当前游戏为试玩游戏")
	} else {
		m.replyf(reply, "设置成功！当前倍率为 %d", multiple)
	}
	return lgtbot.EC_OK
}

func (m *Match) kickForConfigChange() {
	g := m.broadcast.Open()
	kicked := false
	for _, uid := range m.sortedUIDs() {
		u := m.users[uid]
		if uid != m.hostUID && u.leaveOnConfigChange {
			g.WriteString(m.broadcast.At(uid))
			m.registry.unbindUser(uid)
			delete(m.users, uid)
			kicked = true
		}
	}
	if kicked {
		g.WriteString("\n游戏配置已经发生变更，请重新加入游戏")
		g.Close()
	} else {
		g.Release()
	}
}

// ---- signup ----

func (m *Match) Join(uid lgtbot.UserID, reply msg.Sender, leaveOnConfigChange bool) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == IsStarted {
		m.replyf(reply, "[错误] 加入失败：游戏已经开始")
		return lgtbot.EC_MATCH_ALREADY_BEGIN
	}
	if m.info.MaxPlayerNum != 0 && len(m.users) >= m.info.MaxPlayerNum {
		m.replyf(reply, "[错误] 加入失败：比赛人数已达到游戏上限")
		return lgtbot.EC_MATCH_ACHIEVE_MAX_PLAYER
	}
	if m.has(uid) {
		m.replyf(reply, "[错误] 加入失败：您已加入该游戏")
		return lgtbot.EC_MATCH_USER_ALREADY_IN_MATCH
	}
	if rc := m.checkScoreEnough(uid, reply, m.multiple); rc != lgtbot.EC_OK {
		return rc
	}
	if !m.registry.bindUser(uid, m) {
		m.replyf(reply, "[错误] 加入失败：您已加入其他游戏，您可通过私信裁判「#游戏信息」查看该游戏信息")
		return lgtbot.EC_MATCH_USER_ALREADY_IN_OTHER_MATCH
	}
	m.users[uid] = &participant{
		uid:                 uid,
		sender:              &msg.UserSender{Sink: m.sink, UID: uid},
		leaveOnConfigChange: leaveOnConfigChange,
	}
	g := m.broadcast.Open()
	g.Printf("玩家 %s 加入了游戏\n- 当前用户数:%d\n- 当前电脑数:%d",
		m.broadcast.At(uid), m.userNum(), m.comNum())
	g.Close()
	return lgtbot.EC_OK
}

func (m *Match) Leave(uid lgtbot.UserID, reply msg.Sender, force bool) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.state == IsOver:
		m.replyf(reply, "[错误] 退出失败：游戏已经结束")
		return lgtbot.EC_MATCH_ALREADY_OVER
	case m.state == NotStarted:
		m.registry.unbindUser(uid)
		delete(m.users, uid)
		m.replyf(reply, "退出成功")
		g := m.broadcast.Open()
		g.Printf("玩家 %s 退出了游戏\n- 当前用户数:%d\n- 当前电脑数:%d",
			m.broadcast.At(uid), m.userNum(), m.comNum())
		g.Close()
		if len(m.users) == 0 {
			m.registry.unbindMatch(m.mid, m.gid)
		} else if uid == m.hostUID {
			m.hostUID = m.sortedUIDs()[0]
			g := m.broadcast.Open()
			g.Printf("%s 被选为新房主", m.broadcast.At(m.hostUID))
			g.Close()
		}
		return lgtbot.EC_OK
	case force:
		m.registry.unbindUser(uid)
		m.replyf(reply, "退出成功")
		g := m.broadcast.Open()
		g.Printf("玩家 %s 中途退出了游戏，他将不再参与后续的游戏进程", m.broadcast.At(uid))
		g.Close()
		u := m.users[uid]
		u.left = true
		allLeft := true
		for _, other := range m.users {
			if !other.left {
				allLeft = false
				break
			}
		}
		if allLeft {
			g := m.broadcast.Open()
			g.WriteString("所有玩家都强制退出了游戏，游戏解散，结果不会被记录")
			g.Close()
			m.terminate()
			return lgtbot.EC_OK
		}
		for _, pid := range u.pids {
			m.main.HandleLeave(pid)
			m.routine()
		}
		return lgtbot.EC_OK
	default:
		m.replyf(reply, "[错误] 退出失败：游戏已经开始，若仍要退出游戏，请使用「#退出 强制」命令")
		return lgtbot.EC_MATCH_ALREADY_BEGIN
	}
}

// ---- game start and requests ----

func (m *Match) GameStart(uid lgtbot.UserID, reply msg.Sender) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == IsStarted {
		m.replyf(reply, "[错误] 开始失败：游戏已经开始")
		return lgtbot.EC_MATCH_ALREADY_BEGIN
	}
	if uid != m.hostUID {
		m.replyf(reply, "[错误] 您并非房主，没有变更游戏设置的权限")
		return lgtbot.EC_MATCH_NOT_HOST
	}
	playerNum := m.userNum()
	if m.benchTo > playerNum {
		playerNum = m.benchTo
	}
	if !m.info.ValidPlayerNum(int(playerNum)) {
		m.replyf(reply, "[错误] 开始失败：不符合游戏人数要求")
		return lgtbot.EC_MATCH_UNEXPECTED_CONFIG
	}
	m.options.PlayerNum = int(playerNum)
	m.options.ResourceDir = filepath.Join(m.gameDir, m.info.Name)
	m.masker = game.NewMasker(int(playerNum))
	for _, uid := range m.sortedUIDs() {
		u := m.users[uid]
		u.pids = append(u.pids, lgtbot.PlayerID(len(m.players)))
		m.players = append(m.players, player{uid: uid})
	}
	for cid := lgtbot.ComputerID(0); uint64(cid) < m.comNum(); cid++ {
		m.players = append(m.players, player{cid: cid, computer: true})
	}
	m.main = m.info.NewMainStage(m, m.options)
	if m.main == nil {
		m.players = nil
		for _, u := range m.users {
			u.pids = nil
		}
		m.replyf(reply, "[错误] 开始失败：不符合游戏参数的预期")
		return lgtbot.EC_MATCH_UNEXPECTED_CONFIG
	}
	m.state = IsStarted
	g := m.broadcastAtAll()
	g.WriteString("游戏开始，您可以使用「帮助」命令（无#号），查看可执行命令")
	g.Close()
	m.main.Begin()
	m.routine() // computers act first
	return lgtbot.EC_OK
}

func (m *Match) Request(uid lgtbot.UserID, gid lgtbot.GroupID, text string, reply msg.Sender) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == IsOver {
		m.replyf(reply, "[错误] 游戏已经结束")
		return lgtbot.EC_MATCH_ALREADY_OVER
	}
	if _, mis := command.Match(command.NewReader(text), m.helpCmd.Checkers); mis == nil {
		m.help(reply)
		return lgtbot.EC_GAME_REQUEST_OK
	}
	if m.main != nil {
		u, ok := m.users[uid]
		if !ok || len(u.pids) == 0 {
			m.replyf(reply, "[错误] 您未参与游戏")
			return lgtbot.EC_MATCH_USER_NOT_IN_MATCH
		}
		pid := u.pids[0]
		if m.players[pid].eliminated {
			m.replyf(reply, "[错误] 您已经被淘汰，无法执行游戏请求")
			return lgtbot.EC_MATCH_ELIMINATED
		}
		code := m.main.HandleRequest(command.NewReader(text), pid, gid != 0, reply)
		if code == game.NOT_FOUND {
			m.replyf(reply, "[错误] 未预料的游戏指令，您可以通过「帮助」（不带#号）查看所有支持的游戏指令\n"+
				"若您想执行元指令，请尝试在请求前加「#」，或通过「#帮助」查看所有支持的元指令")
		}
		m.routine()
		return convertCode(code)
	}
	if uid != m.hostUID {
		m.replyf(reply, "[错误] 您并非房主，没有变更游戏设置的权限")
		return lgtbot.EC_MATCH_NOT_HOST
	}
	if !m.options.Set(text) {
		m.replyf(reply, "[错误] 未预料的游戏设置，您可以通过「帮助」（不带#号）查看所有支持的游戏设置\n"+
			"若您想执行元指令，请尝试在请求前加「#」，或通过「#帮助」查看所有支持的元指令")
		return lgtbot.EC_GAME_REQUEST_NOT_FOUND
	}
	m.kickForConfigChange()
	g := reply.Open()
	g.Printf("设置成功！\n- 当前用户数:%d\n- 当前电脑数:%d", m.userNum(), m.comNum())
	g.Close()
	return lgtbot.EC_GAME_REQUEST_OK
}

func (m *Match) help(reply msg.Sender) {
	g := reply.Open()
	defer g.Close()
	g.Printf("1. %s\n", m.helpCmd.Info(true))
	if m.main != nil {
		g.Printf("当前阶段：%s\n可使用的游戏命令：", m.main.Name())
		for i, info := range m.main.CommandInfos(true) {
			g.Printf("\n%d. %s", i+2, info)
		}
		return
	}
	g.WriteString("当前可配置选项：")
	for i, info := range m.options.Infos() {
		g.Printf("\n%d. %s", i+2, info)
	}
}

func convertCode(code game.Code) lgtbot.ErrCode {
	switch code {
	case game.OK:
		return lgtbot.EC_GAME_REQUEST_OK
	case game.CHECKOUT:
		return lgtbot.EC_GAME_REQUEST_CHECKOUT
	case game.FAILED:
		return lgtbot.EC_GAME_REQUEST_FAILED
	case game.NOT_FOUND:
		return lgtbot.EC_GAME_REQUEST_NOT_FOUND
	default:
		return lgtbot.EC_GAME_REQUEST_UNKNOWN
	}
}

// routine lets the computer seats act until every one of them passes
// in a row, then settles the match if the main stage ended.
func (m *Match) routine() {
	if m.main.IsOver() {
		m.onGameOver()
		return
	}
	userNum := int(m.userNum())
	comNum := len(m.players) - userNum
	okCount := 0
	for i := 0; comNum > 0 && !m.main.IsOver() && okCount < comNum; i = (i + 1) % comNum {
		if m.main.HandleComputerAct(lgtbot.PlayerID(userNum+i)) == game.OK {
			okCount++
		} else {
			okCount = 0
		}
	}
	if m.main.IsOver() {
		m.onGameOver()
	}
}

func (m *Match) onGameOver() {
	m.state = IsOver
	scores := m.main.PlayerScores()

	g := m.broadcast.Open()
	g.WriteString("游戏结束，公布分数：\n")
	var userScores []userScore
	for pid := range m.players {
		g.Printf("%s %d\n", m.AtPlayer(lgtbot.PlayerID(pid)), scores[pid])
		if !m.players[pid].computer {
			userScores = append(userScores, userScore{uid: m.players[pid].uid, score: scores[pid]})
		}
	}
	g.WriteString("感谢诸位参与！")

	sort.SliceStable(userScores, func(i, j int) bool { return userScores[i].score > userScores[j].score })

	switch {
	case len(userScores) <= 1:
		g.WriteString("\n\n游戏结果不记录：因为玩家数小于2")
	case m.database == nil:
		g.WriteString("\n\n游戏结果不记录：因为未连接数据库")
	case m.multiple == 0:
		g.WriteString("\n\n游戏结果不记录：因为该游戏为试玩游戏")
	default:
		infos := calScores(userScores, m.multiple)
		err := m.database.RecordMatch(context.Background(), &db.MatchResult{
			GameName:     m.info.Name,
			GroupID:      m.gid,
			HostUID:      m.hostUID,
			Multiple:     m.multiple,
			Scores:       infos,
			Achievements: m.achievements,
		})
		if err != nil {
			lgtbot.Debug.Print(err)
			g.WriteString("\n\n[错误] 游戏结果写入数据库失败，请联系管理员")
			break
		}
		g.WriteString("\n\n游戏结果写入数据库成功：")
		showScore := func(name string, score int64) string {
			if score > 0 {
				return fmt.Sprintf("[%s+%d] ", name, score)
			}
			return fmt.Sprintf("[%s%d] ", name, score)
		}
		for _, info := range infos {
			g.Printf("\n%s：%s%s", m.broadcast.At(info.UID),
				showScore("零和", info.ZeroSumScore), showScore("头名", info.TopScore))
		}
	}
	g.Close()
	m.terminate()
}

// ---- teardown ----

func (m *Match) Terminate(force bool) lgtbot.ErrCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if force || m.state == NotStarted {
		g := m.broadcastAtAll()
		g.WriteString("游戏已解散，谢谢大家参与")
		g.Close()
		if m.state == IsStarted {
			m.state = IsOver
		}
		m.terminate()
		return lgtbot.EC_OK
	}
	return lgtbot.EC_MATCH_ALREADY_BEGIN
}

// terminate unbinds everything from the registry; requires the lock.
func (m *Match) terminate() {
	m.StopTimer()
	for uid := range m.users {
		m.registry.unbindUser(uid)
	}
	m.users = make(map[lgtbot.UserID]*participant)
	m.registry.unbindMatch(m.mid, m.gid)
}

// ---- information ----

func (m *Match) ShowInfo(reply msg.Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := reply.Open()
	defer g.Close()
	g.Printf("游戏名称：%s\n", m.info.Name)
	g.Printf("电脑数量：%d\n", m.comNum())
	if m.state == NotStarted {
		g.WriteString("游戏状态：未开始\n")
	} else {
		g.WriteString("游戏状态：已开始\n")
	}
	if m.gid != 0 {
		g.Printf("房间号：%d\n", uint64(m.gid))
	} else {
		g.WriteString("房间号：私密游戏\n")
	}
	if m.info.MaxPlayerNum == 0 {
		g.WriteString("最多可参加人数：无限制\n")
	} else {
		g.Printf("最多可参加人数：%d人\n", m.info.MaxPlayerNum)
	}
	g.Printf("房主：玩家%d", uint64(m.hostUID))
	if m.state == IsStarted {
		g.Printf("\n玩家列表：%d人", len(m.players))
		for pid := range m.players {
			g.Printf("\n%d号：%s", pid, m.PlayerName(lgtbot.PlayerID(pid)))
		}
	} else {
		g.Printf("\n当前报名玩家：%d人", len(m.users))
		for _, uid := range m.sortedUIDs() {
			g.Printf("\n玩家%d", uint64(uid))
		}
	}
}

func (m *Match) replyf(reply msg.Sender, format string, args ...any) {
	g := reply.Open()
	g.Printf(format, args...)
	g.Close()
}
