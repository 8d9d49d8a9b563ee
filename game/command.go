// In-game command binding
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

import (
	lgtbot "github.com/kester2000/lgtbot"
	"github.com/kester2000/lgtbot/command"
	"github.com/kester2000/lgtbot/msg"
)

// Handler runs a matched in-game action for one player.
type Handler func(pid lgtbot.PlayerID, public bool, reply msg.Sender, args command.Args) Code

// Command ties a command form to its in-game handler.
type Command struct {
	Spec    command.Spec
	Handler Handler
}

func NewCommand(descr string, handler Handler, checkers ...command.Checker) Command {
	return Command{Spec: command.NewSpec(descr, checkers...), Handler: handler}
}

// dispatch tries each command against the request in turn.  It returns
// NOT_FOUND when nothing matched.
func dispatch(cmds []Command, r *command.Reader, pid lgtbot.PlayerID, public bool, reply msg.Sender) (Code, bool) {
	for i := range cmds {
		if args, mis := command.Match(r, cmds[i].Spec.Checkers); mis == nil {
			return cmds[i].Handler(pid, public, reply, args), true
		}
	}
	return NOT_FOUND, false
}

func commandInfos(cmds []Command, withExample bool) []string {
	infos := make([]string, 0, len(cmds))
	for i := range cmds {
		infos = append(infos, cmds[i].Spec.Info(withExample))
	}
	return infos
}
