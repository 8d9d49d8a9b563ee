// Pre-start game configuration
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package game

import (
	"github.com/kester2000/lgtbot/command"
)

// OptionItem is one configurable knob of a game, settable before the
// match starts with the same checker machinery as in-game commands.
type OptionItem struct {
	Spec  command.Spec
	Apply func(args command.Args)
	Show  func() string
}

// Options carries the configuration of one match.  Games populate the
// item table in their option constructor; PlayerNum and ResourceDir
// are filled in by the match before the main stage is built.  Custom
// holds the game's own option values so the main stage constructor can
// read back what the items wrote.
type Options struct {
	PlayerNum   int
	ResourceDir string
	Custom      any
	items       []OptionItem
}

func (o *Options) Add(descr string, apply func(command.Args), show func() string, checkers ...command.Checker) {
	o.items = append(o.items, OptionItem{
		Spec:  command.NewSpec(descr, checkers...),
		Apply: apply,
		Show:  show,
	})
}

// Set tries the text against every item and applies the first match.
func (o *Options) Set(text string) bool {
	for i := range o.items {
		r := command.NewReader(text)
		if args, mis := command.Match(r, o.items[i].Spec.Checkers); mis == nil {
			o.items[i].Apply(args)
			return true
		}
	}
	return false
}

// Infos renders every item with its current value.
func (o *Options) Infos() []string {
	infos := make([]string, 0, len(o.items))
	for i := range o.items {
		line := o.items[i].Spec.Info(false)
		if o.items[i].Show != nil {
			line += "（当前：" + o.items[i].Show() + "）"
		}
		infos = append(infos, line)
	}
	return infos
}
