// Gateway wire format
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

// Package proto speaks the chat-platform side of the bot.  Platform
// adapters connect to the gateway over a websocket and exchange JSON
// frames: the adapter pushes message events, the gateway pushes send
// actions.  The frame layout follows the OneBot convention, so any
// stock QQ adapter can be pointed at the gateway without glue code.
package proto

import (
	lgtbot "github.com/kester2000/lgtbot"
)

// Event is a frame pushed by the platform adapter.  Frames whose
// PostType is not "message" (heartbeats, notices) are ignored.
type Event struct {
	PostType    string `json:"post_type"`
	MessageType string `json:"message_type"` // "group" or "private"
	GroupID     uint64 `json:"group_id,omitempty"`
	UserID      uint64 `json:"user_id"`
	Message     string `json:"message"`
}

// Action is a frame pushed to the platform adapter.
type Action struct {
	Action string       `json:"action"` // "send_private_msg" or "send_group_msg"
	Params ActionParams `json:"params"`
}

type ActionParams struct {
	UserID  uint64 `json:"user_id,omitempty"`
	GroupID uint64 `json:"group_id,omitempty"`
	Message string `json:"message"`
}

func tellAction(uid lgtbot.UserID, text string) Action {
	return Action{
		Action: "send_private_msg",
		Params: ActionParams{UserID: uint64(uid), Message: text},
	}
}

func broadcastAction(gid lgtbot.GroupID, text string) Action {
	return Action{
		Action: "send_group_msg",
		Params: ActionParams{GroupID: uint64(gid), Message: text},
	}
}
