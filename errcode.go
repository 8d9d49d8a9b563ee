// Request error taxonomy
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package lgtbot

import "fmt"

// ErrCode is the result of handling one inbound request.  The names
// are contractual: the chat frontend maps them to whatever observable
// behaviour it chooses.
type ErrCode int

const (
	EC_OK ErrCode = iota

	EC_REQUEST_EMPTY
	EC_REQUEST_NOT_ADMIN

	EC_MATCH_USER_NOT_IN_MATCH
	EC_MATCH_NOT_THIS_GROUP
	EC_MATCH_USER_ALREADY_IN_MATCH
	EC_MATCH_USER_ALREADY_IN_OTHER_MATCH
	EC_MATCH_GROUP_ALREADY_HAS_MATCH
	EC_MATCH_ACHIEVE_MAX_PLAYER
	EC_MATCH_NOT_HOST
	EC_MATCH_ALREADY_BEGIN
	EC_MATCH_ALREADY_OVER
	EC_MATCH_SCORE_NOT_ENOUGH
	EC_MATCH_ELIMINATED
	EC_MATCH_UNEXPECTED_CONFIG

	EC_GAME_REQUEST_OK
	EC_GAME_REQUEST_CHECKOUT
	EC_GAME_REQUEST_FAILED
	EC_GAME_REQUEST_NOT_FOUND
	EC_GAME_REQUEST_UNKNOWN

	EC_GAME_NOT_FOUND

	EC_NOT_INIT
)

var ecNames = map[ErrCode]string{
	EC_OK:                                "OK",
	EC_REQUEST_EMPTY:                     "REQUEST_EMPTY",
	EC_REQUEST_NOT_ADMIN:                 "REQUEST_NOT_ADMIN",
	EC_MATCH_USER_NOT_IN_MATCH:           "MATCH_USER_NOT_IN_MATCH",
	EC_MATCH_NOT_THIS_GROUP:              "MATCH_NOT_THIS_GROUP",
	EC_MATCH_USER_ALREADY_IN_MATCH:       "MATCH_USER_ALREADY_IN_MATCH",
	EC_MATCH_USER_ALREADY_IN_OTHER_MATCH: "MATCH_USER_ALREADY_IN_OTHER_MATCH",
	EC_MATCH_GROUP_ALREADY_HAS_MATCH:     "MATCH_GROUP_ALREADY_HAS_MATCH",
	EC_MATCH_ACHIEVE_MAX_PLAYER:          "MATCH_ACHIEVE_MAX_PLAYER",
	EC_MATCH_NOT_HOST:                    "MATCH_NOT_HOST",
	EC_MATCH_ALREADY_BEGIN:               "MATCH_ALREADY_BEGIN",
	EC_MATCH_ALREADY_OVER:                "MATCH_ALREADY_OVER",
	EC_MATCH_SCORE_NOT_ENOUGH:            "MATCH_SCORE_NOT_ENOUGH",
	EC_MATCH_ELIMINATED:                  "MATCH_ELIMINATED",
	EC_MATCH_UNEXPECTED_CONFIG:           "MATCH_UNEXPECTED_CONFIG",
	EC_GAME_REQUEST_OK:                   "GAME_REQUEST_OK",
	EC_GAME_REQUEST_CHECKOUT:             "GAME_REQUEST_CHECKOUT",
	EC_GAME_REQUEST_FAILED:               "GAME_REQUEST_FAILED",
	EC_GAME_REQUEST_NOT_FOUND:            "GAME_REQUEST_NOT_FOUND",
	EC_GAME_REQUEST_UNKNOWN:              "GAME_REQUEST_UNKNOWN",
	EC_GAME_NOT_FOUND:                    "GAME_NOT_FOUND",
	EC_NOT_INIT:                          "NOT_INIT",
}

func (ec ErrCode) String() string {
	if name, ok := ecNames[ec]; ok {
		return name
	}
	return fmt.Sprintf("ErrCode(%d)", int(ec))
}

// Ok reports whether the request was accepted in some form.
func (ec ErrCode) Ok() bool {
	return ec == EC_OK || ec == EC_GAME_REQUEST_OK || ec == EC_GAME_REQUEST_CHECKOUT
}
