// Request tokenisation
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package command

import "strings"

// Reader walks the whitespace-delimited tokens of one request.  The
// cursor can be saved and restored so that several commands may try to
// match the same input in turn.
type Reader struct {
	tokens []string
	pos    int
}

func NewReader(msg string) *Reader {
	return &Reader{tokens: strings.Fields(msg)}
}

// HasMore reports whether any token is left to consume.
func (r *Reader) HasMore() bool { return r.pos < len(r.tokens) }

// Peek returns the next token without consuming it.
func (r *Reader) Peek() (string, bool) {
	if !r.HasMore() {
		return "", false
	}
	return r.tokens[r.pos], true
}

// Next consumes and returns the next token.
func (r *Reader) Next() (string, bool) {
	tok, ok := r.Peek()
	if ok {
		r.pos++
	}
	return tok, ok
}

// Pos returns the current token index, used for positional diagnostics
// and for rewinding after a failed match.
func (r *Reader) Pos() int { return r.pos }

// Seek rewinds (or advances) the cursor to an index previously
// obtained from Pos.
func (r *Reader) Seek(pos int) { r.pos = pos }

// Remaining returns the tokens that have not been consumed yet.
func (r *Reader) Remaining() []string { return r.tokens[r.pos:] }

// Empty reports whether the request contained no tokens at all.
func (r *Reader) Empty() bool { return len(r.tokens) == 0 }
