// Command matching and help rendering
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package command

import (
	"fmt"
	"strings"
)

// Args is the typed argument tuple produced by a checker chain.
type Args []any

func (a Args) Int(i int) int64   { return a[i].(int64) }
func (a Args) Str(i int) string  { return a[i].(string) }
func (a Args) Bool(i int) bool   { return a[i].(bool) }
func (a Args) Slice(i int) []any { return a[i].([]any) }

// Mismatch describes why a checker chain rejected a request.  The
// position is the index of the offending token.
type Mismatch struct {
	Pos      int
	Expected string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("第 %d 个参数与期望的 %s 不符", m.Pos+1, m.Expected)
}

// Match runs the checker chain against the reader.  It succeeds only
// if every checker matches and the whole request is consumed; on
// failure the reader is rewound to where it started.
func Match(r *Reader, checkers []Checker) (Args, *Mismatch) {
	start := r.Pos()
	var args Args
	for _, c := range checkers {
		pos := r.Pos()
		v, hasArg, ok := c.Check(r)
		if !ok {
			r.Seek(start)
			return nil, &Mismatch{Pos: pos, Expected: c.Format()}
		}
		if hasArg {
			args = append(args, v)
		}
	}
	if r.HasMore() {
		m := &Mismatch{Pos: r.Pos(), Expected: "命令结束"}
		r.Seek(start)
		return nil, m
	}
	return args, nil
}

// Spec is the static description of one callable action: a help
// string plus the ordered checker chain.  The handler is attached by
// the surface that owns the command (stage command, meta command),
// since their call signatures differ.
type Spec struct {
	Descr    string
	Checkers []Checker
}

func NewSpec(descr string, checkers ...Checker) Spec {
	return Spec{Descr: descr, Checkers: checkers}
}

// Info renders a one-line description of the command form, optionally
// with a usage example.
func (s *Spec) Info(withExample bool) string {
	var b strings.Builder
	b.WriteString(s.Descr)
	b.WriteString("：")
	for i, c := range s.Checkers {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Format())
	}
	if withExample {
		b.WriteString("（例如「")
		for i, c := range s.Checkers {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c.Example())
		}
		b.WriteString("」）")
	}
	return b.String()
}
