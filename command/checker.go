// Argument checkers
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package command

import (
	"fmt"
	"strconv"
	"strings"
)

// A Checker consumes zero or more tokens from a reader and yields a
// typed value, or rejects.  On rejection the reader position is
// unspecified; the caller is expected to rewind.
type Checker interface {
	// Check consumes tokens and returns the parsed value.  Checkers
	// that match pure syntax (keywords) return hasArg == false so that
	// no slot is appended to the argument tuple.
	Check(r *Reader) (value any, hasArg bool, ok bool)

	// Format describes the expected form, e.g. "<数字: 1～6>".
	Format() string

	// Example yields a sample token sequence used in help text.
	Example() string
}

// Keyword matches one literal token and produces no argument.
type Keyword string

func (k Keyword) Check(r *Reader) (any, bool, bool) {
	tok, ok := r.Next()
	return nil, false, ok && tok == string(k)
}

func (k Keyword) Format() string  { return string(k) }
func (k Keyword) Example() string { return string(k) }

// Int matches one integer token within [Min, Max] and yields an int64.
type Int struct {
	Name     string
	Min, Max int64
}

func (c *Int) Check(r *Reader) (any, bool, bool) {
	tok, ok := r.Next()
	if !ok {
		return nil, true, false
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || v < c.Min || v > c.Max {
		return nil, true, false
	}
	return v, true, true
}

func (c *Int) Format() string {
	return fmt.Sprintf("<%s: %d～%d>", c.Name, c.Min, c.Max)
}

func (c *Int) Example() string { return strconv.FormatInt(c.Min, 10) }

// Enum matches one of a fixed set of words and yields the matched word.
type Enum struct {
	Name  string
	Alts  []string
}

func (c *Enum) Check(r *Reader) (any, bool, bool) {
	tok, ok := r.Next()
	if !ok {
		return nil, true, false
	}
	for _, alt := range c.Alts {
		if tok == alt {
			return tok, true, true
		}
	}
	return nil, true, false
}

func (c *Enum) Format() string {
	return "<" + c.Name + ": " + strings.Join(c.Alts, "｜") + ">"
}

func (c *Enum) Example() string { return c.Alts[0] }

// Bool matches one of two words, mapping the first to true and the
// second to false.
type Bool struct {
	Name        string
	True, False string
}

func (c *Bool) Check(r *Reader) (any, bool, bool) {
	tok, ok := r.Next()
	if !ok {
		return nil, true, false
	}
	switch tok {
	case c.True:
		return true, true, true
	case c.False:
		return false, true, true
	}
	return nil, true, false
}

func (c *Bool) Format() string {
	return "<" + c.Name + ": " + c.True + "｜" + c.False + ">"
}

func (c *Bool) Example() string { return c.True }

// AnyArg matches any single token and yields it as a string.
type AnyArg struct {
	Name string
}

func (c *AnyArg) Check(r *Reader) (any, bool, bool) {
	tok, ok := r.Next()
	return tok, true, ok
}

func (c *AnyArg) Format() string  { return "<" + c.Name + ">" }
func (c *AnyArg) Example() string { return c.Name }

// Flag matches an optional literal word and yields whether it was
// present.  It never rejects.
type Flag string

func (f Flag) Check(r *Reader) (any, bool, bool) {
	pos := r.Pos()
	if tok, ok := r.Next(); ok && tok == string(f) {
		return true, true, true
	}
	r.Seek(pos)
	return false, true, true
}

func (f Flag) Format() string  { return "[" + string(f) + "]" }
func (f Flag) Example() string { return string(f) }

// Optional wraps an argument-yielding checker; absence of input (or a
// non-matching token) yields Default without consuming anything.  Use
// Flag for optional keywords.
type Optional struct {
	Inner   Checker
	Default any
}

func (c *Optional) Check(r *Reader) (any, bool, bool) {
	pos := r.Pos()
	v, hasArg, ok := c.Inner.Check(r)
	if ok {
		return v, hasArg, true
	}
	r.Seek(pos)
	return c.Default, true, true
}

func (c *Optional) Format() string  { return "[" + c.Inner.Format() + "]" }
func (c *Optional) Example() string { return c.Inner.Example() }

// Repeat applies the inner checker until it stops matching, yielding a
// slice of values.  Zero matches is acceptable.
type Repeat struct {
	Inner Checker
}

func (c *Repeat) Check(r *Reader) (any, bool, bool) {
	var values []any
	for {
		pos := r.Pos()
		v, _, ok := c.Inner.Check(r)
		if !ok {
			r.Seek(pos)
			return values, true, true
		}
		values = append(values, v)
	}
}

func (c *Repeat) Format() string  { return c.Inner.Format() + "..." }
func (c *Repeat) Example() string { return c.Inner.Example() }
