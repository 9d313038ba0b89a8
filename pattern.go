// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
)

// Action is a message carried by a [Channel].
type Action struct {
	Type    any
	Payload any
}

// EndType is the reserved action type that closes a channel.
const EndType = "@@fx/channel_end"

// End is the action delivered to takers of a closed channel.
var End = Action{Type: EndType}

func isEnd(a Action) bool {
	s, ok := a.Type.(string)
	return ok && s == EndType
}

// Symbol is an action type that matches only itself.
type Symbol struct {
	name string
}

// NewSymbol returns a fresh symbol. Two symbols with the same name are distinct.
func NewSymbol(name string) *Symbol {
	return &Symbol{name: name}
}

func (s *Symbol) String() string { return "Symbol(" + s.name + ")" }

// Matcher is an action predicate.
type Matcher func(Action) bool

// Match builds a matcher from a pattern:
//
//   - "*" matches every action.
//   - A string matches actions whose Type is that string.
//   - A [*Symbol] matches actions whose Type is that symbol.
//   - A [Matcher] or func(Action) bool is used as is.
//   - A [fmt.Stringer] matches by its String value, so action creators
//     can stand in for their type.
//   - A slice of patterns matches if any element matches.
func Match(pattern any) (Matcher, error) {
	switch p := pattern.(type) {
	case string:
		if p == "*" {
			return matchAll, nil
		}
		return matchType(p), nil
	case *Symbol:
		return func(a Action) bool {
			s, ok := a.Type.(*Symbol)
			return ok && s == p
		}, nil
	case Matcher:
		if p == nil {
			break
		}
		return p, nil
	case func(Action) bool:
		if p == nil {
			break
		}
		return p, nil
	case []string:
		ms := make([]Matcher, len(p))
		for i, s := range p {
			m, err := Match(s)
			if err != nil {
				return nil, err
			}
			ms[i] = m
		}
		return matchAny(ms), nil
	case []Matcher:
		return Match(toAny(p))
	case []any:
		ms := make([]Matcher, len(p))
		for i, s := range p {
			m, err := Match(s)
			if err != nil {
				return nil, err
			}
			ms[i] = m
		}
		return matchAny(ms), nil
	case fmt.Stringer:
		return matchType(p.String()), nil
	}
	return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidPattern, pattern, pattern)
}

func matchAll(Action) bool { return true }

func matchType(t string) Matcher {
	return func(a Action) bool {
		s, ok := a.Type.(string)
		return ok && s == t
	}
}

func matchAny(ms []Matcher) Matcher {
	return func(a Action) bool {
		for _, m := range ms {
			if m(a) {
				return true
			}
		}
		return false
	}
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
