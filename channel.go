// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"slices"
)

// taker is a pending take registration.
type taker struct {
	cb     func(Action)
	match  Matcher
	remove func()
}

type subscriber struct {
	cb func(Action)
}

// Channel is a multicast, pattern-filtered mailbox.
//
// A put is delivered to every pending taker whose matcher accepts it,
// in registration order, and those takers are removed. Delivery iterates
// a stable snapshot: registrations and removals made by one taker do not
// affect its siblings for the same put, unless it closes c, which ends the
// delivery. Subscribers observe every action.
//
// Channel is owned by the loop goroutine. Its scheduler serializes
// re-entrant puts.
type Channel struct {
	current     []*taker
	next        []*taker
	shared      bool
	subscribers []*subscriber
	scheduler   *Scheduler
	closed      bool
}

// NewChannel returns an open channel with its own scheduler.
func NewChannel() *Channel {
	return &Channel{scheduler: NewScheduler(), shared: true}
}

// Scheduler returns the scheduler that orders deliveries on c.
func (c *Channel) Scheduler() *Scheduler { return c.scheduler }

// Closed reports whether c has been closed.
func (c *Channel) Closed() bool { return c.closed }

// Len returns the number of pending takers.
func (c *Channel) Len() int { return len(c.next) }

// Put schedules delivery of a. A put issued while another delivery is in
// progress runs after it. An action of type [EndType] closes c.
// Panics raised by takers or subscribers propagate to the caller that
// triggered the flush.
func (c *Channel) Put(a Action) {
	c.scheduler.Asap(func() {
		c.deliver(a)
	})
}

// Take registers cb for the next action accepted by match and returns a
// function that cancels the registration. On a closed channel cb
// receives [End] immediately.
func (c *Channel) Take(cb func(Action), match Matcher) (cancel func()) {
	if c.closed {
		cb(End)
		return func() {}
	}
	t := &taker{cb: cb, match: match}
	removed := false
	t.remove = func() {
		if removed {
			return
		}
		removed = true
		c.mutable()
		c.next = slices.DeleteFunc(c.next, func(x *taker) bool { return x == t })
	}
	c.mutable()
	c.next = append(c.next, t)
	return t.remove
}

// Subscribe registers cb to observe every delivered action.
func (c *Channel) Subscribe(cb func(Action)) (unsubscribe func()) {
	s := &subscriber{cb: cb}
	c.subscribers = append(c.subscribers, s)
	return func() {
		c.subscribers = slices.DeleteFunc(c.subscribers, func(x *subscriber) bool { return x == s })
	}
}

// Close marks c closed and flushes [End] to every pending taker.
// Subsequent puts are dropped and subsequent takes end immediately.
func (c *Channel) Close() {
	if c.closed {
		return
	}
	c.closed = true
	takers := c.next
	c.current = takers
	c.next = nil
	c.shared = false
	for _, t := range takers {
		t.cb(End)
	}
}

func (c *Channel) deliver(a Action) {
	if c.closed {
		return
	}
	if isEnd(a) {
		c.Close()
		return
	}
	c.current = c.next
	c.shared = true
	for _, t := range c.current {
		if c.closed {
			// Close already flushed the rest of the snapshot.
			break
		}
		if t.match == nil || !t.match(a) {
			continue
		}
		t.remove()
		t.cb(a)
	}
	for _, s := range slices.Clone(c.subscribers) {
		s.cb(a)
	}
}

// mutable detaches next from the snapshot being delivered.
func (c *Channel) mutable() {
	if !c.shared {
		return
	}
	c.next = slices.Clone(c.next)
	c.shared = false
}
