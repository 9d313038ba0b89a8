// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"code.hybscloud.com/lfq"
)

// schedulerCapacity is the bounded ring size for deferred work.
// Bursts beyond it spill into an overflow slice that keeps FIFO order.
const schedulerCapacity = 64

// Scheduler is a counting-semaphore gated FIFO executor.
//
// Work scheduled with Asap while another unit of work holds the semaphore
// is queued and runs after that unit finishes, never nested inside it.
// This bounds stack growth for chains of synchronous puts and keeps a
// single global delivery order.
//
// A Scheduler is owned by the loop goroutine and is not safe for
// concurrent use. The ring is an lfq SPSC queue whose producer and
// consumer are both the loop goroutine.
type Scheduler struct {
	ring      lfq.SPSC[func()]
	overflow  []func()
	queued    int
	semaphore int
}

// NewScheduler returns a released scheduler with an empty queue.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.ring.Init(schedulerCapacity)
	return s
}

// Exec runs fn atomically: work scheduled during fn is queued and
// flushed once the scheduler is released again.
func (s *Scheduler) Exec(fn func()) {
	s.Suspend()
	defer s.Release()
	fn()
}

// Asap runs fn now if the scheduler is released, or queues it otherwise.
func (s *Scheduler) Asap(fn func()) {
	s.push(fn)
	if s.semaphore == 0 {
		s.Suspend()
		s.Flush()
	}
}

// Immediately suspends the scheduler, runs fn, then flushes the queue.
func (s *Scheduler) Immediately(fn func()) {
	s.Suspend()
	defer s.Flush()
	fn()
}

// Suspend takes one lock. Scheduled work is queued until every lock is released.
func (s *Scheduler) Suspend() {
	s.semaphore++
}

// Release drops one lock without flushing.
func (s *Scheduler) Release() {
	s.semaphore--
}

// Flush releases one lock and, if no lock remains, runs queued work in
// FIFO order until the queue is empty or a unit of work suspends again.
func (s *Scheduler) Flush() {
	s.Release()
	for s.semaphore == 0 {
		fn, ok := s.pop()
		if !ok {
			return
		}
		s.Exec(fn)
	}
}

// Suspended reports whether at least one lock is held.
func (s *Scheduler) Suspended() bool {
	return s.semaphore > 0
}

// Len returns the number of queued units of work.
func (s *Scheduler) Len() int {
	return s.queued
}

func (s *Scheduler) push(fn func()) {
	s.queued++
	if len(s.overflow) == 0 {
		if err := s.ring.Enqueue(&fn); err == nil {
			return
		}
	}
	s.overflow = append(s.overflow, fn)
}

func (s *Scheduler) pop() (func(), bool) {
	fn, err := s.ring.Dequeue()
	if err == nil {
		s.queued--
		return fn, true
	}
	if len(s.overflow) == 0 {
		return nil, false
	}
	fn = s.overflow[0]
	s.overflow[0] = nil
	s.overflow = s.overflow[1:]
	s.queued--
	return fn, true
}
