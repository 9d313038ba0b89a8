// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

// DefaultMaxDepth bounds synchronous task nesting before a task is
// aborted with [ErrStackOverflow].
const DefaultMaxDepth = 10000

// Options configures a [Runtime].
type Options struct {
	// Channel is shared by every task of the runtime. A fresh channel is
	// created when nil.
	Channel *Channel

	// Logger receives diagnostics. Defaults to NopLogger.
	Logger Logger

	// MaxDepth bounds synchronous nesting. Defaults to DefaultMaxDepth.
	MaxDepth int

	// Labels are attached to every root task.
	Labels Labels
}

// WithChannel sets the channel shared by the runtime's tasks.
func WithChannel(ch *Channel) func(o *Options) {
	return func(o *Options) { o.Channel = ch }
}

// WithLogger sets the runtime logger.
func WithLogger(l Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMaxDepth sets the synchronous nesting limit.
func WithMaxDepth(n int) func(o *Options) {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLabels sets the labels of root tasks.
func WithLabels(l Labels) func(o *Options) {
	return func(o *Options) { o.Labels = l }
}
