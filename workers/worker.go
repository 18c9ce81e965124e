// Package workers implements the concurrent worker graph of spec.md §4.G:
// a set of cooperating, message-passing workers — a reader-tap (stream
// saver), a tokenizer worker, and N fan-out observers — each owning
// exactly one inbox, coordinated through a poison-pill sentinel message
// rather than shared mutable state.
//
// Grounded on the Worker/Thread + queue.Queue pair in
// original_source/auditok/workers.py, translated to a goroutine per
// worker and a buffered Go channel as its inbox. The finite-timeout
// receive of spec.md §5 is implemented with time.After rather than a
// blocking channel read, so a worker's loop can also be extended with a
// context.Context cancellation check in future iterations.
package workers

import (
	"time"

	"github.com/amsehili/auditok-go/region"
)

// DefaultTimeout is the default inbox receive timeout (spec.md §5 "Inbox
// receive always has a finite timeout (default 200 ms)").
const DefaultTimeout = 200 * time.Millisecond

// Detection is the sequential id plus timing metadata spec.md §3 assigns
// to each emitted event (the tuple {id, start, end, duration}).
type Detection struct {
	ID        int
	Start     float64
	End       float64
	Duration  float64
	Timestamp time.Time
}

// Message is what flows through every worker's inbox: one detected region
// tagged with its Detection metadata, or the poison pill (Stop == true).
type Message struct {
	Detection Detection
	Region    region.Region
	Stop      bool
}

// PoisonPill is the distinguished shutdown message (spec.md §3 "Workers:
// spawned by a driver, each owns an in-queue; a distinguished poison-pill
// message requests shutdown").
var PoisonPill = Message{Stop: true}

// Worker is the capability every graph participant exposes to its driver:
// accept messages, and shut down cleanly.
type Worker interface {
	Send(Message)
	Stop()
}

// base implements the common Worker mechanics: one inbox, one goroutine,
// a process callback per message and a post-process hook run once on
// shutdown (matching Worker.run/_process_message/_post_process in
// workers.py).
type base struct {
	inbox       chan Message
	done        chan struct{}
	timeout     time.Duration
	process     func(Message)
	postProcess func()
}

func newBase(timeout time.Duration, process func(Message), postProcess func()) *base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	b := &base{
		inbox:       make(chan Message, 256),
		done:        make(chan struct{}),
		timeout:     timeout,
		process:     process,
		postProcess: postProcess,
	}
	go b.run()
	return b
}

func (b *base) run() {
	defer close(b.done)
	for {
		select {
		case msg := <-b.inbox:
			if msg.Stop {
				b.drainAndPostProcess(false)
				return
			}
			b.process(msg)
		case <-time.After(b.timeout):
			// idle tick: keeps cancellation prompt per spec.md §5 even
			// when no messages are arriving.
		}
	}
}

// drainAndPostProcess best-effort drains any messages already queued
// ahead of shutdown (spec.md §3 "a worker drains its queue (best effort)
// before exit") before running the post-process hook.
func (b *base) drainAndPostProcess(_ bool) {
	for {
		select {
		case msg := <-b.inbox:
			if !msg.Stop {
				b.process(msg)
			}
		default:
			if b.postProcess != nil {
				b.postProcess()
			}
			return
		}
	}
}

func (b *base) Send(msg Message) { b.inbox <- msg }

// Stop sends the poison pill and blocks until the worker's goroutine has
// finished draining and running its post-process hook, matching
// Worker.stop's send-then-join in workers.py.
func (b *base) Stop() {
	b.inbox <- PoisonPill
	<-b.done
}
