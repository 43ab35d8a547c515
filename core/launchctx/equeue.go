package launchctx

import (
	"container/list"
	"context"
	"sync"

	"github.com/launchkit/launch/core/launchevent"
)

// equeue is the FIFO event queue backing a Context. It is implemented with
// a mutex-guarded list rather than a Go channel because spec.md §4.C
// requires two distinct enqueue entry points sharing the same underlying
// storage: EmitEventSync must always be non-blocking (even once the queue is
// "full", when a capacity is configured), while EmitEvent must actually
// suspend the caller when that capacity is reached. A single buffered
// channel can give you one of those for free but not both at once without
// duplicating the full/non-full bookkeeping a second time.
type equeue struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond
	items    *list.List
	capacity int // 0 = unbounded
	closed   bool

	// liveHook reports how many processes are currently registered with the
	// owning Context. Take uses it to recognize a naturally drained runtime
	// (empty queue, nothing left that could ever enqueue another event) and
	// return rather than block forever, per spec.md §4.E.
	liveHook func() int
}

func newEQueue(capacity int) *equeue {
	q := &equeue{
		items:    list.New(),
		capacity: capacity,
	}
	q.notEmpty.L = &q.mu
	q.notFull.L = &q.mu
	return q
}

// setLiveHook installs the callback Take consults to detect natural drain.
// Called once, from Context's constructor.
func (q *equeue) setLiveHook(f func() int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.liveHook = f
}

// wake rechecks Take's wait condition; called after a live process is
// unregistered, since that alone doesn't push anything for notEmpty to
// naturally wake on.
func (q *equeue) wake() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notEmpty.Broadcast()
}

// PushSync enqueues an event without blocking, regardless of capacity. This
// is the realization of EmitEventSync: safe from any goroutine, including
// I/O pump callbacks that must never block on a full dispatch queue.
func (q *equeue) PushSync(e launchevent.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items.PushBack(e)
	q.notEmpty.Signal()
}

// Push enqueues an event, suspending the caller while the queue is at
// capacity. With the default unbounded capacity (0) this never blocks and is
// behaviorally identical to PushSync, per spec.md §9's note that an
// unbounded queue makes the two enqueue variants equivalent.
func (q *equeue) Push(ctx context.Context, e launchevent.Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && q.items.Len() >= q.capacity && !q.closed {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// sync.Cond has no context-aware wait; a waiter goroutine pokes
		// notFull whenever ctx is done so Wait() below can re-check it.
		done := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notFull.Broadcast()
			q.mu.Unlock()
			close(done)
		})
		q.notFull.Wait()
		stop()
		select {
		case <-done:
		default:
		}
	}
	if q.closed {
		return ErrQueueClosed
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	q.items.PushBack(e)
	q.notEmpty.Signal()
	return nil
}

// Take suspends until an event is available (or ctx is cancelled, the queue
// is closed with nothing left to drain, or the runtime has naturally
// drained: nothing queued and no live process left that could ever enqueue
// another event) and returns it.
func (q *equeue) Take(ctx context.Context) (launchevent.Event, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 && !q.closed {
		if q.liveHook != nil && q.liveHook() == 0 {
			return launchevent.Event{}, false, nil
		}
		if ctx.Err() != nil {
			return launchevent.Event{}, false, ctx.Err()
		}
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		})
		q.notEmpty.Wait()
		stop()
	}

	if q.items.Len() == 0 {
		return launchevent.Event{}, false, nil
	}

	front := q.items.Front()
	q.items.Remove(front)
	q.notFull.Signal()
	return front.Value.(launchevent.Event), true, nil
}

// Len reports the number of events currently queued.
func (q *equeue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close marks the queue closed; pending Take calls drain remaining items
// first, then return ok=false.
func (q *equeue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}
