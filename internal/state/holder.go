package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/wanreader/internal/result"
)

// Phase is the lifecycle position of one operation.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// OperationState is the observable state of one operation kind. Value is
// only meaningful in Success and Message only in Error.
type OperationState[T any] struct {
	Phase   Phase
	Value   T
	Message string
	Seq     uint64
	Updated time.Time
}

// Terminal reports whether the state is Success or Error.
func (s OperationState[T]) Terminal() bool {
	return s.Phase == Success || s.Phase == Error
}

// Holder keeps the latest state of one operation kind and broadcasts every
// transition to its subscribers in order. The zero value starts Idle and is
// ready to use.
type Holder[T any] struct {
	mu    sync.Mutex
	state OperationState[T]
	seq   uint64
	subs  map[*Subscription[T]]struct{}
}

// Begin moves to Loading and returns the sequence number that identifies
// this attempt. Any earlier attempt still in flight is superseded.
func (h *Holder[T]) Begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.set(OperationState[T]{Phase: Loading, Seq: h.seq})
	return h.seq
}

// Resolve applies the outcome of attempt seq. It returns false, leaving the
// state untouched, when seq is not the most recent Begin or the holder has
// been reset since.
func (h *Holder[T]) Resolve(seq uint64, outcome result.Outcome[T]) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if seq != h.seq || h.state.Phase != Loading {
		return false
	}
	next := OperationState[T]{Seq: seq}
	if value, ok := outcome.Value(); ok {
		next.Phase = Success
		next.Value = value
	} else {
		next.Phase = Error
		next.Message = outcome.Message()
	}
	h.set(next)
	return true
}

// Reset forces the holder back to Idle. Attempts begun before the reset can
// no longer resolve.
func (h *Holder[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.set(OperationState[T]{Phase: Idle, Seq: h.seq})
}

// Current returns the latest state.
func (h *Holder[T]) Current() OperationState[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Subscribe registers an observer. The current state is delivered first,
// followed by every later transition in order.
func (h *Holder[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := newSubscription(h)
	if h.subs == nil {
		h.subs = make(map[*Subscription[T]]struct{})
	}
	h.subs[sub] = struct{}{}
	sub.push(h.state)
	return sub
}

// set must be called with mu held.
func (h *Holder[T]) set(next OperationState[T]) {
	next.Updated = time.Now()
	h.state = next
	for sub := range h.subs {
		sub.push(next)
	}
}

func (h *Holder[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// Subscription delivers state transitions on C. Delivery never blocks the
// holder: transitions queue per subscriber until read.
type Subscription[T any] struct {
	holder *Holder[T]
	out    chan OperationState[T]
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pending []OperationState[T]
}

func newSubscription[T any](h *Holder[T]) *Subscription[T] {
	s := &Subscription[T]{
		holder: h,
		out:    make(chan OperationState[T]),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription[T]) C() <-chan OperationState[T] {
	return s.out
}

// Close detaches the subscription. Undelivered transitions are dropped.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		close(s.done)
		s.holder.remove(s)
	})
}

func (s *Subscription[T]) push(st OperationState[T]) {
	s.mu.Lock()
	s.pending = append(s.pending, st)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, st := range batch {
			select {
			case s.out <- st:
			case <-s.done:
				return
			}
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}
