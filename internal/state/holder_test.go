package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/wanreader/internal/result"
)

func recv[T any](t *testing.T, sub *Subscription[T]) OperationState[T] {
	t.Helper()
	select {
	case st, ok := <-sub.C():
		if !ok {
			t.Fatalf("subscription closed, want a state")
		}
		return st
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for state")
	}
	return OperationState[T]{}
}

func TestHolder_ZeroValueIsIdle(t *testing.T) {
	var h Holder[int]
	if got := h.Current(); got.Phase != Idle || got.Seq != 0 {
		t.Fatalf("Current() = %#v, want Idle seq 0", got)
	}
}

func TestHolder_BeginResolveSuccessAndError(t *testing.T) {
	var h Holder[string]

	seq := h.Begin()
	if got := h.Current(); got.Phase != Loading || got.Seq != seq {
		t.Fatalf("after Begin = %#v, want Loading seq %d", got, seq)
	}
	if !h.Resolve(seq, result.Success("ok")) {
		t.Fatalf("Resolve returned false for current attempt")
	}
	if got := h.Current(); got.Phase != Success || got.Value != "ok" {
		t.Fatalf("after Resolve = %#v, want Success(ok)", got)
	}

	seq = h.Begin()
	h.Resolve(seq, result.Failure[string](errors.New("账号密码不匹配！")))
	if got := h.Current(); got.Phase != Error || got.Message != "账号密码不匹配！" {
		t.Fatalf("after failed Resolve = %#v, want Error with server message", got)
	}
}

func TestHolder_StaleOutcomeDiscarded(t *testing.T) {
	var h Holder[int]

	first := h.Begin()
	second := h.Begin()

	if h.Resolve(first, result.Success(1)) {
		t.Fatalf("Resolve(first) applied after a newer Begin")
	}
	if got := h.Current(); got.Phase != Loading || got.Seq != second {
		t.Fatalf("state = %#v, want still Loading for seq %d", got, second)
	}
	if !h.Resolve(second, result.Success(2)) {
		t.Fatalf("Resolve(second) not applied")
	}
	if h.Resolve(first, result.Failure[int](errors.New("late"))) {
		t.Fatalf("late stale outcome applied after the newer one resolved")
	}
	if got := h.Current(); got.Phase != Success || got.Value != 2 {
		t.Fatalf("state = %#v, want Success(2)", got)
	}
}

func TestHolder_ResolveTwiceIgnored(t *testing.T) {
	var h Holder[int]
	seq := h.Begin()
	h.Resolve(seq, result.Success(1))
	if h.Resolve(seq, result.Success(2)) {
		t.Fatalf("second Resolve for the same attempt applied")
	}
}

func TestHolder_ResetDiscardsInFlight(t *testing.T) {
	var h Holder[int]
	seq := h.Begin()
	h.Reset()
	if h.Resolve(seq, result.Success(1)) {
		t.Fatalf("Resolve applied after Reset")
	}
	if got := h.Current(); got.Phase != Idle {
		t.Fatalf("state = %#v, want Idle", got)
	}
}

func TestHolder_SubscribeReplaysLatestThenOrderedTransitions(t *testing.T) {
	var h Holder[int]
	seq := h.Begin()
	h.Resolve(seq, result.Success(10))

	sub := h.Subscribe()
	defer sub.Close()

	if got := recv(t, sub); got.Phase != Success || got.Value != 10 {
		t.Fatalf("replayed = %#v, want Success(10)", got)
	}

	seq = h.Begin()
	h.Resolve(seq, result.Failure[int](errors.New("boom")))
	h.Reset()

	want := []Phase{Loading, Error, Idle}
	for i, phase := range want {
		if got := recv(t, sub); got.Phase != phase {
			t.Fatalf("transition %d = %v, want %v", i, got.Phase, phase)
		}
	}
}

func TestHolder_MultipleSubscribersSeeSameSequence(t *testing.T) {
	var h Holder[int]
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Close()
	defer b.Close()

	seq := h.Begin()
	h.Resolve(seq, result.Success(3))

	for _, sub := range []*Subscription[int]{a, b} {
		for _, phase := range []Phase{Idle, Loading, Success} {
			if got := recv(t, sub); got.Phase != phase {
				t.Fatalf("got %v, want %v", got.Phase, phase)
			}
		}
	}
}

func TestHolder_SlowSubscriberDoesNotBlock(t *testing.T) {
	var h Holder[int]
	sub := h.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			seq := h.Begin()
			h.Resolve(seq, result.Success(i))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("holder blocked on an unread subscriber")
	}

	// Idle replay, then 100 Loading/Success pairs, in order.
	if got := recv(t, sub); got.Phase != Idle {
		t.Fatalf("first = %v, want Idle", got.Phase)
	}
	for i := 0; i < 100; i++ {
		if got := recv(t, sub); got.Phase != Loading {
			t.Fatalf("pair %d first = %v, want Loading", i, got.Phase)
		}
		if got := recv(t, sub); got.Phase != Success || got.Value != i {
			t.Fatalf("pair %d second = %#v, want Success(%d)", i, got, i)
		}
	}
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	var h Holder[int]
	sub := h.Subscribe()
	sub.Close()
	sub.Close()

	h.Begin()

	select {
	case _, ok := <-sub.C():
		if ok {
			// The replayed Idle may race the close; drain until closed.
			for range sub.C() {
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after Close")
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{Idle: "idle", Loading: "loading", Success: "success", Error: "error", Phase(9): "phase(9)"}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Fatalf("Phase(%d).String() = %q, want %q", int(phase), got, want)
		}
	}
}
