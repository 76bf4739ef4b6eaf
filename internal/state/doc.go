// Package state holds the observable state of asynchronous operations.
//
// # Overview
//
// Every logical operation on a screen (login, register, list load, collect
// toggle) owns one Holder. The holder keeps the latest OperationState and
// broadcasts each transition to any number of subscribers:
//
//	Idle ──Begin──> Loading ──Resolve──> Success(value) | Error(message)
//	  ^                                        │
//	  └──────────────── Reset ─────────────────┘
//
// Begin may be called from any phase. There is no queuing: a new Begin
// supersedes whatever attempt was in flight.
//
// # Sequence Numbers
//
// Begin returns a monotonically increasing sequence number. The caller hands
// it back to Resolve with the outcome, and Resolve only applies when that
// number still matches the most recent Begin:
//
//	a := h.Begin()          // Loading, seq 1
//	b := h.Begin()          // Loading, seq 2
//	h.Resolve(a, outA)      // discarded, returns false
//	h.Resolve(b, outB)      // applied
//
// Reset advances the sequence too, so an attempt started before a mode
// switch cannot resurrect state afterwards. The (state, seq) pair is guarded
// by a single mutex.
//
// # Subscriptions
//
// Subscribe replays the current state and then delivers every transition in
// order on Subscription.C. Each subscriber has its own queue drained by a
// small goroutine, so a slow reader never blocks the holder or other
// subscribers. Close detaches and closes the channel.
//
// The UI reads subscriptions from Bubble Tea commands, which turns every
// transition into a message processed on the update loop.
//
// # Zero Value
//
//	var h state.Holder[wan.User] // Idle, ready to use
package state
