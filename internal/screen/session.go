package screen

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/wanreader/internal/export"
	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/task"
	"github.com/five82/wanreader/internal/wan"
)

// Deps are the collaborators every controller is built from. Reader and
// Exporter are optional.
type Deps struct {
	API      wan.API
	Exec     *task.Executor
	Log      zerolog.Logger
	Reader   *render.Reader
	Exporter *export.Exporter
}

// session is the lifetime shared by everything one controller starts. mu
// serialises holder transitions with the side effects that accompany them.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	exec   *task.Executor
	log    zerolog.Logger

	mu sync.Mutex
}

func newSession(parent context.Context, name string, deps Deps) *session {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	return &session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		exec:   deps.Exec,
		log: deps.Log.With().
			Str("component", "screen").
			Str("screen", name).
			Str("session", id[:8]).
			Logger(),
	}
}

// ID identifies the session in logs.
func (s *session) ID() string {
	return s.id
}

// Close cancels everything the controller started. No holder changes after
// Close returns.
func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

func (s *session) closed() bool {
	return s.ctx.Err() != nil
}

// launch begins an attempt on h and resolves it with the outcome of call.
// onSuccess runs with s.mu held, only when the outcome was applied. Callers
// must hold s.mu.
func launch[T any](s *session, name string, h *state.Holder[T], call func(context.Context) result.Outcome[T], onSuccess func(T)) uint64 {
	seq := h.Begin()
	log := s.log.With().Str("op", name).Uint64("seq", seq).Logger()
	log.Debug().Msg("begin")

	ch := task.New(s.exec, call).Start(s.ctx)
	go func() {
		outcome, ok := <-ch
		if !ok {
			log.Debug().Msg("cancelled")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed() {
			return
		}
		if !h.Resolve(seq, outcome) {
			log.Debug().Msg("stale outcome discarded")
			return
		}
		value, ok := outcome.Value()
		if !ok {
			log.Warn().Str("error", outcome.Message()).Msg("failed")
			return
		}
		if onSuccess != nil {
			onSuccess(value)
		}
		log.Info().Msg("succeeded")
	}()
	return seq
}
