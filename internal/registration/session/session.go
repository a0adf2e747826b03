// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     session
// Description: Single-goroutine event loop around the registration form
// Created:     2026-10-15
// License:     MIT
// ============================================================================

// Package session drives a registration.Form without a terminal. All form
// mutations happen on the goroutine running Run; remote checks run on their
// own goroutines and post their verdicts back to the loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/remote"
	"github.com/themandi/JoyJoin/pkg/core/metrics"
)

// ErrClosed is returned once the loop has stopped
var ErrClosed = errors.New("session closed")

// Config holds session dependencies
type Config struct {
	Checker     remote.Checker
	Submitter   remote.Submitter
	StalePolicy registration.StalePolicy
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Session owns one form and its event loop
type Session struct {
	id        string
	form      *registration.Form
	checker   remote.Checker
	submitter remote.Submitter
	log       *zap.Logger

	events chan func()
	done   chan struct{}

	// loop-owned
	ctx     context.Context
	pending int
	waiters []chan struct{}
}

// New creates a session; call Run to start the loop
func New(cfg Config) *Session {
	id := uuid.NewString()
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))

	return &Session{
		id: id,
		form: registration.NewForm(registration.Options{
			StalePolicy: cfg.StalePolicy,
			Logger:      log,
			Metrics:     cfg.Metrics,
		}),
		checker:   cfg.Checker,
		submitter: cfg.Submitter,
		log:       log,
		events:    make(chan func()),
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Run processes events until ctx is canceled
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.ctx = ctx
	s.log.Debug("session started")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session stopped", zap.Int("pending", s.pending))
			return nil
		case ev := <-s.events:
			ev()
		}
	}
}

// do runs fn on the loop and waits for it
func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	ev := func() {
		fn()
		close(finished)
	}

	select {
	case s.events <- ev:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished
	return nil
}

// post queues fn from a check goroutine
func (s *Session) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// dispatch starts one goroutine per request. Loop only.
func (s *Session) dispatch(reqs []registration.Request) {
	for _, req := range reqs {
		s.pending++
		go s.check(s.ctx, req)
	}
}

func (s *Session) check(ctx context.Context, req registration.Request) {
	verdict, err := s.checker.Check(ctx, req.Endpoint, req.Payload)
	s.post(func() {
		s.pending--
		s.dispatch(s.form.Resolve(registration.Result{Request: req, Verdict: verdict, Err: err}))
		s.wakeIdle()
	})
}

func (s *Session) wakeIdle() {
	if s.pending > 0 {
		return
	}
	for _, w := range s.waiters {
		close(w)
	}
	s.waiters = nil
}

func (s *Session) snapshotAfter(ctx context.Context, fn func() []registration.Request) (registration.FormState, error) {
	var state registration.FormState
	err := s.do(ctx, func() {
		s.dispatch(fn())
		state = s.form.Snapshot()
	})
	return state, err
}

// Input types value into field
func (s *Session) Input(ctx context.Context, f registration.Field, value string) (registration.FormState, error) {
	return s.snapshotAfter(ctx, func() []registration.Request {
		return s.form.Input(f, value)
	})
}

// Accept sets the rules checkbox
func (s *Session) Accept(ctx context.Context, accepted bool) (registration.FormState, error) {
	return s.snapshotAfter(ctx, func() []registration.Request {
		return s.form.SetRulesAccepted(accepted)
	})
}

// Focus moves focus to field
func (s *Session) Focus(ctx context.Context, f registration.Field) (registration.FormState, error) {
	return s.snapshotAfter(ctx, func() []registration.Request {
		return s.form.Focus(f)
	})
}

// Blur removes focus from field
func (s *Session) Blur(ctx context.Context, f registration.Field) (registration.FormState, error) {
	return s.snapshotAfter(ctx, func() []registration.Request {
		s.form.Blur(f)
		return nil
	})
}

// Snapshot returns the current form state
func (s *Session) Snapshot(ctx context.Context) (registration.FormState, error) {
	return s.snapshotAfter(ctx, func() []registration.Request { return nil })
}

// WaitIdle blocks until no remote check is in flight
func (s *Session) WaitIdle(ctx context.Context) error {
	idle := make(chan struct{})
	err := s.do(ctx, func() {
		s.waiters = append(s.waiters, idle)
		s.wakeIdle()
	})
	if err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit attempts to submit the form. It reports whether the form was
// forwarded; the returned error is from the real submission only.
func (s *Session) Submit(ctx context.Context) (bool, error) {
	var (
		forward bool
		values  url.Values
	)
	err := s.do(ctx, func() {
		var reqs []registration.Request
		forward, reqs = s.form.AttemptSubmit()
		s.dispatch(reqs)
		if forward {
			values = s.form.Values()
		}
	})
	if err != nil || !forward {
		return false, err
	}

	if s.submitter == nil {
		s.log.Info("dry run, submission skipped")
		return true, nil
	}
	if err := s.submitter.Submit(ctx, values); err != nil {
		return true, fmt.Errorf("session %s: %w", s.id, err)
	}
	s.log.Info("registration submitted")
	return true, nil
}
