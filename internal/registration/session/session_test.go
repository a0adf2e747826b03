package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/remote"
)

// gatedChecker answers a payload only once its gate is released
type gatedChecker struct {
	mu      sync.Mutex
	gates   map[string]chan remote.Verdict
	calls   []string
	started chan string
}

func newGatedChecker() *gatedChecker {
	return &gatedChecker{
		gates:   make(map[string]chan remote.Verdict),
		started: make(chan string, 16),
	}
}

func (g *gatedChecker) gate(payload string) chan remote.Verdict {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[payload]
	if !ok {
		ch = make(chan remote.Verdict, 1)
		g.gates[payload] = ch
	}
	return ch
}

func (g *gatedChecker) release(payload string, v remote.Verdict) {
	g.gate(payload) <- v
}

func (g *gatedChecker) Check(ctx context.Context, _ remote.Endpoint, payload string) (remote.Verdict, error) {
	g.mu.Lock()
	g.calls = append(g.calls, payload)
	g.mu.Unlock()
	g.started <- payload

	select {
	case v := <-g.gate(payload):
		return v, nil
	case <-ctx.Done():
		return remote.VerdictUnconfirmed, ctx.Err()
	}
}

func (g *gatedChecker) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

var acceptAll = remote.CheckerFunc(func(context.Context, remote.Endpoint, string) (remote.Verdict, error) {
	return remote.VerdictAccepted, nil
})

func startSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
	return s
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func fill(t *testing.T, ctx context.Context, s *Session) {
	t.Helper()
	inputs := []struct {
		f registration.Field
		v string
	}{
		{registration.FieldLogin, "kasia_92"},
		{registration.FieldName, "Katarzyna Łęcka"},
		{registration.FieldEmail, "kasia@joyjoin.pl"},
		{registration.FieldPassword, "abc12345"},
		{registration.FieldBirthDate, "1990-05-17"},
	}
	for _, in := range inputs {
		_, err := s.Input(ctx, in.f, in.v)
		require.NoError(t, err)
	}
	require.NoError(t, s.WaitIdle(ctx))

	_, err := s.Input(ctx, registration.FieldPasswordConfirm, "abc12345")
	require.NoError(t, err)
	_, err = s.Accept(ctx, true)
	require.NoError(t, err)
}

func TestSession_InputAndVerdict(t *testing.T) {
	ctx := testContext(t)
	s := startSession(t, Config{Checker: acceptAll})

	state, err := s.Input(ctx, registration.FieldLogin, "kasia")
	require.NoError(t, err)
	assert.NotEqual(t, registration.ValidityInvalid, state.Field(registration.FieldLogin).Validity)

	require.NoError(t, s.WaitIdle(ctx))

	state, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, registration.ValidityValid, state.Field(registration.FieldLogin).Validity)
	assert.NotEmpty(t, s.ID())
}

func TestSession_WaitIdleWithoutChecks(t *testing.T) {
	ctx := testContext(t)
	s := startSession(t, Config{Checker: acceptAll})
	assert.NoError(t, s.WaitIdle(ctx))
}

func TestSession_StalePasswordVerdict(t *testing.T) {
	ctx := testContext(t)
	checker := newGatedChecker()
	s := startSession(t, Config{Checker: checker})

	_, err := s.Input(ctx, registration.FieldPassword, "abc12345")
	require.NoError(t, err)
	_, err = s.Input(ctx, registration.FieldPassword, "xyz98765")
	require.NoError(t, err)
	<-checker.started
	<-checker.started

	// the older request answers last-but-one: it must not win
	checker.release("abc12345", remote.VerdictAccepted)
	time.Sleep(20 * time.Millisecond)
	state, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, registration.ValidityPending, state.Field(registration.FieldPassword).Validity)
	assert.True(t, state.Field(registration.FieldPasswordConfirm).Disabled)

	checker.release("xyz98765", remote.VerdictRejected)
	require.NoError(t, s.WaitIdle(ctx))

	state, err = s.Snapshot(ctx)
	require.NoError(t, err)
	pw := state.Field(registration.FieldPassword)
	assert.Equal(t, registration.ValidityInvalid, pw.Validity)
	assert.True(t, pw.HasWarning(registration.WarnTooCommon))
	assert.Equal(t, 2, checker.callCount())
}

func TestSession_NoReissueForUnchangedValue(t *testing.T) {
	ctx := testContext(t)
	checker := newGatedChecker()
	s := startSession(t, Config{Checker: checker})

	_, err := s.Input(ctx, registration.FieldLogin, "kasia")
	require.NoError(t, err)
	_, err = s.Focus(ctx, registration.FieldLogin)
	require.NoError(t, err)

	checker.release("kasia", remote.VerdictAccepted)
	require.NoError(t, s.WaitIdle(ctx))

	_, err = s.Blur(ctx, registration.FieldLogin)
	require.NoError(t, err)
	_, err = s.Focus(ctx, registration.FieldLogin)
	require.NoError(t, err)
	require.NoError(t, s.WaitIdle(ctx))

	assert.Equal(t, 1, checker.callCount())
}

func TestSession_Submit(t *testing.T) {
	ctx := testContext(t)

	var got url.Values
	submitter := remote.SubmitterFunc(func(_ context.Context, v url.Values) error {
		got = v
		return nil
	})
	s := startSession(t, Config{Checker: acceptAll, Submitter: submitter})

	ok, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	fill(t, ctx, s)

	ok, err = s.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kasia_92", got.Get("login"))
	assert.Equal(t, "on", got.Get("rules"))
}

func TestSession_SubmitError(t *testing.T) {
	ctx := testContext(t)
	boom := errors.New("boom")
	submitter := remote.SubmitterFunc(func(context.Context, url.Values) error { return boom })
	s := startSession(t, Config{Checker: acceptAll, Submitter: submitter})

	fill(t, ctx, s)

	ok, err := s.Submit(ctx)
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestSession_DryRunSubmit(t *testing.T) {
	ctx := testContext(t)
	s := startSession(t, Config{Checker: acceptAll})

	fill(t, ctx, s)

	ok, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSession_Closed(t *testing.T) {
	s := New(Config{Checker: acceptAll})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, err := s.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
