package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	usage float64
	err   error
	panic bool
}

// scriptedSampler replays samples in order, repeating the last one.
type scriptedSampler struct {
	samples []sample
	calls   int
	onCall  func(n int)
}

func (s *scriptedSampler) Utilization() (float64, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall(s.calls)
	}

	i := min(s.calls-1, len(s.samples)-1)
	cur := s.samples[i]
	if cur.panic {
		panic("device vanished")
	}
	return cur.usage, cur.err
}

type recordingSetter struct {
	results []bool
	applied []string
}

func (r *recordingSetter) SetColor(_ context.Context, hex string) bool {
	ok := true
	if len(r.applied) < len(r.results) {
		ok = r.results[len(r.applied)]
	}
	r.applied = append(r.applied, hex)
	return ok
}

func newTestMonitor(t *testing.T, s Sampler, c ColorSetter) *Monitor {
	t.Helper()
	m, err := New(s, c, time.Millisecond)
	require.NoError(t, err)
	return m
}

func TestNewInvalidInterval(t *testing.T) {
	_, err := New(&scriptedSampler{}, &recordingSetter{}, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestStepAppliesOnlyOnChange(t *testing.T) {
	sampler := &scriptedSampler{samples: []sample{{usage: 0}, {usage: 0}, {usage: 100}, {usage: 100}}}
	setter := &recordingSetter{}
	m := newTestMonitor(t, sampler, setter)
	ctx := context.Background()

	assert.Empty(t, m.LastColor())
	for i := 0; i < 4; i++ {
		require.NoError(t, m.Step(ctx))
	}

	assert.Equal(t, []string{"#00008b", "#8b0000"}, setter.applied)
	assert.Equal(t, "#8b0000", m.LastColor())
}

func TestStepRetriesAfterFailedWrite(t *testing.T) {
	sampler := &scriptedSampler{samples: []sample{{usage: 50}}}
	setter := &recordingSetter{results: []bool{false, true}}
	m := newTestMonitor(t, sampler, setter)
	ctx := context.Background()

	require.NoError(t, m.Step(ctx))
	assert.Empty(t, m.LastColor())

	require.NoError(t, m.Step(ctx))
	assert.Equal(t, "#450045", m.LastColor())

	require.NoError(t, m.Step(ctx))
	assert.Equal(t, []string{"#450045", "#450045"}, setter.applied)
}

func TestStepSamplerError(t *testing.T) {
	cause := fmt.Errorf("gpu is lost")
	sampler := &scriptedSampler{samples: []sample{{err: cause}}}
	setter := &recordingSetter{}
	m := newTestMonitor(t, sampler, setter)

	err := m.Step(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrSampleUsage))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, setter.applied)
}

func TestStepRecoversPanic(t *testing.T) {
	m := newTestMonitor(t, &scriptedSampler{samples: []sample{{panic: true}}}, &recordingSetter{})

	err := m.Step(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrLoopPanic))
	assert.Contains(t, err.Error(), "device vanished")
}

func TestRunSurvivesSamplerFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := &scriptedSampler{
		samples: []sample{{err: fmt.Errorf("transient")}, {panic: true}, {usage: 100}},
		onCall: func(n int) {
			if n == 3 {
				cancel()
			}
		},
	}
	setter := &recordingSetter{}
	m := newTestMonitor(t, sampler, setter)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	assert.Equal(t, 3, sampler.calls)
	assert.Equal(t, []string{"#8b0000"}, setter.applied)
	assert.Equal(t, "#8b0000", m.LastColor())
}

func TestRunStopsWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampler := &scriptedSampler{samples: []sample{{usage: 10}}}
	m := newTestMonitor(t, sampler, &recordingSetter{})

	require.NoError(t, m.Run(ctx))
	assert.Zero(t, sampler.calls)
}
