package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

func TestScheduler_RunNow(t *testing.T) {
	s, err := NewScheduler(logger.Nop())
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	calls := 0
	require.NoError(t, s.Register(Task{Name: ReviewDispatch, Interval: time.Minute, Run: func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}}))
	require.NoError(t, s.Register(Task{Name: ReviewReminders, Interval: time.Hour, Run: func(context.Context) error {
		return errors.New("boom")
	}}))

	require.NoError(t, s.RunNow(context.Background(), ReviewDispatch))
	assert.Equal(t, 1, calls)
	assert.EqualError(t, s.RunNow(context.Background(), ReviewReminders), "boom")
	assert.Error(t, s.RunNow(context.Background(), "nope"))
	assert.Equal(t, []string{ReviewDispatch, ReviewReminders}, s.Names())
}

func TestScheduler_RegisterInvalida(t *testing.T) {
	s, err := NewScheduler(logger.Nop())
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	assert.Error(t, s.Register(Task{Name: "x"}))
	ok := Task{Name: "x", Interval: time.Minute, Run: func(context.Context) error { return nil }}
	require.NoError(t, s.Register(ok))
	assert.Error(t, s.Register(ok), "duplicada")
}
