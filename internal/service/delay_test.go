package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNopDelayer_Wait(t *testing.T) {
	err := NopDelayer{}.Wait(context.Background())

	require.NoError(t, err)
}

func TestNewRandomDelayer_NormalizesBounds(t *testing.T) {
	d := NewRandomDelayer(30*time.Millisecond, 10*time.Millisecond)

	require.Equal(t, 10*time.Millisecond, d.Min)
	require.Equal(t, 30*time.Millisecond, d.Max)
}

func TestRandomDelayer_WaitAtLeastMin(t *testing.T) {
	d := NewRandomDelayer(10*time.Millisecond, 30*time.Millisecond)

	start := time.Now()
	err := d.Wait(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	// Верхнюю границу проверяем с большим запасом, чтобы тест не мигал под нагрузкой
	require.Less(t, elapsed, time.Second)
}

func TestRandomDelayer_ZeroRangeReturnsImmediately(t *testing.T) {
	d := NewRandomDelayer(0, 0)

	start := time.Now()
	err := d.Wait(context.Background())

	require.NoError(t, err)
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRandomDelayer_CanceledContext(t *testing.T) {
	d := NewRandomDelayer(5*time.Second, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := d.Wait(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestRandomDelayer_ContextCanceledMidWait(t *testing.T) {
	d := NewRandomDelayer(5*time.Second, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := d.Wait(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
