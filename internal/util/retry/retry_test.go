package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleep returns a Sleep function that records requested delays
// without actually waiting.
func recordSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration

	err := Do(context.Background(), func() error {
		attempts++
		return nil
	}, WithSleep(recordSleep(&delays)))

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

func TestDoSuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration

	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("server error: 500")
		}
		return nil
	}, WithSleep(recordSleep(&delays)), WithJitter(false))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, delays, 2)
	assert.Equal(t, 1*time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
	assert.Less(t, delays[0], delays[1], "backoff delays must increase")
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration

	err := Do(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	}, WithSleep(recordSleep(&delays)))

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, delays, 2)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDoFatalErrorNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration

	wrapped := errors.New("name already exists")
	err := Do(context.Background(), func() error {
		attempts++
		return Fatal(wrapped)
	}, WithSleep(recordSleep(&delays)))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays, "fatal errors must not sleep")
	assert.ErrorIs(t, err, wrapped)
}

func TestDoNonRetryableClassifier(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration

	notFound := errors.New("HTTP 404: not found")
	err := Do(context.Background(), func() error {
		attempts++
		return notFound
	},
		WithSleep(recordSleep(&delays)),
		WithRetryable(func(err error) bool { return !errors.Is(err, notFound) }),
	)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
	assert.ErrorIs(t, err, notFound)
}

func TestDoJitterBounds(t *testing.T) {
	t.Parallel()
	var delays []time.Duration

	_ = Do(context.Background(), func() error {
		return errors.New("always fails")
	}, WithSleep(recordSleep(&delays)))

	require.Len(t, delays, 2)
	// base^0 = 1s and base^1 = 2s, each plus [0,1)s jitter.
	assert.GreaterOrEqual(t, delays[0], 1*time.Second)
	assert.Less(t, delays[0], 2*time.Second)
	assert.GreaterOrEqual(t, delays[1], 2*time.Second)
	assert.Less(t, delays[1], 3*time.Second)
}

func TestDoMaxDelayCap(t *testing.T) {
	t.Parallel()
	var delays []time.Duration

	_ = Do(context.Background(), func() error {
		return errors.New("always fails")
	},
		WithSleep(recordSleep(&delays)),
		WithJitter(false),
		WithMaxAttempts(5),
		WithBase(10),
		WithMaxDelay(30*time.Second),
	)

	require.Len(t, delays, 4)
	assert.Equal(t, 30*time.Second, delays[3])
}

func TestDoContextCancellationDuringBackoff(t *testing.T) {
	t.Parallel()
	attempts := 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func() error {
		attempts++
		return errors.New("error")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestFatalNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(nil))
	assert.True(t, IsFatal(Fatal(errors.New("boom"))))
}
