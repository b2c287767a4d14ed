package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryConfigWithDefaults(t *testing.T) {
	cfg := RetryConfig{}.withDefaults()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialInterval)
	assert.Equal(t, 10*time.Second, cfg.MaxInterval)
	assert.Equal(t, 2.0, cfg.Multiplier)

	custom := RetryConfig{MaxAttempts: 5, InitialInterval: time.Second, MaxInterval: time.Minute, Multiplier: 3.0}.withDefaults()
	assert.Equal(t, 5, custom.MaxAttempts)
	assert.Equal(t, time.Second, custom.InitialInterval)
}

func TestBackoffForGrowsExponentially(t *testing.T) {
	cfg := RetryConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	}

	assert.Equal(t, 100*time.Millisecond, cfg.backoffFor(2))
	assert.Equal(t, 200*time.Millisecond, cfg.backoffFor(3))
	assert.Equal(t, 400*time.Millisecond, cfg.backoffFor(4))
}

func TestBackoffForCapsAtMaxInterval(t *testing.T) {
	cfg := RetryConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     250 * time.Millisecond,
		Multiplier:      2.0,
	}

	assert.Equal(t, 250*time.Millisecond, cfg.backoffFor(5))
	assert.Equal(t, 250*time.Millisecond, cfg.backoffFor(10))
}

func TestBackoffForJitterStaysWithinBounds(t *testing.T) {
	cfg := RetryConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		UseJitter:       true,
	}

	for i := 0; i < 100; i++ {
		d := cfg.backoffFor(3)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}
