package advice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyBucketsCalories(t *testing.T) {
	assert.Equal(t, Key("u1", "lose", 1850), Key("u1", "lose", 1899))
	assert.NotEqual(t, Key("u1", "lose", 1899), Key("u1", "lose", 1900))
	assert.NotEqual(t, Key("u1", "lose", 1850), Key("u2", "lose", 1850))
	assert.NotEqual(t, Key("u1", "lose", 1850), Key("u1", "gain", 1850))
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(DefaultTTL, func() time.Time { return clock })

	computes := 0
	compute := func() Result {
		computes++
		return Result{Text: "advice v1"}
	}

	first := c.GetOrCompute(Key("u1", "lose", 1850), compute)
	clock = clock.Add(5 * time.Minute)
	second := c.GetOrCompute(Key("u1", "lose", 1899), compute)

	assert.Equal(t, 1, computes)
	assert.Equal(t, first, second)
}

func TestGetOrComputeRecomputesAfterTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(DefaultTTL, func() time.Time { return clock })

	computes := 0
	compute := func() Result {
		computes++
		return Result{Text: "advice"}
	}

	key := Key("u1", "maintain", 2000)
	c.GetOrCompute(key, compute)
	clock = clock.Add(DefaultTTL + time.Second)
	// Expired entry is a miss even though no sweep has run.
	c.GetOrCompute(key, compute)

	assert.Equal(t, 2, computes)
}

func TestFallbackIsCachedToo(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(DefaultTTL, func() time.Time { return clock })

	computes := 0
	compute := func() Result {
		computes++
		return Result{Text: fallbackText("lose", 1850), Fallback: true}
	}

	key := Key("u1", "lose", 1850)
	first := c.GetOrCompute(key, compute)
	second := c.GetOrCompute(key, compute)

	assert.Equal(t, 1, computes)
	assert.True(t, first.Fallback)
	assert.Equal(t, first.Text, second.Text)
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(DefaultTTL, func() time.Time { return clock })

	c.GetOrCompute(Key("u1", "lose", 1800), func() Result { return Result{Text: "a"} })
	clock = clock.Add(6 * time.Minute)
	c.GetOrCompute(Key("u2", "gain", 2400), func() Result { return Result{Text: "b"} })

	clock = clock.Add(5 * time.Minute) // first entry now expired, second not
	c.Sweep()

	assert.Equal(t, 1, c.Len())
}
