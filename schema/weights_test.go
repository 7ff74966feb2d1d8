package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultWeightConfig spot-checks the documented defaults.
func TestDefaultWeightConfig(t *testing.T) {
	w := DefaultWeightConfig()

	assert.InDelta(t, 0.4, w.VelocityMerges, 0.0001)
	assert.InDelta(t, 0.6, w.UIGStars, 0.0001)
	assert.InDelta(t, 0.8, w.MACMainWeight, 0.0001)
	assert.InDelta(t, 0.5, w.SEIMAC, 0.0001)
}

// TestWeightConfigSetGet verifies every override key round-trips.
func TestWeightConfigSetGet(t *testing.T) {
	w := DefaultWeightConfig()

	for i, key := range WeightKeys {
		v := float64(i) + 0.125
		w.Set(key, v)
		assert.InDelta(t, v, w.Get(key), 0.0001, "key %s", key)
	}
}

// TestWeightConfigUnknownKey verifies unknown keys are ignored rather than
// failing.
func TestWeightConfigUnknownKey(t *testing.T) {
	w := DefaultWeightConfig()
	w.Set("nonsense", 99.0)

	assert.Equal(t, DefaultWeightConfig(), w)
	assert.Zero(t, w.Get("nonsense"))
}
