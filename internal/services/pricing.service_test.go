package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDispatchRadius(t *testing.T) {
	t.Run("pricing blob wins", func(t *testing.T) {
		pricing := &PricingConfig{}
		pricing.LastMinute.NotificationRadiusMiles = 40

		assert.Equal(t, 40.0, resolveDispatchRadius(pricing, 30))
	})

	t.Run("partial blob falls back to configured value", func(t *testing.T) {
		pricing := &PricingConfig{}

		assert.Equal(t, 30.0, resolveDispatchRadius(pricing, 30))
	})

	t.Run("missing blob falls back to configured value", func(t *testing.T) {
		assert.Equal(t, 30.0, resolveDispatchRadius(nil, 30))
	})

	t.Run("default of 25 miles when nothing is configured", func(t *testing.T) {
		assert.Equal(t, DEFAULT_DISPATCH_RADIUS_MILES, resolveDispatchRadius(nil, 0))
	})
}
