package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := time.Date(2026, time.March, 14, 8, 30, 0, 0, loc)
	end := EndOfDay(morning)

	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, morning.Day(), end.Day())
	assert.Equal(t, loc, end.Location())
	assert.True(t, end.After(morning))
}
