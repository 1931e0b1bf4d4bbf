package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.InDelta(t, 1.0, RoundFloat(0.5, 0), 1e-12)
	assert.InDelta(t, 0.0, RoundFloat(0.4, 0), 1e-12)
	assert.InDelta(t, 0.0, RoundFloat(-0.4, 0), 1e-12)
	assert.InDelta(t, 123.46, RoundFloat(123.456, 2), 1e-12)
	assert.InDelta(t, 123.45, RoundFloat(123.454, 2), 1e-12)
}

func TestIsCloseToZero(t *testing.T) {
	assert.True(t, IsCloseToZero(0))
	assert.True(t, IsCloseToZero(1e-13))
	assert.True(t, IsCloseToZero(-1e-13))
	assert.False(t, IsCloseToZero(1e-6))
	assert.False(t, IsCloseToZero(-1e-6))
	assert.False(t, IsCloseToZero(1.0))
}
