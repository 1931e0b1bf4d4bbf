package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToLocation(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	t.Run("keeps the wall clock and swaps the zone", func(t *testing.T) {
		parsed := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

		got := NormalizeToLocation(parsed, stockholm)

		assert.Equal(t, 14, got.Hour())
		assert.Equal(t, 30, got.Minute())
		assert.Equal(t, stockholm, got.Location())
	})

	t.Run("same wall clock in different zones normalizes to the same instant", func(t *testing.T) {
		inUTC := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
		inFixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("X", 5*3600))

		assert.True(t, NormalizeToLocation(inUTC, stockholm).Equal(NormalizeToLocation(inFixed, stockholm)))
	})
}
