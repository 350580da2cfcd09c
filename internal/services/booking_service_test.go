package services

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePNR(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	pnr, err := GeneratePNR(rng, func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Len(t, pnr, 10)
	for _, c := range pnr {
		assert.Contains(t, pnrAlphabet, string(c))
	}
}

func TestGeneratePNRRetriesOnCollision(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	calls := 0
	pnr, err := GeneratePNR(rng, func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	require.NoError(t, err)
	assert.Len(t, pnr, 10)
	assert.Equal(t, 3, calls)
}

func TestGeneratePNRGivesUp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := GeneratePNR(rng, func(string) (bool, error) { return true, nil })
	assert.Error(t, err)
}

func TestGeneratePNRPropagatesLookupError(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := GeneratePNR(rng, func(string) (bool, error) {
		return false, fmt.Errorf("db down")
	})
	assert.Error(t, err)
}

func TestRefundPercent(t *testing.T) {
	now := time.Date(2026, 8, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		daysAhead int
		percent   int
	}{
		{10, 90},
		{7, 90},
		{6, 75},
		{3, 75},
		{2, 50},
		{1, 50},
		{0, 0},
		{-1, 0},
	}
	for _, tc := range cases {
		travel := now.AddDate(0, 0, tc.daysAhead)
		assert.Equal(t, tc.percent, RefundPercent(travel, now), "days ahead %d", tc.daysAhead)
	}
}

func TestRefundPercentIgnoresTimeOfDay(t *testing.T) {
	// late on the 10th, travelling early on the 17th: still a full week apart
	now := time.Date(2026, 8, 10, 23, 59, 0, 0, time.UTC)
	travel := time.Date(2026, 8, 17, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 90, RefundPercent(travel, now))
}

func TestDayCodeOf(t *testing.T) {
	// 2026-08-10 is a Monday
	monday := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon", dayCodeOf(monday))
	assert.Equal(t, "Tue", dayCodeOf(monday.AddDate(0, 0, 1)))
	assert.Equal(t, "Sat", dayCodeOf(monday.AddDate(0, 0, 5)))
	assert.Equal(t, "Sun", dayCodeOf(monday.AddDate(0, 0, 6)))
}
