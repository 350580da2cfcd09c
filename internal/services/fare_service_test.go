package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartrail/train-reservation-backend/internal/models"
)

func TestCalculateReservedFare(t *testing.T) {
	// AC at 4.00/km, Tatkal at 1.5x: 4 * 100 * 1.5 * 2
	fare := CalculateReservedFare(models.ClassAC, models.QuotaTatkal, 100, 2)
	assert.InDelta(t, 1200.00, fare, 0.001)

	// General class, General quota: 1.50 * 200 * 1.0 * 1
	fare = CalculateReservedFare(models.ClassGeneral, models.QuotaGeneral, 200, 1)
	assert.InDelta(t, 300.00, fare, 0.001)

	// Ladies quota discounts to 75%
	fare = CalculateReservedFare(models.ClassSleeper, models.QuotaLadies, 100, 1)
	assert.InDelta(t, 150.00, fare, 0.001)

	// Senior citizens pay half
	fare = CalculateReservedFare(models.ClassSleeper, models.QuotaSeniorCitizen, 100, 1)
	assert.InDelta(t, 100.00, fare, 0.001)

	// unknown class falls back to the default rate, unknown quota pays full
	fare = CalculateReservedFare("Chair", "Defence", 50, 1)
	assert.InDelta(t, 100.00, fare, 0.001)

	// zero distance books at zero fare rather than failing
	fare = CalculateReservedFare(models.ClassAC, models.QuotaGeneral, 0, 3)
	assert.Zero(t, fare)
}

func TestCalculateLocalFare(t *testing.T) {
	assert.InDelta(t, 10.00, CalculateLocalFare(models.LocalClassSecond, 1), 0.001)
	assert.InDelta(t, 40.00, CalculateLocalFare(models.LocalClassSecond, 4), 0.001)

	// first class pays double
	assert.InDelta(t, 20.00, CalculateLocalFare(models.LocalClassFirst, 1), 0.001)
	assert.InDelta(t, 60.00, CalculateLocalFare(models.LocalClassFirst, 3), 0.001)
}
