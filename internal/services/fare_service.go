package services

import "github.com/smartrail/train-reservation-backend/internal/models"

// Per-km rates by reserved class. Unknown classes fall back to the default
// rate rather than failing the booking.
var classRatesPerKm = map[string]float64{
	models.ClassGeneral: 1.50,
	models.ClassSleeper: 2.00,
	models.ClassAC:      4.00,
}

const defaultRatePerKm = 2.00

// Fare multipliers by quota. Unknown quotas pay full fare.
var quotaMultipliers = map[string]float64{
	models.QuotaGeneral:       1.00,
	models.QuotaLadies:        0.75,
	models.QuotaSeniorCitizen: 0.50,
	models.QuotaTatkal:        1.50,
}

// Flat base fare for unreserved local tickets, independent of distance.
const localBaseFare = 10.00

// CalculateReservedFare computes the distance-based fare for a reserved
// booking: rate/km × distance × quota multiplier × passenger count.
func CalculateReservedFare(classType, quota string, distance float64, passengers int) float64 {
	rate, ok := classRatesPerKm[classType]
	if !ok {
		rate = defaultRatePerKm
	}
	multiplier, ok := quotaMultipliers[quota]
	if !ok {
		multiplier = 1.00
	}
	return rate * distance * multiplier * float64(passengers)
}

// CalculateLocalFare computes the flat fare for an unreserved local ticket.
// First class pays double; distance never factors in.
func CalculateLocalFare(classType string, passengers int) float64 {
	fare := localBaseFare
	if classType == models.LocalClassFirst {
		fare *= 2
	}
	return fare * float64(passengers)
}
