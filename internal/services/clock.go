package services

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// parseClock parses an HH:MM value into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hours*60 + minutes, nil
}

// formatClock renders minutes since midnight as HH:MM, wrapping at 24h.
func formatClock(totalMinutes int) string {
	m := totalMinutes % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// shiftClock adds minutes to an HH:MM value and reports how many midnights
// the shift crossed.
func shiftClock(value string, minutes int) (string, int, error) {
	base, err := parseClock(value)
	if err != nil {
		return "", 0, err
	}
	total := base + minutes
	days := total / minutesPerDay
	if total < 0 {
		days = -((-total + minutesPerDay - 1) / minutesPerDay)
	}
	return formatClock(total), days, nil
}

// clockDiff returns to − from in minutes. Both are same-day clock values;
// a negative result means `to` is earlier on the clock.
func clockDiff(from, to string) (int, error) {
	f, err := parseClock(from)
	if err != nil {
		return 0, err
	}
	t, err := parseClock(to)
	if err != nil {
		return 0, err
	}
	return t - f, nil
}
