// Package timeparse parses user-entered work durations. The tool accepts
// decimal hours ("1.5") and colon notation ("1:30") interchangeably across
// every entry path; parsing is centralized here so the bounds checks are
// uniform.
package timeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHours parses input as decimal hours or H:MM and validates the
// result is in (0, 24].
func ParseHours(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("hours input cannot be empty")
	}

	var (
		hours float64
		err   error
	)
	if strings.Contains(trimmed, ":") {
		hours, err = parseColon(trimmed)
	} else {
		hours, err = parseDecimal(trimmed)
	}
	if err != nil {
		return 0, err
	}

	if hours <= 0 {
		return 0, fmt.Errorf("hours must be greater than 0")
	}
	if hours > 24 {
		return 0, fmt.Errorf("hours cannot exceed 24")
	}
	return hours, nil
}

func parseDecimal(input string) (float64, error) {
	hours, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("invalid hours format: %q", input)
	}
	return hours, nil
}

func parseColon(input string) (float64, error) {
	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("colon format must be H:MM (e.g., 1:30)")
	}

	hours, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hours value: %q", parts[0])
	}
	minutes, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes value: %q", parts[1])
	}
	if minutes >= 60 {
		return 0, fmt.Errorf("minutes must be between 0 and 59, got %d", minutes)
	}

	return float64(hours) + float64(minutes)/60, nil
}
