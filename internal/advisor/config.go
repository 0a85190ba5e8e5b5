package advisor

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MatchMode controls how machine and schedule operation names are compared.
type MatchMode string

const (
	// MatchExact compares operation names byte for byte. This is the default.
	MatchExact MatchMode = "exact"
	// MatchFold compares operation names under Unicode case folding.
	MatchFold MatchMode = "fold"
)

// Default tuning values.
const (
	DefaultHoursAvailablePerWindow = 8.0
	DefaultCriticalWithinDays      = 3
	DefaultHighWithinDays          = 7

	DefaultIdleAction     = "Move lower-priority tasks earlier here"
	DefaultOverloadAction = "Consider outsourcing or adding shifts."
	DefaultCriticalAction = "Immediate attention required"
	DefaultHighAction     = "Consider expediting this order"
)

// ErrInvalidConfig is returned by Validate and NewEngine for unusable settings.
var ErrInvalidConfig = errors.New("invalid advisor config")

// Config holds every tunable of the recommendation engine.
type Config struct {
	// HoursAvailablePerWindow is the hour budget of one shift/day.
	HoursAvailablePerWindow float64
	// Orders due within CriticalWithinDays are Critical; within HighWithinDays, High.
	CriticalWithinDays int
	HighWithinDays     int
	OperationMatch     MatchMode
	// ConcurrentDetectors runs the three detectors on separate goroutines.
	ConcurrentDetectors bool

	IdleAction     string
	OverloadAction string
	CriticalAction string
	HighAction     string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		HoursAvailablePerWindow: DefaultHoursAvailablePerWindow,
		CriticalWithinDays:      DefaultCriticalWithinDays,
		HighWithinDays:          DefaultHighWithinDays,
		OperationMatch:          MatchExact,
		ConcurrentDetectors:     true,
		IdleAction:              DefaultIdleAction,
		OverloadAction:          DefaultOverloadAction,
		CriticalAction:          DefaultCriticalAction,
		HighAction:              DefaultHighAction,
	}
}

// ParseMatchMode accepts "exact" or "fold" in any case; empty means exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchFold:
		return MatchFold, nil
	default:
		return "", fmt.Errorf("%w: unknown operation match mode %q", ErrInvalidConfig, s)
	}
}

// Validate checks the config and fills empty action texts with defaults.
func (c *Config) Validate() error {
	h := c.HoursAvailablePerWindow
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return fmt.Errorf("%w: hours available per window must be > 0, got %v", ErrInvalidConfig, h)
	}
	if c.CriticalWithinDays < 0 || c.HighWithinDays < 0 {
		return fmt.Errorf("%w: urgency thresholds must not be negative, got critical %d and high %d days",
			ErrInvalidConfig, c.CriticalWithinDays, c.HighWithinDays)
	}
	if c.CriticalWithinDays > c.HighWithinDays {
		return fmt.Errorf("%w: critical threshold (%d days) exceeds high threshold (%d days)",
			ErrInvalidConfig, c.CriticalWithinDays, c.HighWithinDays)
	}
	mode, err := ParseMatchMode(string(c.OperationMatch))
	if err != nil {
		return err
	}
	c.OperationMatch = mode

	if c.IdleAction == "" {
		c.IdleAction = DefaultIdleAction
	}
	if c.OverloadAction == "" {
		c.OverloadAction = DefaultOverloadAction
	}
	if c.CriticalAction == "" {
		c.CriticalAction = DefaultCriticalAction
	}
	if c.HighAction == "" {
		c.HighAction = DefaultHighAction
	}
	return nil
}

// operationKey maps an operation name to its comparison key under the mode.
// Fold keys agree exactly when strings.EqualFold does, so "ſTITCH" matches "stitch".
func (m MatchMode) operationKey(op string) string {
	if m == MatchFold {
		return strings.ToLower(strings.ToUpper(op))
	}
	return op
}
