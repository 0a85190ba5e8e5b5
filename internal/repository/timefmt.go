package repository

import (
	"fmt"
	"time"
)

// storedTimeLayout is fixed-width so TEXT comparison in SQLite orders chronologically.
const storedTimeLayout = "2006-01-02 15:04:05.000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(storedTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
