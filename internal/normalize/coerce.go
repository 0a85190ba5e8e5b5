package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var errUnparseable = errors.New("unparseable value")

const (
	layoutLocalDateTime = "2006-01-02T15:04:05"
	layoutDateTime      = "2006-01-02 15:04:05"
	layoutDate          = "2006-01-02"

	// maxEpochMillis is ±100,000,000 days around 1970, the range of a JavaScript Date.
	maxEpochMillis = 8.64e15
)

// numberLike covers json.Number from both encoding/json and goccy/go-json.
type numberLike interface {
	Float64() (float64, error)
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case numberLike:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case numberLike:
		n, err := t.Float64()
		if err != nil {
			return 0, errUnparseable
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, errUnparseable
		}
		f = n
	default:
		return 0, errUnparseable
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errUnparseable
	}
	return f, nil
}

func asInt(v any) (int, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errUnparseable
	}
	return int(f), nil
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	default:
		return false
	}
}

// asTime accepts RFC3339 (with or without fraction), zoneless date-times and dates
// (taken as UTC), time.Time values, and epoch milliseconds.
func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{time.RFC3339Nano, layoutLocalDateTime, layoutDateTime, layoutDate} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, errUnparseable
	default:
		ms, err := asFloat(v)
		if err != nil || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, errUnparseable
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
}
