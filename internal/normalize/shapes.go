package normalize

import (
	"fmt"
	"strings"
	"time"

	"production_advisor/internal/models"
)

// Shape names a producer payload layout.
type Shape string

const (
	// ShapeKera is the plant REST API (/order, /machine, /schedule).
	ShapeKera Shape = "kera"
	// ShapeLegacy is the field layout of the first scheduler engine.
	ShapeLegacy Shape = "legacy"
	// ShapeCanonical mirrors the canonical model field names.
	ShapeCanonical Shape = "canonical"
)

// fieldError explains why a single record was rejected.
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string { return e.field + ": " + e.reason }

func missing(field string) *fieldError { return &fieldError{field: field, reason: "required field missing"} }

func invalid(field string, v any) *fieldError {
	return &fieldError{field: field, reason: fmt.Sprintf("invalid value %v", v)}
}

type (
	orderMapper    func(Record) (models.Order, *fieldError)
	machineMapper  func(Record) (models.Machine, *fieldError)
	scheduleMapper func(Record) (models.ScheduleEntry, *fieldError)
)

type shapeMappers struct {
	order    orderMapper
	machine  machineMapper
	schedule scheduleMapper
	// idKeys are tried, in order, to label diagnostics per collection.
	orderIDKeys   []string
	machineIDKeys []string
}

var shapes = map[Shape]shapeMappers{
	ShapeKera: {
		order:         keraOrder,
		machine:       keraMachine,
		schedule:      keraSchedule,
		orderIDKeys:   []string{"orderId"},
		machineIDKeys: []string{"_id", "machineId"},
	},
	ShapeLegacy: {
		order:         legacyOrder,
		machine:       legacyMachine,
		schedule:      legacySchedule,
		orderIDKeys:   []string{"orderNo", "orderNumber"},
		machineIDKeys: []string{"machineId"},
	},
	ShapeCanonical: {
		order:         canonicalOrder,
		machine:       canonicalMachine,
		schedule:      canonicalSchedule,
		orderIDKeys:   []string{"orderId"},
		machineIDKeys: []string{"machineId"},
	},
}

// ParseShape resolves a shape name; empty means canonical.
func ParseShape(s string) (Shape, error) {
	sh := Shape(strings.ToLower(strings.TrimSpace(s)))
	if sh == "" {
		return ShapeCanonical, nil
	}
	if _, ok := shapes[sh]; !ok {
		return "", fmt.Errorf("unknown record shape %q", s)
	}
	return sh, nil
}

// ---- field readers shared by all shapes ----

func requiredID(r Record, keys ...string) (string, *fieldError) {
	v, _, ok := r.lookup(keys...)
	if !ok {
		return "", missing(keys[0])
	}
	s, ok := asString(v)
	if !ok {
		return "", missing(keys[0])
	}
	return s, nil
}

func optionalString(r Record, keys ...string) string {
	v, _, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	s, _ := asString(v)
	return s
}

func optionalInt(r Record, keys ...string) (int, *fieldError) {
	v, k, ok := r.lookup(keys...)
	if !ok {
		return 0, nil
	}
	n, err := asInt(v)
	if err != nil {
		return 0, invalid(k, v)
	}
	return n, nil
}

func optionalFloat(r Record, keys ...string) (float64, *fieldError) {
	v, k, ok := r.lookup(keys...)
	if !ok {
		return 0, nil
	}
	f, err := asFloat(v)
	if err != nil {
		return 0, invalid(k, v)
	}
	return f, nil
}

// capacity degrades to unknown (0) when absent, unparseable or non-positive.
func capacity(r Record, keys ...string) float64 {
	f, ferr := optionalFloat(r, keys...)
	if ferr != nil || f <= 0 {
		return 0
	}
	return f
}

func optionalBool(r Record, keys ...string) bool {
	v, _, ok := r.lookup(keys...)
	return ok && asBool(v)
}

func requiredTime(r Record, keys ...string) (time.Time, *fieldError) {
	v, k, ok := r.lookup(keys...)
	if !ok {
		return time.Time{}, missing(keys[0])
	}
	ts, err := asTime(v)
	if err != nil {
		return time.Time{}, invalid(k, v)
	}
	return ts, nil
}

func optionalTimes(r Record, startKeys, endKeys []string) (models.ScheduleEntry, *fieldError) {
	var e models.ScheduleEntry
	if v, k, ok := r.lookup(startKeys...); ok {
		ts, err := asTime(v)
		if err != nil {
			return e, invalid(k, v)
		}
		e.StartTime = ts
	}
	if v, k, ok := r.lookup(endKeys...); ok {
		ts, err := asTime(v)
		if err != nil {
			return e, invalid(k, v)
		}
		e.EndTime = ts
	}
	return e, nil
}

// ---- generic builders parameterized by field names ----

type orderFields struct {
	id, item, qty, delivery, fixed []string
}

func buildOrder(r Record, f orderFields) (models.Order, *fieldError) {
	id, ferr := requiredID(r, f.id...)
	if ferr != nil {
		return models.Order{}, ferr
	}
	delivery, ferr := requiredTime(r, f.delivery...)
	if ferr != nil {
		return models.Order{}, ferr
	}
	qty, ferr := optionalInt(r, f.qty...)
	if ferr != nil {
		return models.Order{}, ferr
	}
	return models.Order{
		OrderID:      id,
		ItemCode:     optionalString(r, f.item...),
		Quantity:     qty,
		DeliveryDate: delivery,
		IsFixed:      optionalBool(r, f.fixed...),
	}, nil
}

type machineFields struct {
	id, operation, capacity []string
}

func buildMachine(r Record, f machineFields) (models.Machine, *fieldError) {
	id, ferr := requiredID(r, f.id...)
	if ferr != nil {
		return models.Machine{}, ferr
	}
	return models.Machine{
		MachineID:       id,
		OperationName:   optionalString(r, f.operation...),
		CapacityPerHour: capacity(r, f.capacity...),
	}, nil
}

type scheduleFields struct {
	operation, qty, duration, start, end []string
}

func buildSchedule(r Record, f scheduleFields) (models.ScheduleEntry, *fieldError) {
	e, ferr := optionalTimes(r, f.start, f.end)
	if ferr != nil {
		return e, ferr
	}
	qty, ferr := optionalInt(r, f.qty...)
	if ferr != nil {
		return e, ferr
	}
	hours, ferr := optionalFloat(r, f.duration...)
	if ferr != nil {
		return e, ferr
	}
	e.OperationName = optionalString(r, f.operation...)
	e.Quantity = qty
	e.DurationHours = hours
	return e, nil
}

// ---- kera ----

func keraOrder(r Record) (models.Order, *fieldError) {
	return buildOrder(r, orderFields{
		id:       []string{"orderId"},
		item:     []string{"item", "itemCode"},
		qty:      []string{"quantity"},
		delivery: []string{"deliveryDate"},
		fixed:    []string{"fixed"},
	})
}

func keraMachine(r Record) (models.Machine, *fieldError) {
	return buildMachine(r, machineFields{
		id:        []string{"_id", "machineId"},
		operation: []string{"name"},
		capacity:  []string{"capacity", "capacityPerHr"},
	})
}

// keraSchedule falls back to the nested machine reference for the operation name;
// the API sometimes embeds the whole machine object under machineId/machineID.
func keraSchedule(r Record) (models.ScheduleEntry, *fieldError) {
	e, ferr := buildSchedule(r, scheduleFields{
		operation: []string{"operation"},
		qty:       []string{"quantity"},
		duration:  []string{"duration"},
		start:     []string{"start_time"},
		end:       []string{"end_time"},
	})
	if ferr != nil || e.OperationName != "" {
		return e, ferr
	}
	if ref, _, ok := r.lookup("machineId", "machineID"); ok {
		if nested, ok := ref.(map[string]any); ok {
			e.OperationName = optionalString(Record(nested), "name", "operation")
		}
	}
	return e, nil
}

// ---- legacy ----

func legacyOrder(r Record) (models.Order, *fieldError) {
	return buildOrder(r, orderFields{
		id:       []string{"orderNo", "orderNumber"},
		item:     []string{"itemCode"},
		qty:      []string{"qty"},
		delivery: []string{"deliveryDate"},
		fixed:    []string{"nonChangeable", "isNonChangeable"},
	})
}

func legacyMachine(r Record) (models.Machine, *fieldError) {
	return buildMachine(r, machineFields{
		id:        []string{"machineId"},
		operation: []string{"operation"},
		capacity:  []string{"capacityPerHr"},
	})
}

func legacySchedule(r Record) (models.ScheduleEntry, *fieldError) {
	return buildSchedule(r, scheduleFields{
		operation: []string{"operation"},
		qty:       []string{"qty"},
		duration:  []string{"timeRequired"},
		start:     []string{"start"},
		end:       []string{"end"},
	})
}

// ---- canonical ----

func canonicalOrder(r Record) (models.Order, *fieldError) {
	return buildOrder(r, orderFields{
		id:       []string{"orderId"},
		item:     []string{"itemCode"},
		qty:      []string{"quantity"},
		delivery: []string{"deliveryDate"},
		fixed:    []string{"isFixed"},
	})
}

func canonicalMachine(r Record) (models.Machine, *fieldError) {
	return buildMachine(r, machineFields{
		id:        []string{"machineId"},
		operation: []string{"operationName"},
		capacity:  []string{"capacityPerHour", "capacityPerHr", "capacity"},
	})
}

func canonicalSchedule(r Record) (models.ScheduleEntry, *fieldError) {
	return buildSchedule(r, scheduleFields{
		operation: []string{"operationName"},
		qty:       []string{"quantity"},
		duration:  []string{"durationHours"},
		start:     []string{"startTime"},
		end:       []string{"endTime"},
	})
}
