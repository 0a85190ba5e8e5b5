package normalize

import (
	"time"

	"production_advisor/internal/models"
)

// Collection names used in diagnostics.
const (
	CollectionOrders   = "orders"
	CollectionMachines = "machines"
	CollectionSchedule = "schedule"
)

// Result is a normalized snapshot plus one diagnostic per dropped record.
type Result struct {
	Snapshot    models.Snapshot     `json:"snapshot"`
	Diagnostics []models.Diagnostic `json:"diagnostics"`
}

// Dropped returns how many records were discarded in collection.
func (r Result) Dropped(collection string) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Collection == collection {
			n++
		}
	}
	return n
}

// Normalizer maps one producer shape onto the canonical model.
type Normalizer struct {
	shape   Shape
	mappers shapeMappers
}

// New returns a normalizer for shape.
func New(shape Shape) (*Normalizer, error) {
	sh, err := ParseShape(string(shape))
	if err != nil {
		return nil, err
	}
	return &Normalizer{shape: sh, mappers: shapes[sh]}, nil
}

// Shape returns the producer shape this normalizer reads.
func (n *Normalizer) Shape() Shape {
	return n.shape
}

// Normalize converts raw into canonical collections. Bad records are dropped with a
// diagnostic; the batch is never aborted. Nil collections stay nil so callers can
// tell "not supplied" from "empty".
func (n *Normalizer) Normalize(raw RawSnapshot) Result {
	var res Result
	res.Snapshot.Orders = n.orders(raw.Orders, &res.Diagnostics)
	res.Snapshot.Machines = n.machines(raw.Machines, &res.Diagnostics)
	res.Snapshot.Schedule = n.schedule(raw.Schedule, &res.Diagnostics)
	return res
}

func (n *Normalizer) orders(in []Record, diags *[]models.Diagnostic) []models.Order {
	if in == nil {
		return nil
	}
	out := make([]models.Order, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, r := range in {
		id := recordID(r, n.mappers.orderIDKeys)
		o, ferr := n.mappers.order(r)
		if ferr == nil {
			ferr = checkOrder(o, seen)
		}
		if ferr != nil {
			*diags = append(*diags, diagnostic(CollectionOrders, i, id, ferr))
			continue
		}
		seen[o.OrderID] = struct{}{}
		out = append(out, o)
	}
	return out
}

func (n *Normalizer) machines(in []Record, diags *[]models.Diagnostic) []models.Machine {
	if in == nil {
		return nil
	}
	out := make([]models.Machine, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, r := range in {
		id := recordID(r, n.mappers.machineIDKeys)
		m, ferr := n.mappers.machine(r)
		if ferr == nil {
			ferr = checkMachine(m, seen)
		}
		if ferr != nil {
			*diags = append(*diags, diagnostic(CollectionMachines, i, id, ferr))
			continue
		}
		seen[m.MachineID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (n *Normalizer) schedule(in []Record, diags *[]models.Diagnostic) []models.ScheduleEntry {
	if in == nil {
		return nil
	}
	out := make([]models.ScheduleEntry, 0, len(in))
	for i, r := range in {
		e, ferr := n.mappers.schedule(r)
		if ferr == nil {
			ferr = checkScheduleEntry(e)
		}
		if ferr != nil {
			*diags = append(*diags, diagnostic(CollectionSchedule, i, "", ferr))
			continue
		}
		out = append(out, e)
	}
	return out
}

func checkOrder(o models.Order, seen map[string]struct{}) *fieldError {
	if _, dup := seen[o.OrderID]; dup {
		return &fieldError{field: "orderId", reason: "duplicate order id"}
	}
	if o.Quantity < 0 {
		return &fieldError{field: "quantity", reason: "must not be negative"}
	}
	return nil
}

func checkMachine(m models.Machine, seen map[string]struct{}) *fieldError {
	if _, dup := seen[m.MachineID]; dup {
		return &fieldError{field: "machineId", reason: "duplicate machine id"}
	}
	if m.OperationName == "" {
		return missing("operationName")
	}
	return nil
}

func checkScheduleEntry(e models.ScheduleEntry) *fieldError {
	switch {
	case e.OperationName == "":
		return missing("operationName")
	case e.DurationHours < 0:
		return &fieldError{field: "durationHours", reason: "must not be negative"}
	case e.Quantity < 0:
		return &fieldError{field: "quantity", reason: "must not be negative"}
	case bothSet(e.StartTime, e.EndTime) && e.StartTime.After(e.EndTime):
		return &fieldError{field: "startTime", reason: "start is after end"}
	}
	return nil
}

func bothSet(a, b time.Time) bool {
	return !a.IsZero() && !b.IsZero()
}

func recordID(r Record, keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	v, _, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	s, _ := asString(v)
	return s
}

func diagnostic(collection string, index int, id string, ferr *fieldError) models.Diagnostic {
	return models.Diagnostic{
		Collection: collection,
		Index:      index,
		RecordID:   id,
		Field:      ferr.field,
		Reason:     ferr.reason,
	}
}
