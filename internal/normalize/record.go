package normalize

// Record is one decoded upstream JSON object.
type Record map[string]any

// RawSnapshot holds the three collections exactly as a producer delivered them.
// A nil collection means the producer did not deliver it.
type RawSnapshot struct {
	Orders   []Record `json:"orders"`
	Machines []Record `json:"machines"`
	Schedule []Record `json:"schedule"`
}

// lookup returns the first non-nil value among keys, and the key it was found under.
func (r Record) lookup(keys ...string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}
