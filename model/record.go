package model

// Record is the value stored under a key: an arbitrary JSON object.
// The index treats records as opaque; it never inspects or copies them,
// so callers that hold a returned Record must treat it as read-only.
type Record map[string]any

// Clone returns a copy of the record with its own top-level map.
// Nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
