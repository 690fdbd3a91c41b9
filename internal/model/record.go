// Package model defines data structures for the dashboard session store.
package model

// Field names the collection store manages itself. Everything else in a
// Record is collection-specific and passes through untouched.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldVersion   = "version"
	FieldUserID    = "user_id"
)

// Record is a single stored entity. Records are heterogeneous maps so that
// each collection can carry its own fields; the store only interprets the
// managed fields above.
type Record map[string]any

// ID returns the record id, or "" if unset.
func (r Record) ID() string {
	s, _ := r[FieldID].(string)
	return s
}

// CreatedAt returns the creation timestamp string, or "" if unset.
func (r Record) CreatedAt() string {
	s, _ := r[FieldCreatedAt].(string)
	return s
}

// UpdatedAt returns the last-update timestamp string, or "" if unset.
func (r Record) UpdatedAt() string {
	s, _ := r[FieldUpdatedAt].(string)
	return s
}

// UserID returns the owning tenant id, or "" if unset.
func (r Record) UserID() string {
	s, _ := r[FieldUserID].(string)
	return s
}

// Version returns the record version. JSON round-trips turn integers into
// float64, so both representations are accepted. Unset versions report 0.
func (r Record) Version() int {
	switch v := r[FieldVersion].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a copy of the record with patch fields applied on top.
// Managed identity fields (id, created_at, user_id) are never overwritten.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedAt || k == FieldUserID {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Record:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
