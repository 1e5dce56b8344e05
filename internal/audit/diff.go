package audit

import (
	"bytes"
	"encoding/json"
)

// FieldChange captures one field's before/after values in an update diff
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Housekeeping timestamps never appear in diffs
var excludedFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// normalize round-trips a record through JSON so snapshots compare structurally
// regardless of their Go types. Returns nil for nil records, nil pointers and
// anything that doesn't marshal to an object.
func normalize(record any) map[string]any {
	if record == nil {
		return nil
	}
	if m, ok := record.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// ComputeChanges returns the field-level diff between two snapshots of the same
// entity. Creation and deletion (one snapshot absent) yield an empty diff;
// field history is only tracked for updates.
func ComputeChanges(oldRecord, newRecord any) map[string]FieldChange {
	changes := make(map[string]FieldChange)

	oldMap := normalize(oldRecord)
	newMap := normalize(newRecord)
	if oldMap == nil || newMap == nil {
		return changes
	}

	for key := range unionKeys(oldMap, newMap) {
		if excludedFields[key] {
			continue
		}
		from, to := oldMap[key], newMap[key]
		if sameValue(from, to) {
			continue
		}
		changes[key] = FieldChange{From: from, To: to}
	}
	return changes
}

func unionKeys(a, b map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}

// sameValue compares two JSON-normalized values by re-serialization
func sameValue(a, b any) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return aerr == nil && berr == nil
	}
	return bytes.Equal(aj, bj)
}
