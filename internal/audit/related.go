package audit

import (
	"strings"

	"fleetdocs/internal/models"
)

// relatedField declares one related entity reference on a record: the id field
// to copy through, and optionally a dotted path to a human-readable name plus
// the label to emit it under (defaults to the path with dots replaced by
// underscores).
type relatedField struct {
	idField   string
	nameField string
	label     string
}

func (rf relatedField) outputLabel() string {
	if rf.label != "" {
		return rf.label
	}
	return strings.ReplaceAll(rf.nameField, ".", "_")
}

var relatedFields = map[models.EntityType][]relatedField{
	models.EntityVehicleDocument: {
		{idField: "vehicle_id", nameField: "vehicle.name", label: "vehicle_name"},
		{idField: "document_type_id", nameField: "document_type.name", label: "document_type_name"},
	},
}

// valueAtPath walks a dotted path through nested JSON objects. Returns false on
// any missing or non-object intermediate and on null leaves; never panics.
func valueAtPath(root any, path string) (any, bool) {
	current := root
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// BuildRelated resolves the declared related-entity references for an entity
// type against a record snapshot. Entity types with no declarations yield an
// empty mapping.
func BuildRelated(entityType models.EntityType, record any) map[string]any {
	related := make(map[string]any)
	m := normalize(record)
	if m == nil {
		return related
	}
	for _, rf := range relatedFields[entityType] {
		if id, ok := m[rf.idField]; ok && id != nil {
			related[rf.idField] = id
		}
		if rf.nameField == "" {
			continue
		}
		if name, ok := valueAtPath(m, rf.nameField); ok {
			related[rf.outputLabel()] = name
		}
	}
	return related
}
