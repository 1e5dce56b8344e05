package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"fleetdocs/internal/models"
)

// placeholder names a dotted path into the record and a literal fallback used
// when the path is missing or empty
type placeholder struct {
	path     string
	fallback string
}

type subjectTemplate struct {
	pattern      string
	placeholders map[string]placeholder
}

var subjectTemplates = map[models.EntityType]subjectTemplate{
	models.EntityVehicle: {
		pattern: "vehicle {name}",
		placeholders: map[string]placeholder{
			"name": {path: "name", fallback: "(unnamed)"},
		},
	},
	models.EntityDocumentType: {
		pattern: "document type {name}",
		placeholders: map[string]placeholder{
			"name": {path: "name", fallback: "(unnamed)"},
		},
	},
	models.EntityVehicleDocument: {
		pattern: "{document_type} for {vehicle}",
		placeholders: map[string]placeholder{
			"document_type": {path: "document_type.name", fallback: "document"},
			"vehicle":       {path: "vehicle.name", fallback: "unknown vehicle"},
		},
	},
	models.EntityReminderConfig: {
		pattern: "reminder rule {name}",
		placeholders: map[string]placeholder{
			"name": {path: "name", fallback: "(unnamed)"},
		},
	},
	models.EntityReminderRecipient: {
		pattern: "recipient {email}",
		placeholders: map[string]placeholder{
			"email": {path: "email", fallback: "(unknown)"},
		},
	},
}

// updateRule describes one human-readable interpretation of an update. A rule
// matches when at least one of its fields changed and its condition (if any)
// holds over the limited before/after views. Lower priority wins when several
// rules match.
type updateRule struct {
	fields    []string
	condition func(from, to map[string]any) bool
	message   string
	priority  int
}

var updateRules = map[models.EntityType][]updateRule{
	models.EntityVehicle: {
		{fields: []string{"name"}, message: "was renamed", priority: 10},
		{fields: []string{"registration_no"}, message: "was re-registered", priority: 20},
		{fields: []string{"status"}, condition: fieldBecame("status", string(models.VehicleDecommissed)), message: "was decommissioned", priority: 5},
		{fields: []string{"status"}, message: "changed status", priority: 30},
	},
	models.EntityVehicleDocument: {
		{fields: []string{"expiry_date"}, condition: dateMovedLater("expiry_date"), message: "was renewed", priority: 10},
		{fields: []string{"expiry_date"}, condition: dateMovedEarlier("expiry_date"), message: "had its expiry date corrected", priority: 20},
		{fields: []string{"document_no"}, message: "had its document number changed", priority: 30},
		{fields: []string{"link"}, message: "had a new scan attached", priority: 40},
		{fields: []string{"start_date"}, message: "had its validity period adjusted", priority: 50},
		{fields: []string{"notes"}, message: "had its notes updated", priority: 60},
	},
	models.EntityReminderConfig: {
		{fields: []string{"enabled"}, condition: fieldBecame("enabled", true), message: "was enabled", priority: 10},
		{fields: []string{"enabled"}, condition: fieldBecame("enabled", false), message: "was disabled", priority: 11},
		{fields: []string{"name"}, message: "was renamed", priority: 20},
		{fields: []string{"offset_days"}, message: "had its offset changed", priority: 30},
	},
	models.EntityReminderRecipient: {
		{fields: []string{"active"}, condition: fieldBecame("active", true), message: "was activated", priority: 10},
		{fields: []string{"active"}, condition: fieldBecame("active", false), message: "was deactivated", priority: 11},
		{fields: []string{"email"}, message: "had its email changed", priority: 20},
		{fields: []string{"name"}, message: "was renamed", priority: 30},
	},
}

// fieldBecame matches when the field's new value equals want
func fieldBecame(field string, want any) func(from, to map[string]any) bool {
	return func(_, to map[string]any) bool {
		return sameValue(to[field], want)
	}
}

// dateMovedLater matches when the field's new date is strictly after the old one
func dateMovedLater(field string) func(from, to map[string]any) bool {
	return func(from, to map[string]any) bool {
		before, ok1 := asTime(from[field])
		after, ok2 := asTime(to[field])
		return ok1 && ok2 && after.After(before)
	}
}

// dateMovedEarlier matches when the field's new date is strictly before the old one
func dateMovedEarlier(field string) func(from, to map[string]any) bool {
	return func(from, to map[string]any) bool {
		before, ok1 := asTime(from[field])
		after, ok2 := asTime(to[field])
		return ok1 && ok2 && after.Before(before)
	}
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BuildSummary renders a one-line human-readable description of a mutation.
// Pure string composition; any missing data degrades to fallback literals so
// audit logging can never fail the operation it describes.
func BuildSummary(entityType models.EntityType, action models.AuditAction, changes map[string]FieldChange, record any) string {
	subject := buildSubject(entityType, record)

	switch action {
	case models.AuditCreate:
		return subject + " was created"
	case models.AuditDelete:
		return subject + " was deleted"
	}

	var matched []updateRule
	for _, rule := range updateRules[entityType] {
		if !touchesAny(rule.fields, changes) {
			continue
		}
		if rule.condition != nil {
			from, to := limitedViews(rule.fields, changes, record)
			if !rule.condition(from, to) {
				continue
			}
		}
		matched = append(matched, rule)
	}

	switch len(matched) {
	case 0:
		return subject + " was updated"
	case 1:
		return subject + " " + matched[0].message
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].priority < matched[j].priority })
		return subject + " " + matched[0].message + " + other updates"
	}
}

func touchesAny(fields []string, changes map[string]FieldChange) bool {
	for _, f := range fields {
		if _, ok := changes[f]; ok {
			return true
		}
	}
	return false
}

// limitedViews builds the before/after maps a rule condition sees: changed
// fields come from the diff, the rule's unchanged fields from the record itself.
func limitedViews(fields []string, changes map[string]FieldChange, record any) (map[string]any, map[string]any) {
	from := make(map[string]any, len(fields))
	to := make(map[string]any, len(fields))
	m := normalize(record)
	for _, f := range fields {
		if ch, ok := changes[f]; ok {
			from[f] = ch.From
			to[f] = ch.To
			continue
		}
		if m != nil {
			from[f] = m[f]
			to[f] = m[f]
		}
	}
	return from, to
}

// buildSubject resolves the human-readable subject of a summary from the
// entity's template, falling back to the entity type name when no template is
// declared or a placeholder cannot be resolved.
func buildSubject(entityType models.EntityType, record any) string {
	tpl, ok := subjectTemplates[entityType]
	if !ok {
		return strings.ToLower(string(entityType))
	}

	m := normalize(record)
	subject := tpl.pattern
	for name, ph := range tpl.placeholders {
		subject = strings.ReplaceAll(subject, "{"+name+"}", resolvePlaceholder(m, ph))
	}
	return subject
}

func resolvePlaceholder(m map[string]any, ph placeholder) string {
	v, ok := valueAtPath(m, ph.path)
	if !ok {
		return ph.fallback
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return ph.fallback
		}
		return val
	case float64, bool, json.Number:
		return fmt.Sprintf("%v", val)
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return ph.fallback
		}
		return string(raw)
	default:
		return ph.fallback
	}
}
