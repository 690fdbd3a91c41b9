package store

import "unicode/utf8"

// FieldRule constrains one field of a collection's records.
type FieldRule struct {
	Field    string
	Required bool
	// MaxLen bounds string fields in runes. Zero means unbounded.
	MaxLen int
}

// Schema declares the per-collection rules applied on create and update.
// Records may always carry extra fields beyond the declared ones.
type Schema struct {
	Collection string
	Rules      []FieldRule
}

// Validate checks a record against the schema, collecting every violated
// rule rather than stopping at the first.
func (s Schema) Validate(rec map[string]any) *ValidationError {
	var violations []FieldViolation

	for _, rule := range s.Rules {
		val, present := rec[rule.Field]

		if rule.Required {
			if !present || val == nil || val == "" {
				violations = append(violations, FieldViolation{
					Field: rule.Field,
					Rule:  "required",
				})
				continue
			}
		}

		if rule.MaxLen > 0 {
			if str, ok := val.(string); ok && utf8.RuneCountInString(str) > rule.MaxLen {
				violations = append(violations, FieldViolation{
					Field: rule.Field,
					Rule:  "exceeds maximum length",
				})
			}
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Collection: s.Collection, Violations: violations}
	}
	return nil
}

// Registry holds the registered schema per collection. Collections without
// a schema accept any record.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register adds or replaces the schema for a collection.
func (r *Registry) Register(s Schema) {
	r.schemas[s.Collection] = s
}

// Validate applies the collection's schema if one is registered.
func (r *Registry) Validate(collection string, rec map[string]any) *ValidationError {
	s, ok := r.schemas[collection]
	if !ok {
		return nil
	}
	return s.Validate(rec)
}

// DefaultRegistry returns the registry for the known dashboard collections.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Schema{
		Collection: CollectionAgents,
		Rules: []FieldRule{
			{Field: "name", Required: true, MaxLen: 120},
			{Field: "description", MaxLen: 1000},
			{Field: "voice", MaxLen: 64},
			{Field: "language", MaxLen: 16},
		},
	})
	r.Register(Schema{
		Collection: CollectionCalls,
		Rules: []FieldRule{
			{Field: "phone_number", Required: true, MaxLen: 32},
			{Field: "direction", MaxLen: 16},
		},
	})
	r.Register(Schema{
		Collection: CollectionComplianceScripts,
		Rules: []FieldRule{
			{Field: "name", Required: true, MaxLen: 120},
			{Field: "content", Required: true, MaxLen: 10000},
		},
	})
	r.Register(Schema{
		Collection: CollectionConversationFlows,
		Rules: []FieldRule{
			{Field: "name", Required: true, MaxLen: 120},
		},
	})
	r.Register(Schema{
		Collection: CollectionKnowledgeBases,
		Rules: []FieldRule{
			{Field: "name", Required: true, MaxLen: 120},
		},
	})
	r.Register(Schema{
		Collection: CollectionVideoSummaries,
		Rules: []FieldRule{
			{Field: "title", Required: true, MaxLen: 200},
		},
	})
	return r
}
