package spec

import (
	"encoding/json"
	"strings"
	"sync"
)

// Schema is a named collection of attributes identified by a URN, as defined
// in RFC 7643 Section 7. A resource's "schemas" attribute lists the URNs of
// every Schema that contributed attributes to it.
type Schema struct {
	ID          string
	Name        string
	Description string
	Attributes  []*Attribute
}

// Attribute returns the top-level attribute addressed by name (case
// insensitive), or nil if this schema defines no such attribute.
func (s *Schema) Attribute(name string) *Attribute {
	for _, attr := range s.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr
		}
	}
	return nil
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	sj := schemaJSON{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
	}
	for _, attr := range s.Attributes {
		sj.Attributes = append(sj.Attributes, toAttributeJSON(attr))
	}
	return json.Marshal(sj)
}

var (
	registry     *schemaRegistry
	registryOnce sync.Once
)

type schemaRegistry struct {
	mu sync.RWMutex
	db map[string]*Schema
}

// Register relates the schema with its URN id in the registry. It does not
// check for existing entries and will silently overwrite them.
func (r *schemaRegistry) Register(schema *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db[schema.ID] = schema
}

// Get returns the schema registered under the given URN, or ok=false if
// no such schema was registered.
func (r *schemaRegistry) Get(urn string) (schema *Schema, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok = r.db[urn]
	return
}

// ForEachSchema invokes callback on every registered schema. Order is
// unspecified.
func (r *schemaRegistry) ForEachSchema(callback func(schema *Schema)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, schema := range r.db {
		callback(schema)
	}
}

func (r *schemaRegistry) mustGet(urn string) *Schema {
	schema, ok := r.Get(urn)
	if !ok {
		panic("spec: schema " + urn + " was not registered")
	}
	return schema
}

// Schemas returns the package-level schema registry, lazily populated with
// the schemas defined in registry.go on first access.
func Schemas() *schemaRegistry {
	registryOnce.Do(func() {
		registry = &schemaRegistry{db: map[string]*Schema{}}
		populateRegistry(registry)
	})
	return registry
}
