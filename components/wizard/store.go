package wizard

import (
	"fmt"
	"strings"
	"sync"
)

// FieldStore holds the form data of a single wizard session. Values are
// addressed by dotted path ("location.city") and stored as nested maps.
type FieldStore struct {
	mu     sync.RWMutex
	schema *Schema
	data   map[string]any
}

// NewFieldStore creates an empty store. When schema is nil any path and value
// shape is accepted; otherwise writes are checked against it and the declared
// defaults are applied.
func NewFieldStore(schema *Schema) *FieldStore {
	s := &FieldStore{schema: schema}
	s.Reset()
	return s
}

// Schema returns the schema guarding the store, if any.
func (s *FieldStore) Schema() *Schema {
	return s.schema
}

// Set writes value at path. A nil value clears the field.
func (s *FieldStore) Set(path string, value any) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	if value == nil {
		if s.schema != nil {
			if _, ok := s.schema.Field(path); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
		}
		s.mu.Lock()
		deletePath(s.data, parts)
		s.mu.Unlock()
		return nil
	}
	normalized, err := s.schema.check(path, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return setPath(s.data, parts, normalized)
}

// Get returns a copy of the value stored at path.
func (s *FieldStore) Get(path string) (any, bool) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := lookupPath(s.data, parts)
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// Snapshot returns an immutable deep copy of the current form data.
func (s *FieldStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{data: cloneMap(s.data)}
}

// Reset discards every value and re-applies schema defaults.
func (s *FieldStore) Reset() {
	data := map[string]any{}
	for _, spec := range s.schema.Fields() {
		if spec.Default == nil {
			continue
		}
		parts, _ := splitPath(spec.Path)
		_ = setPath(data, parts, cloneValue(spec.Default))
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Snapshot is a read-only view of form data handed to validators and
// submitters.
type Snapshot struct {
	data map[string]any
}

// NewSnapshot builds a snapshot from a nested map, copying it.
func NewSnapshot(data map[string]any) Snapshot {
	return Snapshot{data: cloneMap(data)}
}

// Value returns a copy of the raw value at path.
func (s Snapshot) Value(path string) (any, bool) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	value, ok := lookupPath(s.data, parts)
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// Has reports whether path holds a value.
func (s Snapshot) Has(path string) bool {
	_, ok := s.Value(path)
	return ok
}

// String returns the string at path or "" when absent or of another kind.
func (s Snapshot) String(path string) string {
	value, _ := s.Value(path)
	str, _ := value.(string)
	return str
}

// Number returns the numeric value at path.
func (s Snapshot) Number(path string) (float64, bool) {
	value, ok := s.Value(path)
	if !ok {
		return 0, false
	}
	return toFloat(value)
}

// Bool returns the boolean at path.
func (s Snapshot) Bool(path string) bool {
	value, _ := s.Value(path)
	b, _ := value.(bool)
	return b
}

// List returns the list at path.
func (s Snapshot) List(path string) []any {
	value, _ := s.Value(path)
	list, _ := toList(value)
	return list
}

// Strings returns the string items of the list at path.
func (s Snapshot) Strings(path string) []string {
	var out []string
	for _, item := range s.List(path) {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// Map returns the nested map at path.
func (s Snapshot) Map(path string) map[string]any {
	value, _ := s.Value(path)
	m, _ := value.(map[string]any)
	return m
}

// File returns the file handle at path.
func (s Snapshot) File(path string) (FileHandle, bool) {
	value, ok := s.Value(path)
	if !ok {
		return FileHandle{}, false
	}
	return toFileHandle(value)
}

// Data returns a deep copy of the whole form, suitable for encoding.
func (s Snapshot) Data() map[string]any {
	return cloneMap(s.data)
}

func setPath(root map[string]any, parts []string, value any) error {
	node := root
	for i, part := range parts[:len(parts)-1] {
		next, ok := node[part]
		if !ok {
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a group", ErrFieldKind, strings.Join(parts[:i+1], "."))
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
	return nil
}

func lookupPath(root map[string]any, parts []string) (any, bool) {
	var current any = root
	for _, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func deletePath(root map[string]any, parts []string) {
	node := root
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, parts[len(parts)-1])
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []FileHandle:
		return append([]FileHandle(nil), v...)
	default:
		return v
	}
}
