package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldKind enumerates the value shapes a form field may hold.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindBool   FieldKind = "bool"
	KindList   FieldKind = "list"
	KindFile   FieldKind = "file"
	KindMap    FieldKind = "map"
)

var (
	// ErrUnknownField is returned when a path is not declared by the schema.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrFieldKind is returned when a value does not match the declared kind.
	ErrFieldKind = errors.New("wizard: value does not match field kind")
	// ErrInvalidPath is returned for empty paths or empty path segments.
	ErrInvalidPath = errors.New("wizard: invalid field path")
)

// FieldSpec declares one addressable leaf of the form.
type FieldSpec struct {
	Path    string    `json:"path" yaml:"path"`
	Kind    FieldKind `json:"kind" yaml:"kind"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Default any       `json:"default,omitempty" yaml:"default,omitempty"`
}

// Schema lists every path a FieldStore accepts together with its kind.
type Schema struct {
	fields map[string]FieldSpec
	order  []string
}

// NewSchema validates and indexes field specs. Paths must be unique and a
// declared leaf can never be the parent of another declared path.
func NewSchema(specs ...FieldSpec) (*Schema, error) {
	s := &Schema{fields: make(map[string]FieldSpec, len(specs))}
	for _, spec := range specs {
		if _, err := splitPath(spec.Path); err != nil {
			return nil, fmt.Errorf("wizard: schema field %q: %w", spec.Path, err)
		}
		if !validKind(spec.Kind) {
			return nil, fmt.Errorf("wizard: schema field %s has unsupported kind %q", spec.Path, spec.Kind)
		}
		if _, exists := s.fields[spec.Path]; exists {
			return nil, fmt.Errorf("wizard: schema declares %s twice", spec.Path)
		}
		if spec.Default != nil {
			normalized, err := normalizeValue(spec.Kind, spec.Default)
			if err != nil {
				return nil, fmt.Errorf("wizard: default for %s: %w", spec.Path, err)
			}
			spec.Default = normalized
		}
		s.fields[spec.Path] = spec
		s.order = append(s.order, spec.Path)
	}
	paths := append([]string(nil), s.order...)
	sort.Strings(paths)
	for i := 1; i < len(paths); i++ {
		if strings.HasPrefix(paths[i], paths[i-1]+".") {
			return nil, fmt.Errorf("wizard: schema field %s is nested under leaf %s", paths[i], paths[i-1])
		}
	}
	return s, nil
}

// MustSchema panics when the specs are invalid. Intended for package-level
// schema declarations.
func MustSchema(specs ...FieldSpec) *Schema {
	s, err := NewSchema(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Field returns the spec declared for path.
func (s *Schema) Field(path string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	spec, ok := s.fields[path]
	return spec, ok
}

// Fields returns the specs in declaration order.
func (s *Schema) Fields() []FieldSpec {
	if s == nil {
		return nil
	}
	out := make([]FieldSpec, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.fields[path])
	}
	return out
}

func (s *Schema) check(path string, value any) (any, error) {
	if s == nil {
		return cloneValue(value), nil
	}
	spec, ok := s.fields[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	normalized, err := normalizeValue(spec.Kind, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return normalized, nil
}

func validKind(kind FieldKind) bool {
	switch kind {
	case KindString, KindNumber, KindBool, KindList, KindFile, KindMap:
		return true
	}
	return false
}

func normalizeValue(kind FieldKind, value any) (any, error) {
	switch kind {
	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindNumber:
		if v, ok := toFloat(value); ok {
			return v, nil
		}
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindList:
		if v, ok := toList(value); ok {
			return v, nil
		}
	case KindFile:
		if v, ok := toFileHandle(value); ok {
			return v, nil
		}
	case KindMap:
		if v, ok := toMap(value); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", ErrFieldKind, kind, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []FileHandle:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

func toFileHandle(value any) (FileHandle, bool) {
	switch v := value.(type) {
	case FileHandle:
		return v, !v.IsZero()
	case *FileHandle:
		if v == nil {
			return FileHandle{}, false
		}
		return *v, !v.IsZero()
	case map[string]any:
		h := FileHandle{}
		h.Name, _ = v["name"].(string)
		h.Ref, _ = v["ref"].(string)
		h.ContentType, _ = v["content_type"].(string)
		if size, ok := toFloat(v["size"]); ok {
			h.Size = int64(size)
		}
		return h, !h.IsZero()
	}
	return FileHandle{}, false
}

func toMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v), true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = item
		}
		return out, true
	}
	return nil, false
}

func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, ErrInvalidPath
		}
	}
	return parts, nil
}
