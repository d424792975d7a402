package wizard

import (
	"errors"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema(
		FieldSpec{Path: "name", Kind: KindString},
		FieldSpec{Path: "capacity", Kind: KindNumber},
		FieldSpec{Path: "featured", Kind: KindBool, Default: false},
		FieldSpec{Path: "location.city", Kind: KindString},
		FieldSpec{Path: "location.zip", Kind: KindString},
		FieldSpec{Path: "images", Kind: KindList},
		FieldSpec{Path: "documents.permit", Kind: KindFile},
		FieldSpec{Path: "availability.hours", Kind: KindMap},
	)
	if err != nil {
		t.Fatalf("NewSchema returned error: %v", err)
	}
	return schema
}

func TestFieldStoreSetGetDottedPath(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	if err := store.Set("location.city", "Austin"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, ok := store.Get("location.city")
	if !ok || value != "Austin" {
		t.Fatalf("expected Austin, got %v (%v)", value, ok)
	}
	group, ok := store.Get("location")
	if !ok {
		t.Fatalf("expected nested group to exist")
	}
	if group.(map[string]any)["city"] != "Austin" {
		t.Fatalf("expected nested map, got %#v", group)
	}
}

func TestFieldStoreAppliesDefaults(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	value, ok := store.Get("featured")
	if !ok || value != false {
		t.Fatalf("expected default false, got %v (%v)", value, ok)
	}
	_ = store.Set("name", "Loft")
	store.Reset()
	if _, ok := store.Get("name"); ok {
		t.Fatalf("expected reset to clear name")
	}
}

func TestFieldStoreRejectsUnknownFieldsAndKinds(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	if err := store.Set("nickname", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := store.Set("capacity", "ten"); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
	if err := store.Set("documents.permit", FileHandle{}); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected empty file handle to be rejected, got %v", err)
	}
	if err := store.Set("", "x"); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestFieldStoreNormalizesValues(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	if err := store.Set("capacity", 12); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set("images", []string{"a.jpg", "b.jpg"}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set("documents.permit", map[string]any{"name": "permit.pdf", "ref": "upload-1", "size": float64(42)}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	snap := store.Snapshot()
	if v, ok := snap.Number("capacity"); !ok || v != 12 {
		t.Fatalf("expected capacity 12, got %v", v)
	}
	if got := snap.Strings("images"); len(got) != 2 || got[1] != "b.jpg" {
		t.Fatalf("unexpected images %v", got)
	}
	file, ok := snap.File("documents.permit")
	if !ok || file.Ref != "upload-1" || file.Size != 42 {
		t.Fatalf("unexpected file handle %#v", file)
	}
}

func TestFieldStoreNilClearsField(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	_ = store.Set("name", "Loft")
	if err := store.Set("name", nil); err != nil {
		t.Fatalf("Set(nil) returned error: %v", err)
	}
	if store.Snapshot().Has("name") {
		t.Fatalf("expected name cleared")
	}
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	store := NewFieldStore(testSchema(t))
	_ = store.Set("availability.hours", map[string]any{"mon": "9-17"})
	snap := store.Snapshot()
	_ = store.Set("availability.hours", map[string]any{"tue": "9-17"})

	hours := snap.Map("availability.hours")
	if hours["mon"] != "9-17" || hours["tue"] != nil {
		t.Fatalf("snapshot drifted with store: %#v", hours)
	}
	hours["mon"] = "changed"
	if snap.Map("availability.hours")["mon"] != "9-17" {
		t.Fatalf("snapshot accessor leaked internal map")
	}
}

func TestNewSchemaRejectsNestedLeaves(t *testing.T) {
	_, err := NewSchema(
		FieldSpec{Path: "location", Kind: KindString},
		FieldSpec{Path: "location.city", Kind: KindString},
	)
	if err == nil {
		t.Fatalf("expected error for field nested under a leaf")
	}
	if _, err := NewSchema(FieldSpec{Path: "a", Kind: "date"}); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestOpenStoreAcceptsAnyPath(t *testing.T) {
	store := NewFieldStore(nil)
	if err := store.Set("anything.goes", 3); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set("anything.goes.deeper", 1); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected group conflict error, got %v", err)
	}
}
