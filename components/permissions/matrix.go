package permissions

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownCategory is returned for category keys not in the matrix.
	ErrUnknownCategory = errors.New("permissions: unknown category")
	// ErrReadOnly is returned by bulk edits outside edit mode.
	ErrReadOnly = errors.New("permissions: matrix is not in edit mode")
)

// Permission is a single toggleable flag. ID is unique within its category.
type Permission struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Category groups related permissions.
type Category struct {
	Key         string       `json:"key" yaml:"key"`
	Title       string       `json:"title" yaml:"title"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
}

// Change describes a flag that differs from the committed baseline.
type Change struct {
	Category     string `json:"category"`
	PermissionID string `json:"permission_id"`
	Enabled      bool   `json:"enabled"`
}

// Matrix holds a category to permissions grid. Mutations only take effect
// in edit mode; the baseline is what Discard reverts to.
type Matrix struct {
	mu         sync.RWMutex
	categories []Category
	baseline   []Category
	editMode   bool
}

// NewMatrix copies categories into a matrix, rejecting duplicate keys.
func NewMatrix(categories []Category) (*Matrix, error) {
	seen := make(map[string]struct{}, len(categories))
	for i, cat := range categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("permissions: category at index %d is missing a key", i)
		}
		if _, ok := seen[cat.Key]; ok {
			return nil, fmt.Errorf("permissions: duplicate category %s", cat.Key)
		}
		seen[cat.Key] = struct{}{}
		ids := make(map[string]struct{}, len(cat.Permissions))
		for _, perm := range cat.Permissions {
			if perm.ID == "" {
				return nil, fmt.Errorf("permissions: category %s has a permission without id", cat.Key)
			}
			if _, ok := ids[perm.ID]; ok {
				return nil, fmt.Errorf("permissions: duplicate permission %s in %s", perm.ID, cat.Key)
			}
			ids[perm.ID] = struct{}{}
		}
	}
	return &Matrix{
		categories: cloneCategories(categories),
		baseline:   cloneCategories(categories),
	}, nil
}

// Toggle flips one permission and reports whether anything changed. Outside
// edit mode, and for unknown ids, it is a no-op.
func (m *Matrix) Toggle(categoryKey, permissionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editMode {
		return false
	}
	perm := m.find(categoryKey, permissionID)
	if perm == nil {
		return false
	}
	perm.Enabled = !perm.Enabled
	return true
}

// SetCategory enables or disables every permission of a category and returns
// how many flags changed.
func (m *Matrix) SetCategory(categoryKey string, enabled bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editMode {
		return 0, ErrReadOnly
	}
	cat := m.category(categoryKey)
	if cat == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryKey)
	}
	changed := 0
	for i := range cat.Permissions {
		if cat.Permissions[i].Enabled != enabled {
			cat.Permissions[i].Enabled = enabled
			changed++
		}
	}
	return changed, nil
}

// CountEnabled returns the number of enabled permissions across categories.
func (m *Matrix) CountEnabled() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, cat := range m.categories {
		total += countEnabled(cat)
	}
	return total
}

// CountCategory returns the enabled permissions of a single category.
func (m *Matrix) CountCategory(categoryKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cat := m.category(categoryKey)
	if cat == nil {
		return 0
	}
	return countEnabled(*cat)
}

// Total returns the number of permissions in the matrix.
func (m *Matrix) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, cat := range m.categories {
		total += len(cat.Permissions)
	}
	return total
}

// Enabled reports a permission's flag and whether it exists.
func (m *Matrix) Enabled(categoryKey, permissionID string) (enabled, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	perm := m.find(categoryKey, permissionID)
	if perm == nil {
		return false, false
	}
	return perm.Enabled, true
}

// SetEditMode gates mutations. It never changes permission values.
func (m *Matrix) SetEditMode(on bool) {
	m.mu.Lock()
	m.editMode = on
	m.mu.Unlock()
}

// EditMode reports whether mutations are allowed.
func (m *Matrix) EditMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.editMode
}

// Categories returns a deep copy of the current grid.
func (m *Matrix) Categories() []Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneCategories(m.categories)
}

// Changes lists flags that differ from the baseline, in grid order.
func (m *Matrix) Changes() []Change {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.changesLocked()
}

// Commit makes the current grid the new baseline and leaves edit mode.
func (m *Matrix) Commit() []Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	changes := m.changesLocked()
	m.baseline = cloneCategories(m.categories)
	m.editMode = false
	return changes
}

// Pending returns the changes against the baseline and the grid they were
// computed from, read under one lock.
func (m *Matrix) Pending() ([]Change, []Category) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.changesLocked(), cloneCategories(m.categories)
}

// CommitSnapshot makes snapshot the new baseline. Edits made after the
// snapshot was taken stay pending and keep the matrix in edit mode.
func (m *Matrix) CommitSnapshot(snapshot []Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline = cloneCategories(snapshot)
	m.editMode = len(m.changesLocked()) > 0
}

// Discard reverts to the baseline and leaves edit mode.
func (m *Matrix) Discard() {
	m.mu.Lock()
	m.categories = cloneCategories(m.baseline)
	m.editMode = false
	m.mu.Unlock()
}

func (m *Matrix) changesLocked() []Change {
	var out []Change
	for ci, cat := range m.categories {
		base := m.baseline[ci]
		for pi, perm := range cat.Permissions {
			if base.Permissions[pi].Enabled != perm.Enabled {
				out = append(out, Change{Category: cat.Key, PermissionID: perm.ID, Enabled: perm.Enabled})
			}
		}
	}
	return out
}

func (m *Matrix) category(key string) *Category {
	for i := range m.categories {
		if m.categories[i].Key == key {
			return &m.categories[i]
		}
	}
	return nil
}

func (m *Matrix) find(categoryKey, permissionID string) *Permission {
	cat := m.category(categoryKey)
	if cat == nil {
		return nil
	}
	for i := range cat.Permissions {
		if cat.Permissions[i].ID == permissionID {
			return &cat.Permissions[i]
		}
	}
	return nil
}

func countEnabled(cat Category) int {
	n := 0
	for _, perm := range cat.Permissions {
		if perm.Enabled {
			n++
		}
	}
	return n
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, cat := range in {
		cat.Permissions = append([]Permission(nil), cat.Permissions...)
		out[i] = cat
	}
	return out
}
