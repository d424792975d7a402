package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrRoleNotFound is returned when a role id is unknown.
var ErrRoleNotFound = errors.New("permissions: role not found")

// Role is an admin role and its permission grid.
type Role struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []Category `json:"categories" yaml:"categories"`
}

// RoleRepository persists roles.
type RoleRepository interface {
	FetchRole(ctx context.Context, id string) (Role, error)
	SaveRole(ctx context.Context, role Role) error
	ListRoles(ctx context.Context) ([]Role, error)
}

// InMemoryRoleRepository provides a concurrency-safe default repository.
type InMemoryRoleRepository struct {
	mu    sync.RWMutex
	roles map[string]Role
}

// NewInMemoryRoleRepository creates a repository seeded with roles.
func NewInMemoryRoleRepository(roles ...Role) *InMemoryRoleRepository {
	repo := &InMemoryRoleRepository{roles: make(map[string]Role, len(roles))}
	for _, role := range roles {
		repo.roles[role.ID] = cloneRole(role)
	}
	return repo
}

// FetchRole returns a copy of the stored role.
func (r *InMemoryRoleRepository) FetchRole(_ context.Context, id string) (Role, error) {
	r.mu.RLock()
	role, ok := r.roles[id]
	r.mu.RUnlock()
	if !ok {
		return Role{}, fmt.Errorf("%w: %s", ErrRoleNotFound, id)
	}
	return cloneRole(role), nil
}

// SaveRole inserts or replaces a role.
func (r *InMemoryRoleRepository) SaveRole(_ context.Context, role Role) error {
	if role.ID == "" {
		return errors.New("permissions: role id is required")
	}
	r.mu.Lock()
	r.roles[role.ID] = cloneRole(role)
	r.mu.Unlock()
	return nil
}

// ListRoles returns every role sorted by id.
func (r *InMemoryRoleRepository) ListRoles(context.Context) ([]Role, error) {
	r.mu.RLock()
	out := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, cloneRole(role))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneRole(role Role) Role {
	role.Categories = cloneCategories(role.Categories)
	return role
}
