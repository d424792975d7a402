package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

var (
	// ErrListingNotFound is returned when a listing id is unknown.
	ErrListingNotFound = errors.New("listing: not found")
	// ErrInvalidListing wraps submission validation failures.
	ErrInvalidListing = errors.New("listing: invalid listing")
	// ErrAlreadyDecided is returned when moderating a listing that is no
	// longer pending.
	ErrAlreadyDecided = errors.New("listing: already decided")
)

// Repository persists listings. Implementations may live behind any backend.
type Repository interface {
	SaveListing(ctx context.Context, l Listing) (Listing, error)
	FetchListing(ctx context.Context, id string) (Listing, error)
	// UpdateListing applies fn to the stored listing atomically. An error from
	// fn aborts the update and is returned as is.
	UpdateListing(ctx context.Context, id string, fn func(*Listing) error) (Listing, error)
	ListListings(ctx context.Context, filter ListFilter) ([]Listing, error)
}

// ListFilter narrows ListListings results. Zero values match everything.
type ListFilter struct {
	Status Status
	HostID string
}

// InMemoryRepository provides a concurrency-safe default repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	listings map[string]Listing
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		listings: make(map[string]Listing),
	}
}

// SaveListing inserts or replaces a listing, assigning an id when missing.
func (r *InMemoryRepository) SaveListing(_ context.Context, l Listing) (Listing, error) {
	if strings.TrimSpace(l.Name) == "" {
		return Listing{}, fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l = l.clone()
	r.mu.Lock()
	r.listings[l.ID] = l
	r.mu.Unlock()
	return l.clone(), nil
}

// FetchListing returns a copy of the stored listing.
func (r *InMemoryRepository) FetchListing(_ context.Context, id string) (Listing, error) {
	r.mu.RLock()
	l, ok := r.listings[id]
	r.mu.RUnlock()
	if !ok {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return l.clone(), nil
}

// UpdateListing runs fn on a copy of the listing while holding the write lock
// and stores the result when fn succeeds.
func (r *InMemoryRepository) UpdateListing(_ context.Context, id string, fn func(*Listing) error) (Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.listings[id]
	if !ok {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	next := current.clone()
	if err := fn(&next); err != nil {
		return current.clone(), err
	}
	if strings.TrimSpace(next.Name) == "" {
		return current.clone(), fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	next.ID = id
	r.listings[id] = next.clone()
	return next, nil
}

// ListListings returns matching listings, oldest submission first.
func (r *InMemoryRepository) ListListings(_ context.Context, filter ListFilter) ([]Listing, error) {
	r.mu.RLock()
	out := make([]Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.HostID != "" && l.HostID != filter.HostID {
			continue
		}
		out = append(out, l.clone())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (l Listing) clone() Listing {
	l.Amenities = append([]string(nil), l.Amenities...)
	l.Images = append([]wizard.FileHandle(nil), l.Images...)
	if l.Documents != nil {
		docs := make(map[string]wizard.FileHandle, len(l.Documents))
		for k, v := range l.Documents {
			docs[k] = v
		}
		l.Documents = docs
	}
	l.Availability.Hours = wizard.NewSnapshot(l.Availability.Hours).Data()
	return l
}
