package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-spotadmin/components/listing"
)

type listingLister interface {
	ListListings(ctx context.Context, filter listing.ListFilter) ([]listing.Listing, error)
}

// ListingsQuery lists listings, e.g. the moderation queue.
type ListingsQuery struct {
	repo listingLister
}

// NewListingsQuery builds the query.
func NewListingsQuery(repo listingLister) *ListingsQuery {
	return &ListingsQuery{repo: repo}
}

var _ gocommand.Querier[listing.ListFilter, []listing.Listing] = (*ListingsQuery)(nil)

// Query lists matching listings.
func (q *ListingsQuery) Query(ctx context.Context, filter listing.ListFilter) ([]listing.Listing, error) {
	return q.repo.ListListings(ctx, filter)
}
