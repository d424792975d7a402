package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

func validListing() Listing {
	return Listing{
		Name:        "Loft 21",
		Description: "Sunny loft",
		Type:        "venue",
		Availability: Availability{
			Hours:       map[string]any{"mon": "09:00-18:00"},
			MinDuration: 1,
		},
		Rules:     Rules{Text: "No smoking"},
		Location:  Location{Address: "21 Main St", City: "Springfield", State: "IL", Zip: "62701"},
		Documents: map[string]wizard.FileHandle{"permit": {Name: "permit.pdf", Ref: "upload://p"}},
		Images:    []wizard.FileHandle{{Name: "front.jpg", Ref: "front.jpg"}},
		Status:    StatusPending,
	}
}

func TestJSONSchemaValidatorAcceptsCompleteListing(t *testing.T) {
	v := NewJSONSchemaValidator()
	if err := v.Validate(validListing()); err != nil {
		t.Fatalf("expected valid listing, got %v", err)
	}
}

func TestJSONSchemaValidatorRejectsGaps(t *testing.T) {
	v := NewJSONSchemaValidator()
	cases := map[string]func(*Listing){
		"no documents":      func(l *Listing) { l.Documents = nil },
		"no images":         func(l *Listing) { l.Images = nil },
		"empty zip":         func(l *Listing) { l.Location.Zip = "" },
		"zero duration":     func(l *Listing) { l.Availability.MinDuration = 0 },
		"negative capacity": func(l *Listing) { l.Capacity = -1 },
	}
	for name, mutate := range cases {
		l := validListing()
		mutate(&l)
		if err := v.Validate(l); !errors.Is(err, ErrInvalidListing) {
			t.Fatalf("%s: expected invalid listing, got %v", name, err)
		}
	}
}

func TestInMemoryRepositoryClonesRecords(t *testing.T) {
	repo := NewInMemoryRepository()
	saved, err := repo.SaveListing(context.Background(), validListing())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}
	saved.Images[0].Name = "changed"
	saved.Documents["permit"] = wizard.FileHandle{}
	stored, err := repo.FetchListing(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stored.Images[0].Name != "front.jpg" || stored.Documents["permit"].Ref != "upload://p" {
		t.Fatalf("stored listing was mutated: %+v", stored)
	}
	if _, err := repo.FetchListing(context.Background(), "missing"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
