package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Listing is the typed record produced by a submitted wizard session.
type Listing struct {
	ID           string                       `json:"id" yaml:"id"`
	SessionID    string                       `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	HostID       string                       `json:"host_id,omitempty" yaml:"host_id,omitempty"`
	Name         string                       `json:"name" yaml:"name"`
	Description  string                       `json:"description" yaml:"description"`
	Type         string                       `json:"type" yaml:"type"`
	Capacity     int                          `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	PricePerHour float64                      `json:"price_per_hour,omitempty" yaml:"price_per_hour,omitempty"`
	Amenities    []string                     `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	Availability Availability                 `json:"availability" yaml:"availability"`
	Rules        Rules                        `json:"rules" yaml:"rules"`
	Location     Location                     `json:"location" yaml:"location"`
	Documents    map[string]wizard.FileHandle `json:"documents,omitempty" yaml:"documents,omitempty"`
	Images       []wizard.FileHandle          `json:"images" yaml:"images"`

	Status          Status    `json:"status" yaml:"status"`
	SubmittedAt     time.Time `json:"submitted_at" yaml:"submitted_at"`
	ReviewedAt      time.Time `json:"reviewed_at,omitempty" yaml:"reviewed_at,omitempty"`
	ReviewedBy      string    `json:"reviewed_by,omitempty" yaml:"reviewed_by,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty" yaml:"rejection_reason,omitempty"`
}

// Availability captures opening hours and booking windows.
type Availability struct {
	Hours       map[string]any `json:"hours" yaml:"hours"`
	MinDuration float64        `json:"min_duration" yaml:"min_duration"`
	MaxDuration float64        `json:"max_duration,omitempty" yaml:"max_duration,omitempty"`
	InstantBook bool           `json:"instant_book" yaml:"instant_book"`
}

// Rules holds house rules and the cancellation policy.
type Rules struct {
	Text               string `json:"text" yaml:"text"`
	CancellationPolicy string `json:"cancellation_policy,omitempty" yaml:"cancellation_policy,omitempty"`
}

// Location is the postal address of the spot.
type Location struct {
	Address string `json:"address" yaml:"address"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Zip     string `json:"zip" yaml:"zip"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
}

// FromSnapshot decodes wizard form data into a pending listing.
func FromSnapshot(s wizard.Snapshot) Listing {
	l := Listing{
		Name:        strings.TrimSpace(s.String(FieldName)),
		Description: strings.TrimSpace(s.String(FieldDescription)),
		Type:        strings.TrimSpace(s.String(FieldType)),
		Amenities:   s.Strings(FieldAmenities),
		Availability: Availability{
			Hours:       s.Map(FieldHours),
			InstantBook: s.Bool(FieldInstantBook),
		},
		Rules: Rules{
			Text:               strings.TrimSpace(s.String(FieldRules)),
			CancellationPolicy: s.String(FieldCancellationPolicy),
		},
		Location: Location{
			Address: strings.TrimSpace(s.String(FieldAddress)),
			City:    strings.TrimSpace(s.String(FieldCity)),
			State:   strings.TrimSpace(s.String(FieldState)),
			Zip:     strings.TrimSpace(s.String(FieldZip)),
			Country: s.String(FieldCountry),
		},
		Images: imageHandles(s),
		Status: StatusPending,
	}
	if v, ok := s.Number(FieldCapacity); ok {
		l.Capacity = int(v)
	}
	if v, ok := s.Number(FieldPrice); ok {
		l.PricePerHour = v
	}
	if v, ok := s.Number(FieldMinDuration); ok {
		l.Availability.MinDuration = v
	}
	if v, ok := s.Number(FieldMaxDuration); ok {
		l.Availability.MaxDuration = v
	}
	for _, slot := range DocumentSlots {
		if handle, ok := s.File(slot); ok {
			if l.Documents == nil {
				l.Documents = make(map[string]wizard.FileHandle)
			}
			l.Documents[strings.TrimPrefix(slot, "documents.")] = handle
		}
	}
	return l
}

// DocumentNames returns the uploaded document slots in a stable order.
func (l Listing) DocumentNames() []string {
	names := make([]string, 0, len(l.Documents))
	for name := range l.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
