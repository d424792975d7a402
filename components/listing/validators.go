package listing

import (
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Validators returns the completion predicate of every listing step. They
// check presence only: any non-empty string counts, whitespace included.
// Formats (zip shape, phone numbers) are not enforced.
func Validators() map[string]wizard.StepValidator {
	return map[string]wizard.StepValidator{
		StepSpotInfo:     SpotInfoComplete,
		StepAvailability: AvailabilityComplete,
		StepRules:        RulesComplete,
		StepLocation:     LocationComplete,
		StepDocuments:    DocumentsComplete,
		StepImages:       ImagesComplete,
	}
}

// SpotInfoComplete requires a name, description and type.
func SpotInfoComplete(s wizard.Snapshot) bool {
	return filled(s, FieldName, FieldDescription, FieldType)
}

// AvailabilityComplete requires opening hours and a minimum duration.
func AvailabilityComplete(s wizard.Snapshot) bool {
	if len(s.Map(FieldHours)) == 0 {
		return false
	}
	min, ok := s.Number(FieldMinDuration)
	return ok && min > 0
}

// RulesComplete requires the house rules text.
func RulesComplete(s wizard.Snapshot) bool {
	return filled(s, FieldRules)
}

// LocationComplete requires address, city, state and zip.
func LocationComplete(s wizard.Snapshot) bool {
	return filled(s, FieldAddress, FieldCity, FieldState, FieldZip)
}

// DocumentsComplete requires any one document slot.
func DocumentsComplete(s wizard.Snapshot) bool {
	for _, slot := range DocumentSlots {
		if _, ok := s.File(slot); ok {
			return true
		}
	}
	return false
}

// ImagesComplete requires at least one image reference.
func ImagesComplete(s wizard.Snapshot) bool {
	return len(imageHandles(s)) > 0
}

func filled(s wizard.Snapshot, paths ...string) bool {
	for _, path := range paths {
		if s.String(path) == "" {
			return false
		}
	}
	return true
}

func imageHandles(s wizard.Snapshot) []wizard.FileHandle {
	var out []wizard.FileHandle
	for _, item := range s.List(FieldImages) {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, wizard.FileHandle{Name: v, Ref: v})
			}
		case wizard.FileHandle:
			if !v.IsZero() {
				out = append(out, v)
			}
		case map[string]any:
			ref, _ := v["ref"].(string)
			name, _ := v["name"].(string)
			if ref != "" || name != "" {
				ct, _ := v["content_type"].(string)
				out = append(out, wizard.FileHandle{Name: name, Ref: ref, ContentType: ct})
			}
		}
	}
	return out
}
