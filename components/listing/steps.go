package listing

import "github.com/goliatone/go-spotadmin/components/wizard"

// Step identifiers of the spot listing wizard.
const (
	StepSpotInfo     = "spot-info"
	StepAvailability = "availability"
	StepRules        = "rules"
	StepLocation     = "location"
	StepDocuments    = "documents"
	StepImages       = "images"
)

// Form field paths.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldType        = "type"
	FieldCapacity    = "capacity"
	FieldPrice       = "price_per_hour"
	FieldAmenities   = "amenities"

	FieldHours       = "availability.hours"
	FieldMinDuration = "availability.min_duration"
	FieldMaxDuration = "availability.max_duration"
	FieldInstantBook = "availability.instant_book"

	FieldRules              = "rules.text"
	FieldCancellationPolicy = "rules.cancellation_policy"

	FieldAddress = "location.address"
	FieldCity    = "location.city"
	FieldState   = "location.state"
	FieldZip     = "location.zip"
	FieldCountry = "location.country"

	FieldBusinessLicense = "documents.business_license"
	FieldInsurance       = "documents.insurance"
	FieldPermit          = "documents.permit"

	FieldImages = "images"
)

// DocumentSlots lists the optional document uploads. At least one must be
// filled for the documents step to complete.
var DocumentSlots = []string{FieldBusinessLicense, FieldInsurance, FieldPermit}

var defaultSteps = []wizard.Step{
	{ID: StepSpotInfo, Title: "Spot Information", TitleLocalized: map[string]string{"es": "Información del espacio"}, Order: 1},
	{ID: StepAvailability, Title: "Availability", TitleLocalized: map[string]string{"es": "Disponibilidad"}, Order: 2},
	{ID: StepRules, Title: "Rules", TitleLocalized: map[string]string{"es": "Reglas"}, Order: 3},
	{ID: StepLocation, Title: "Location", TitleLocalized: map[string]string{"es": "Ubicación"}, Order: 4},
	{ID: StepDocuments, Title: "Documents", TitleLocalized: map[string]string{"es": "Documentos"}, Order: 5},
	{ID: StepImages, Title: "Images", TitleLocalized: map[string]string{"es": "Imágenes"}, Order: 6},
}

// DefaultSteps returns the listing wizard steps in order.
func DefaultSteps() []wizard.Step {
	return append([]wizard.Step(nil), defaultSteps...)
}

var formSchema = wizard.MustSchema(
	wizard.FieldSpec{Path: FieldName, Kind: wizard.KindString, Label: "Spot name"},
	wizard.FieldSpec{Path: FieldDescription, Kind: wizard.KindString, Label: "Description"},
	wizard.FieldSpec{Path: FieldType, Kind: wizard.KindString, Label: "Spot type"},
	wizard.FieldSpec{Path: FieldCapacity, Kind: wizard.KindNumber, Label: "Capacity"},
	wizard.FieldSpec{Path: FieldPrice, Kind: wizard.KindNumber, Label: "Price per hour"},
	wizard.FieldSpec{Path: FieldAmenities, Kind: wizard.KindList, Label: "Amenities"},
	wizard.FieldSpec{Path: FieldHours, Kind: wizard.KindMap, Label: "Opening hours"},
	wizard.FieldSpec{Path: FieldMinDuration, Kind: wizard.KindNumber, Label: "Minimum booking (hours)"},
	wizard.FieldSpec{Path: FieldMaxDuration, Kind: wizard.KindNumber, Label: "Maximum booking (hours)"},
	wizard.FieldSpec{Path: FieldInstantBook, Kind: wizard.KindBool, Label: "Instant booking"},
	wizard.FieldSpec{Path: FieldRules, Kind: wizard.KindString, Label: "House rules"},
	wizard.FieldSpec{Path: FieldCancellationPolicy, Kind: wizard.KindString, Label: "Cancellation policy"},
	wizard.FieldSpec{Path: FieldAddress, Kind: wizard.KindString, Label: "Street address"},
	wizard.FieldSpec{Path: FieldCity, Kind: wizard.KindString, Label: "City"},
	wizard.FieldSpec{Path: FieldState, Kind: wizard.KindString, Label: "State"},
	wizard.FieldSpec{Path: FieldZip, Kind: wizard.KindString, Label: "ZIP code"},
	wizard.FieldSpec{Path: FieldCountry, Kind: wizard.KindString, Label: "Country"},
	wizard.FieldSpec{Path: FieldBusinessLicense, Kind: wizard.KindFile, Label: "Business license"},
	wizard.FieldSpec{Path: FieldInsurance, Kind: wizard.KindFile, Label: "Insurance certificate"},
	wizard.FieldSpec{Path: FieldPermit, Kind: wizard.KindFile, Label: "Venue permit"},
	wizard.FieldSpec{Path: FieldImages, Kind: wizard.KindList, Label: "Images"},
)

// FormSchema returns the field schema of the listing wizard.
func FormSchema() *wizard.Schema {
	return formSchema
}
