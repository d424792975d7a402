package wizard

import "testing"

func TestStepTitleForFallsBackToBaseLanguage(t *testing.T) {
	step := Step{
		ID:             "location",
		Title:          "Location",
		TitleLocalized: map[string]string{"es": "Ubicación", "pt-BR": "Localização"},
	}
	cases := map[string]string{
		"es":        "Ubicación",
		"es-MX":     "Ubicación",
		"es_mx":     "Ubicación",
		"pt-BR":     "Localização",
		"pt":        "Location",
		"fr":        "Location",
		"":          "Location",
		"not a tag": "Location",
	}
	for locale, want := range cases {
		if got := step.TitleFor(locale); got != want {
			t.Fatalf("locale %q: expected %q, got %q", locale, want, got)
		}
	}
	if got := (Step{Title: "Location"}).TitleFor("es"); got != "Location" {
		t.Fatalf("expected untranslated step to use its title, got %q", got)
	}
}

func TestControllerCanonicalizesStepTranslations(t *testing.T) {
	titles := map[string]string{" ES ": "Ubicación", "fr": "", "??": "Lugar"}
	c, err := NewController(Options{Steps: []Step{{ID: "location", Title: "Location", TitleLocalized: titles}}})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	step := c.Current()
	if step.TitleFor("es-AR") != "Ubicación" {
		t.Fatalf("expected spanish title, got %q", step.TitleFor("es-AR"))
	}
	if step.TitleFor("fr") != "Location" {
		t.Fatalf("expected empty translation to be dropped")
	}
	if len(step.TitleLocalized) != 1 {
		t.Fatalf("expected only the well-formed translation to survive, got %v", step.TitleLocalized)
	}
	if _, ok := titles[" ES "]; !ok {
		t.Fatalf("expected caller map to stay untouched")
	}
}
