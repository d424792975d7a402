package listing

import (
	"embed"
	"fmt"
	"io"

	template "github.com/goliatone/go-template"

	"github.com/goliatone/go-spotadmin/components/charts"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Renderer describes the template renderer contract used for review pages.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

//go:embed templates/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}

// ReviewView is the data passed to the review template.
func ReviewView(c *wizard.Controller) map[string]any {
	return ReviewViewFor(c, "")
}

// ReviewViewFor builds the review data with step titles in the given locale.
func ReviewViewFor(c *wizard.Controller, locale string) map[string]any {
	l := FromSnapshot(c.Snapshot())
	steps := make([]map[string]any, 0, len(c.Steps()))
	for _, st := range c.StepStates() {
		steps = append(steps, map[string]any{
			"id":        st.Step.ID,
			"title":     st.Step.TitleFor(locale),
			"current":   st.Current,
			"complete":  st.Complete,
			"navigable": st.Navigable,
		})
	}
	images := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		if img.Name != "" {
			images = append(images, img.Name)
		} else {
			images = append(images, img.Ref)
		}
	}
	progress := c.Progress()
	return map[string]any{
		"session_id": c.SessionID(),
		"locale":     locale,
		"steps":      steps,
		"progress":   progress.Percent,
		"listing": map[string]any{
			"name":         l.Name,
			"description":  l.Description,
			"type":         l.Type,
			"capacity":     l.Capacity,
			"price":        fmt.Sprintf("%.2f", l.PricePerHour),
			"min_duration": l.Availability.MinDuration,
			"rules":        l.Rules.Text,
			"address":      l.Location.Address,
			"city":         l.Location.City,
			"state":        l.Location.State,
			"zip":          l.Location.Zip,
			"documents":    l.DocumentNames(),
			"images":       images,
		},
	}
}

// RenderReview renders the review page of a session.
func RenderReview(r Renderer, c *wizard.Controller, out ...io.Writer) (string, error) {
	html, err := r.Render("review", ReviewView(c), out...)
	if err != nil {
		return "", fmt.Errorf("listing: render review: %w", err)
	}
	return html, nil
}

// ProgressChart renders the completion gauge of a session.
func ProgressChart(r *charts.Renderer, c *wizard.Controller) (string, error) {
	return r.Gauge("Listing progress", "complete", c.Progress().Percent)
}
