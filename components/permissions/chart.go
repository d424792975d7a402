package permissions

import "github.com/goliatone/go-spotadmin/components/charts"

// CoverageChart renders enabled versus total permissions per category.
func CoverageChart(r *charts.Renderer, role Role) (string, error) {
	labels := make([]string, len(role.Categories))
	enabled := make([]float64, len(role.Categories))
	total := make([]float64, len(role.Categories))
	for i, cat := range role.Categories {
		labels[i] = cat.Title
		enabled[i] = float64(countEnabled(cat))
		total[i] = float64(len(cat.Permissions))
	}
	return r.Bar(role.Name, "Permission coverage", labels, []charts.Series{
		{Name: "Enabled", Values: enabled},
		{Name: "Total", Values: total},
	})
}
