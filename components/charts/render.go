package charts

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

// Series is a named set of values plotted against shared labels.
type Series struct {
	Name   string
	Values []float64
}

// Renderer turns small read models into server-side ECharts markup.
type Renderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithCache injects a render cache.
func WithCache(cache RenderCache) Option {
	return func(r *Renderer) {
		r.cache = cache
	}
}

// WithTheme sets the ECharts theme (defaults to Westeros).
func WithTheme(theme string) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithAssetsHost points the ECharts runtime at a CDN or local path.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) {
		r.assetsHost = host
	}
}

// NewRenderer builds a renderer with a five minute cache.
func NewRenderer(options ...Option) *Renderer {
	r := &Renderer{
		cache: NewCache(5 * time.Minute),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Gauge renders a single 0-100 value, e.g. wizard completion.
func (r *Renderer) Gauge(title, name string, value float64) (string, error) {
	if value < 0 || value > 100 {
		return "", fmt.Errorf("charts: gauge value %.2f out of range", value)
	}
	key := Fingerprint("gauge", title, name, value, r.theme)
	return r.cached(key, func() (string, error) {
		gauge := charts.NewGauge()
		gauge.SetGlobalOptions(r.globalOptions(title, "")...)
		gauge.AddSeries(name, []opts.GaugeData{{Name: name, Value: value}})
		return render(gauge)
	})
}

// Bar renders grouped bars, one series per legend entry.
func (r *Renderer) Bar(title, subtitle string, labels []string, series []Series) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("charts: bar chart requires at least one series")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("charts: series %s has %d values for %d labels", s.Name, len(s.Values), len(labels))
		}
	}
	key := Fingerprint("bar", title, subtitle, r.theme, labels, series)
	return r.cached(key, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(title, subtitle)...)
		bar.SetXAxis(labels)
		for _, s := range series {
			data := make([]opts.BarData, len(s.Values))
			for i, v := range s.Values {
				data[i] = opts.BarData{Name: labels[i], Value: v}
			}
			bar.AddSeries(s.Name, data)
		}
		return render(bar)
	})
}

func (r *Renderer) cached(key string, fn func() (string, error)) (string, error) {
	if r.cache == nil {
		return fn()
	}
	return r.cache.GetOrRender(key, fn)
}

func (r *Renderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func render(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
