package dashboard

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/KaramelBytes/cafeteria-insights/internal/metrics"
	"github.com/KaramelBytes/cafeteria-insights/internal/preprocess"
	"go.uber.org/zap"
)

// Dashboard renders navigation entries and charts over the shared state.
type Dashboard struct {
	state    Writer
	nav      *Navigation
	settings Settings
	cleaner  *preprocess.Cleaner
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option customizes a Dashboard.
type Option func(*Dashboard)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(d *Dashboard) { d.logger = l } }

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option { return func(d *Dashboard) { d.metrics = m } }

// WithCleaner replaces the preprocessing cleaner.
func WithCleaner(c *preprocess.Cleaner) Option { return func(d *Dashboard) { d.cleaner = c } }

// New builds a dashboard. Zero-valued settings fields fall back to DefaultSettings.
func New(state Writer, nav *Navigation, s Settings, opts ...Option) *Dashboard {
	def := DefaultSettings()
	if s.PreviewRows <= 0 {
		s.PreviewRows = def.PreviewRows
	}
	if s.Target == "" {
		s.Target = def.Target
	}
	if len(s.Ratings) == 0 {
		s.Ratings = def.Ratings
	}
	if s.ScaleMax <= 0 {
		s.ScaleMax = def.ScaleMax
	}
	d := &Dashboard{state: state, nav: nav, settings: s}
	for _, o := range opts {
		o(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	d.logger = d.logger.With(zap.String("component", "dashboard"))
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	if d.cleaner == nil {
		d.cleaner = preprocess.NewCleaner(d.logger)
	}
	return d
}

// Navigation returns the sidebar entries.
func (d *Dashboard) Navigation() *Navigation { return d.nav }

// Settings returns the effective settings.
func (d *Dashboard) Settings() Settings { return d.settings }

// Features returns the selectable rating columns.
func (d *Dashboard) Features() []string { return append([]string(nil), d.settings.Ratings...) }

// Preload loads the table and returns its shape.
func (d *Dashboard) Preload() (rows, cols int, err error) {
	err = d.read(func(t *dataset.Table) error {
		rows, cols = t.Shape()
		return nil
	})
	return rows, cols, err
}

// Render resolves name (label or slug) and renders its sections in order.
// feature selects the rating column for the feature chart; empty means the first.
func (d *Dashboard) Render(name, feature string) (*Page, error) {
	entry, err := d.nav.Select(name)
	if err != nil {
		return nil, err
	}
	page := &Page{Slug: entry.Slug, Title: entry.Label}
	for _, sec := range entry.Sections {
		start := time.Now()
		blocks, err := d.renderSection(sec, feature)
		d.metrics.SectionRenders.WithLabelValues(string(sec), metrics.Outcome(err)).Inc()
		if err != nil {
			d.logger.Warn("section failed", zap.String("section", string(sec)), zap.Error(err))
			return nil, fmt.Errorf("render %s: %w", sec, err)
		}
		d.logger.Debug("section rendered",
			zap.String("section", string(sec)),
			zap.Int("blocks", len(blocks)),
			zap.Duration("elapsed", time.Since(start)))
		page.Blocks = append(page.Blocks, blocks...)
	}
	return page, nil
}

func (d *Dashboard) renderSection(sec Section, feature string) ([]Block, error) {
	var blocks []Block
	var err error
	switch sec {
	case SectionOverview:
		err = d.read(func(t *dataset.Table) error {
			blocks = overviewView(t, d.settings.PreviewRows)
			return nil
		})
	case SectionEDA:
		err = d.read(func(t *dataset.Table) error {
			blocks = edaView(t)
			return nil
		})
	case SectionPreprocessing:
		err = d.state.Write(func(t *dataset.Table) error {
			var rep preprocess.Report
			blocks, rep = preprocessingView(t, d.cleaner)
			d.metrics.CleanRuns.Inc()
			for _, f := range rep.Fills {
				d.metrics.CellsFilled.WithLabelValues(f.Strategy).Add(float64(f.Cells))
			}
			return nil
		})
	case SectionVisualization:
		err = d.read(func(t *dataset.Table) error {
			var verr error
			blocks, verr = visualizationView(t, d.settings, feature)
			return verr
		})
	case SectionInsights:
		blocks = insightsView()
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSection, sec)
	}
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// Chart renders one chart by name as a PNG.
func (d *Dashboard) Chart(name, feature string) ([]byte, error) {
	var img []byte
	err := d.read(func(t *dataset.Table) error {
		var err error
		img, _, err = drawChart(t, d.settings, name, feature)
		return err
	})
	d.metrics.ChartRenders.WithLabelValues(chartLabel(name), metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", name, err)
	}
	return img, nil
}

func (d *Dashboard) read(fn func(t *dataset.Table) error) error {
	return d.state.Read(func(t *dataset.Table) error {
		d.metrics.DatasetRows.Set(float64(t.Rows()))
		return fn(t)
	})
}

func chartLabel(name string) string {
	for _, n := range ChartNames {
		if n == name {
			return n
		}
	}
	return "unknown"
}
