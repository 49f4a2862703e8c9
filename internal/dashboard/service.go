package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/calendar"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/colorscale"
	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/Aebel-Shajan/activity-tracker/internal/metrics"
	"github.com/maypok86/otter/v2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize     = 256
	defaultTimelineWidth = 1000
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid dashboard query")

	// ErrNoDataset is returned by views before the first dataset is loaded.
	ErrNoDataset = errors.New("no dataset loaded")
)

// Options controls view construction.
type Options struct {
	Layout calendar.LayoutConfig
	Theme  colorscale.Theme

	// Year is the default heatmap year. Zero follows the selected date.
	Year int

	// MinAppUsage drops apps below this many seconds from the overview.
	MinAppUsage float64

	// TimelineWidth is the pixel width of a full day on the timeline.
	TimelineWidth float64

	// CacheSize bounds the number of memoized views.
	CacheSize int
}

// DefaultOptions returns the stock layout, theme and thresholds.
func DefaultOptions() Options {
	return Options{
		Layout:        calendar.DefaultLayout(),
		Theme:         colorscale.DefaultTheme(),
		MinAppUsage:   aggregation.MinAppUsage,
		TimelineWidth: defaultTimelineWidth,
		CacheSize:     defaultCacheSize,
	}
}

// Renderer draws views as SVG documents.
type Renderer interface {
	Heatmap(w io.Writer, view *HeatmapView) error
	Timeline(w io.Writer, view *TimelineView) error
}

// Service derives dashboard views from the current dataset.
// Views are memoized per dataset fingerprint; concurrent requests for the
// same view share one build.
type Service struct {
	opts      Options
	selection *Selection
	renderer  Renderer

	mu      sync.RWMutex
	dataset *ingestion.Dataset

	cache *otter.Cache[string, any]
	group singleflight.Group
}

// NewService creates a dashboard service. renderer may be nil, in which
// case the SVG routes answer 404.
func NewService(opts Options, selection *Selection, renderer Renderer) *Service {
	if selection == nil {
		panic("dashboard: selection must not be nil")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.TimelineWidth <= 0 {
		opts.TimelineWidth = defaultTimelineWidth
	}

	return &Service{
		opts:      opts,
		selection: selection,
		renderer:  renderer,
		cache: otter.Must(&otter.Options[string, any]{
			MaximumSize: opts.CacheSize,
		}),
	}
}

// Selection returns the selected-date controller.
func (s *Service) Selection() *Selection {
	return s.selection
}

// Options returns the view options.
func (s *Service) Options() Options {
	return s.opts
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Service) Dataset() *ingestion.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Replace swaps in a new dataset and drops every cached view.
func (s *Service) Replace(ds *ingestion.Dataset) {
	if ds == nil {
		return
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.cache.InvalidateAll()

	metrics.RecordsLoaded.Set(float64(ds.Len()))
	metrics.RecordsRejected.Set(float64(ds.Report.RejectedCount()))
	metrics.DatasetUsageSeconds.Set(aggregation.Total(ds.Records))

	slog.Info("Dataset replaced",
		"dataset_id", ds.ID,
		"records", ds.Len(),
		"rejected", ds.Report.RejectedCount())
}

// CachedViews returns the approximate number of memoized views.
func (s *Service) CachedViews() int {
	return s.cache.EstimatedSize()
}

// cachedView returns the view stored under (fingerprint, view, params),
// building it once on a miss.
func cachedView[T any](s *Service, view, params string, build func(ds *ingestion.Dataset) (T, error)) (T, error) {
	var zero T

	ds := s.Dataset()
	if ds == nil {
		return zero, ErrNoDataset
	}
	metrics.ViewRequestsTotal.WithLabelValues(view).Inc()

	key := viewKey(ds.Fingerprint, view, params)
	if v, ok := s.cache.GetIfPresent(key); ok {
		metrics.ViewCacheHits.WithLabelValues(view).Inc()
		return v.(T), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if v, ok := s.cache.GetIfPresent(key); ok {
			return v, nil
		}
		built, err := build(ds)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, built)
		return built, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func viewKey(fingerprint, view, params string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{'|'})
	h.Write([]byte(view))
	h.Write([]byte{'|'})
	h.Write([]byte(params))
	return hex.EncodeToString(h.Sum(nil))
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// resolveYear picks the heatmap year: explicit, configured, then the
// selected date's year.
func (s *Service) resolveYear(year int) (int, error) {
	if year == 0 {
		year = s.opts.Year
	}
	if year == 0 {
		year = s.selection.SelectedDate().Year()
	}
	if year < 1 || year > 9999 {
		return 0, invalidQueryf("year %d out of range", year)
	}
	return year, nil
}

// resolveDay picks the timeline day: explicit or the selected date.
func (s *Service) resolveDay(day time.Time) time.Time {
	if day.IsZero() {
		return s.selection.SelectedDate()
	}
	return aggregation.TruncateToDay(day)
}
