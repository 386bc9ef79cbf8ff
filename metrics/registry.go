package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"listen-heatmap/calendar"
	"listen-heatmap/models"
)

var (
	// ErrUnknownMetric is returned for a metric name nobody registered.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrUnknownShare is returned for a share field nobody registered.
	ErrUnknownShare = errors.New("unknown share field")
)

// Strategy turns play records into a daily series.
type Strategy interface {
	Name() string
	// Title is the figure title for the given year.
	Title(year int) string
	// Aggregate returns one entry per day with data, ascending. Days are taken in loc.
	Aggregate(records []models.PlayRecord, loc *time.Location) calendar.DateSeries
}

// ShareStrategy groups play records by a categorical field.
type ShareStrategy interface {
	Name() string
	Title() string
	Key(r models.PlayRecord) string
}

// Registry is a thread-safe set of named strategies.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Strategy
	shares  map[string]ShareStrategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Strategy),
		shares:  make(map[string]ShareStrategy),
	}
}

// DefaultRegistry holds the built-in metrics and share fields.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []Strategy{HoursStrategy{}, SongsStrategy{}} {
		_ = r.Register(s)
	}
	for _, s := range defaultShares() {
		_ = r.RegisterShare(s)
	}
	return r
}

// Register adds a metric strategy. Duplicate names overwrite the previous entry.
func (r *Registry) Register(s Strategy) error {
	if s.Name() == "" {
		return fmt.Errorf("metric name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[s.Name()] = s
	return nil
}

// RegisterShare adds a share strategy.
func (r *Registry) RegisterShare(s ShareStrategy) error {
	if s.Name() == "" {
		return fmt.Errorf("share name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares[s.Name()] = s
	return nil
}

// Metric looks up a metric strategy by name.
func (r *Registry) Metric(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownMetric, name, sortedKeys(r.metrics))
	}
	return s, nil
}

// Share looks up a share strategy by name.
func (r *Registry) Share(name string) (ShareStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shares[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownShare, name, sortedKeys(r.shares))
	}
	return s, nil
}

// MetricNames returns the registered metric names, sorted.
func (r *Registry) MetricNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.metrics)
}

// ShareNames returns the registered share names, sorted.
func (r *Registry) ShareNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.shares)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
