package metric

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Registry holds all application instruments.
//
// Instruments are created once and live for the process lifetime.
// Recording is safe for concurrent use: label-set values are updated
// atomically by the underlying Prometheus vectors.
type Registry struct {
	reg *prometheus.Registry

	mu sync.RWMutex
	// names holds every metric family name owned by an instrument or
	// described by a registered collector.
	names       map[string]struct{}
	instruments map[string]Instrument
	counters    map[string]*prometheus.CounterVec
	histograms  map[string]*prometheus.HistogramVec
}

// Option configures a Registry.
type Option func(*Registry) error

// WithDefaultMetrics registers the Go runtime, process and build info collectors.
func WithDefaultMetrics() Option {
	return func(r *Registry) error {
		return r.EnableDefaultMetrics()
	}
}

// New creates a registry backed by a dedicated prometheus.Registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		reg:         prometheus.NewRegistry(),
		names:       make(map[string]struct{}),
		instruments: make(map[string]Instrument),
		counters:    make(map[string]*prometheus.CounterVec),
		histograms:  make(map[string]*prometheus.HistogramVec),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// EnableDefaultMetrics registers the default process-level collectors.
// Values are sampled lazily when the registry is gathered.
func (r *Registry) EnableDefaultMetrics() error {
	defaults := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	}
	for _, c := range defaults {
		if err := r.RegisterCollector(c); err != nil {
			return fmt.Errorf("register default metrics: %w", err)
		}
	}
	return nil
}

// Register adds a named instrument.
func (r *Registry) Register(inst Instrument) error {
	if err := inst.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[inst.Name]; ok {
		return &DuplicateNameError{Name: inst.Name}
	}

	switch inst.Kind {
	case KindCounter:
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: inst.Name,
			Help: inst.Help,
		}, inst.LabelNames)
		if err := r.register(inst.Name, vec); err != nil {
			return err
		}
		r.counters[inst.Name] = vec

	case KindHistogram:
		buckets := inst.Buckets
		if buckets == nil {
			buckets = prometheus.DefBuckets
		}
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    inst.Name,
			Help:    inst.Help,
			Buckets: buckets,
		}, inst.LabelNames)
		if err := r.register(inst.Name, vec); err != nil {
			return err
		}
		r.histograms[inst.Name] = vec
	}

	r.instruments[inst.Name] = inst
	r.names[inst.Name] = struct{}{}
	return nil
}

// MustRegister registers instruments and panics on the first error.
func (r *Registry) MustRegister(insts ...Instrument) {
	for _, inst := range insts {
		if err := r.Register(inst); err != nil {
			panic(err)
		}
	}
}

// RegisterCollector adds an arbitrary Prometheus collector. A collector
// describing a family name that is already taken, by an instrument or by
// another collector, is rejected with a *DuplicateNameError.
func (r *Registry) RegisterCollector(c prometheus.Collector) error {
	names := describedNames(c)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, ok := r.names[name]; ok {
			return &DuplicateNameError{Name: name}
		}
	}

	name := fmt.Sprintf("%T", c)
	if len(names) > 0 {
		name = names[0]
	}
	if err := r.register(name, c); err != nil {
		return err
	}
	for _, n := range names {
		r.names[n] = struct{}{}
	}
	return nil
}

func (r *Registry) register(name string, c prometheus.Collector) error {
	if err := r.reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return &DuplicateNameError{Name: name}
		}
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

// describedNames returns the distinct family names c describes, in order.
func describedNames(c prometheus.Collector) []string {
	ch := make(chan *prometheus.Desc)
	go func() {
		c.Describe(ch)
		close(ch)
	}()

	seen := make(map[string]struct{})
	var names []string
	for desc := range ch {
		name := descName(desc)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// descName extracts the fully-qualified name from a descriptor. Desc keeps
// it unexported, so it is read from the fqName field of Desc.String.
func descName(desc *prometheus.Desc) string {
	_, rest, ok := strings.Cut(desc.String(), "fqName: ")
	if !ok {
		return ""
	}
	quoted, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return ""
	}
	name, err := strconv.Unquote(quoted)
	if err != nil {
		return ""
	}
	return name
}

// Observe records one histogram sample for the given label set.
func (r *Registry) Observe(name string, labels Labels, value float64) error {
	r.mu.RLock()
	vec, ok := r.histograms[name]
	_, isCounter := r.counters[name]
	r.mu.RUnlock()

	if !ok {
		if isCounter {
			return fmt.Errorf("%w: %s is a counter", ErrKindMismatch, name)
		}
		return &UnknownInstrumentError{Name: name}
	}

	obs, err := vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return fmt.Errorf("observe %s: %w", name, err)
	}
	obs.Observe(value)
	return nil
}

// Increment adds amount to the counter value for the given label set.
func (r *Registry) Increment(name string, labels Labels, amount float64) error {
	r.mu.RLock()
	vec, ok := r.counters[name]
	_, isHistogram := r.histograms[name]
	r.mu.RUnlock()

	if !ok {
		if isHistogram {
			return fmt.Errorf("%w: %s is a histogram", ErrKindMismatch, name)
		}
		return &UnknownInstrumentError{Name: name}
	}
	if amount < 0 || math.IsNaN(amount) {
		return &InvalidValueError{Name: name, Value: amount}
	}

	c, err := vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return fmt.Errorf("increment %s: %w", name, err)
	}
	c.Add(amount)
	return nil
}

// Inc increments a counter by one.
func (r *Registry) Inc(name string, labels Labels) error {
	return r.Increment(name, labels, 1)
}

// Render encodes every collector in the text exposition format.
// Families are sorted by name and label sets by label values. Registered
// instruments that have not recorded any label set yet are rendered as
// HELP and TYPE lines only, so the set of families is stable across calls.
func (r *Registry) Render() ([]byte, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	seen := make(map[string]struct{}, len(families))
	for _, mf := range families {
		seen[mf.GetName()] = struct{}{}
	}

	r.mu.RLock()
	var pending []Instrument
	for name, inst := range r.instruments {
		if _, ok := seen[name]; !ok {
			pending = append(pending, inst)
		}
	}
	r.mu.RUnlock()
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name < pending[j].Name })

	var buf bytes.Buffer
	for _, mf := range families {
		for len(pending) > 0 && pending[0].Name < mf.GetName() {
			writeHeader(&buf, pending[0])
			pending = pending[1:]
		}
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	for _, inst := range pending {
		writeHeader(&buf, inst)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, inst Instrument) {
	help := strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(inst.Help)
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s %s\n", inst.Name, help, inst.Name, inst.Kind)
}

// ContentType returns the media type of Render output.
func (r *Registry) ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}

// Handler returns a promhttp handler that negotiates the exposition
// format (text, OpenMetrics) and compression with the scraper.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
