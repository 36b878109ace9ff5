package metric

import "fmt"

// Kind is the instrument type.
type Kind int

const (
	// KindCounter is a monotonically increasing value per label set.
	KindCounter Kind = iota + 1
	// KindHistogram is a bucketed distribution per label set.
	KindHistogram
)

// String returns the exposition type name.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindHistogram:
		return "histogram"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Instrument describes a named metric before registration.
type Instrument struct {
	Name       string
	Help       string
	Kind       Kind
	LabelNames []string

	// Buckets applies to histograms only. Nil means prometheus.DefBuckets.
	Buckets []float64
}

// Labels selects one value within an instrument, keyed by label name.
type Labels map[string]string

func (i Instrument) validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidInstrument)
	}
	if i.Kind != KindCounter && i.Kind != KindHistogram {
		return fmt.Errorf("%w: %s has %s", ErrInvalidInstrument, i.Name, i.Kind)
	}
	return nil
}
