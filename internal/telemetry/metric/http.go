package metric

// Request instrument names. These are part of the scrape surface and must not change.
const (
	RequestDurationName = "http_request_duration_seconds"
	RequestsTotalName   = "http_requests_total"
)

// RequestLabelNames is the label set shared by both request instruments.
var RequestLabelNames = []string{"method", "route", "status"}

// HTTPInstruments returns the request duration histogram and request counter.
func HTTPInstruments() []Instrument {
	return []Instrument{
		{
			Name:       RequestDurationName,
			Help:       "Duration of HTTP requests in seconds",
			Kind:       KindHistogram,
			LabelNames: RequestLabelNames,
		},
		{
			Name:       RequestsTotalName,
			Help:       "Total number of HTTP requests",
			Kind:       KindCounter,
			LabelNames: RequestLabelNames,
		},
	}
}

// RegisterHTTPInstruments registers the request instruments.
func (r *Registry) RegisterHTTPInstruments() error {
	for _, inst := range HTTPInstruments() {
		if err := r.Register(inst); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest observes the request duration and counts the request
// under the same (method, route, status) label set.
func (r *Registry) RecordRequest(method, route, status string, seconds float64) error {
	labels := Labels{"method": method, "route": route, "status": status}
	if err := r.Observe(RequestDurationName, labels, seconds); err != nil {
		return err
	}
	return r.Inc(RequestsTotalName, labels)
}
