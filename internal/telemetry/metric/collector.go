package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppInfo is the static service metadata exported by Collector.
type AppInfo struct {
	Name    string
	Version string
	Commit  string
}

// Collector collects application-level process metrics.
//
// Values are computed at gather time; nothing is sampled in the background.
type Collector struct {
	start  time.Time
	uptime *prometheus.Desc
	info   *prometheus.Desc
	app    AppInfo
}

// NewCollector creates a collector reporting uptime since start.
func NewCollector(start time.Time, app AppInfo) *Collector {
	return &Collector{
		start: start,
		app:   app,
		uptime: prometheus.NewDesc(
			"process_uptime_seconds",
			"Number of seconds since the process started.",
			nil, nil,
		),
		info: prometheus.NewDesc(
			"app_info",
			"Static information about the running service.",
			[]string{"name", "version", "commit"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.uptime
	ch <- c.info
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, time.Since(c.start).Seconds())
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, c.app.Name, c.app.Version, c.app.Commit)
}
