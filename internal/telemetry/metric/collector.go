package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExpiryFunc reports the expiry of the current session, ok=false when
// there is none.
type ExpiryFunc func() (expiry time.Time, ok bool)

// SessionCollector reports the time left on the current session,
// computed at scrape time.
type SessionCollector struct {
	expiry ExpiryFunc
	now    func() time.Time
	desc   *prometheus.Desc
}

// NewSessionCollector creates a collector reading expiry on each scrape.
func NewSessionCollector(expiry ExpiryFunc) *SessionCollector {
	return &SessionCollector{
		expiry: expiry,
		now:    time.Now,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "expires_in_seconds"),
			"Seconds until the current session token expires; negative once expired.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. Nothing is emitted without a
// session.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	exp, ok := c.expiry()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, exp.Sub(c.now()).Seconds())
}
