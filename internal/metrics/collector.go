// Package metrics exports per-target latency statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rileyhilliard/pingplot/internal/stats"
	"github.com/rileyhilliard/pingplot/internal/target"
)

const prefix = "pingplot_"

var (
	labelNames = []string{"target", "ip"}

	rttDesc = prometheus.NewDesc(prefix+"rtt_seconds",
		"Round trip time over the history window", append(labelNames, "type"), nil)
	lossDesc = prometheus.NewDesc(prefix+"loss_ratio",
		"Fraction of probes lost since start", labelNames, nil)
	sentDesc = prometheus.NewDesc(prefix+"probes_sent_total",
		"Probes sent since start", labelNames, nil)
	lostDesc = prometheus.NewDesc(prefix+"probes_lost_total",
		"Probes lost since start", labelNames, nil)
	upDesc = prometheus.NewDesc(prefix+"up",
		"Whether the most recent probe got a reply", labelNames, nil)
)

// Collector computes metrics from target histories at scrape time.
type Collector struct {
	targets []*target.Target
}

// NewCollector returns a collector over the given targets.
func NewCollector(targets []*target.Target) *Collector {
	return &Collector{targets: targets}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- rttDesc
	ch <- lossDesc
	ch <- sentDesc
	ch <- lostDesc
	ch <- upDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, t := range c.targets {
		st := stats.Compute(t.History.Snapshot())
		l := []string{t.Label, t.Addr.String()}

		for _, v := range []struct {
			kind string
			d    stats.Duration
		}{
			{"min", st.Min},
			{"max", st.Max},
			{"avg", st.Avg},
			{"jitter", st.Jitter},
			{"last", st.Last},
		} {
			if !v.d.Valid {
				continue
			}
			ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, v.d.Value.Seconds(), t.Label, l[1], v.kind)
		}

		ch <- prometheus.MustNewConstMetric(sentDesc, prometheus.CounterValue, float64(st.Loss.Sent), l...)
		ch <- prometheus.MustNewConstMetric(lostDesc, prometheus.CounterValue, float64(st.Loss.Lost), l...)

		if st.LossPct.Valid {
			ch <- prometheus.MustNewConstMetric(lossDesc, prometheus.GaugeValue, st.LossPct.Value/100, l...)
		}

		if st.Window > 0 {
			up := 0.0
			if st.Last.Valid {
				up = 1
			}
			ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up, l...)
		}
	}
}
