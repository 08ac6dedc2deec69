package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockref"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg               *prom.Registry
	copies            *prom.CounterVec
	pastes            *prom.CounterVec
	idsMinted         prom.Counter
	notApplicable     *prom.CounterVec
	operationDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or
// on a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		copies: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "copies_total",
			Help:      "References copied by target kind and flavor",
		}, []string{"target", "flavor"}),
		pastes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pastes_total",
			Help:      "References pasted by flavor",
		}, []string{"flavor"}),
		idsMinted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "ids_minted_total",
			Help:      "Block ids generated and written into documents",
		}),
		notApplicable: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "not_applicable_total",
			Help:      "Operations that had nothing to act on",
		}, []string{"operation"}),
		operationDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of copy and paste operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(pr.copies, pr.pastes, pr.idsMinted, pr.notApplicable, pr.operationDuration)
	return pr
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) IncCopy(target string, flavor Flavor) {
	p.copies.WithLabelValues(target, string(flavor)).Inc()
}

func (p *PrometheusRecorder) IncPaste(flavor Flavor) {
	p.pastes.WithLabelValues(string(flavor)).Inc()
}

func (p *PrometheusRecorder) IncMintedID() { p.idsMinted.Inc() }

func (p *PrometheusRecorder) IncNotApplicable(operation string) {
	p.notApplicable.WithLabelValues(operation).Inc()
}

func (p *PrometheusRecorder) ObserveOperationDuration(operation string, d time.Duration) {
	p.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// WriteTextfile writes the current metric values to path in the text
// exposition format, replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
