package blockx

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	blockedTypes      *prometheus.GaugeVec
	skippedCandidates prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	blocked, err := registerCollector(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockx_blocked_types",
			Help: "Number of types blocked by the last built module, by the rule kind that resolved them",
		},
		[]string{"rule"},
	))
	if err != nil {
		return nil, err
	}

	skipped, err := registerCollector(reg, prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blockx_skipped_candidates_total",
			Help: "Total number of universe candidates that failed to load during scans",
		},
	))
	if err != nil {
		return nil, err
	}

	return &metrics{blockedTypes: blocked, skippedCandidates: skipped}, nil
}

func (m *metrics) observe(mod *Module, skipped int) {
	if m == nil {
		return
	}
	counts := map[RuleKind]int{RuleClass: 0, RulePackage: 0, RuleMarker: 0}
	for _, h := range mod.hooks {
		counts[h.kind]++
	}
	for kind, n := range counts {
		m.blockedTypes.WithLabelValues(kind.String()).Set(float64(n))
	}
	m.skippedCandidates.Add(float64(skipped))
}

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
