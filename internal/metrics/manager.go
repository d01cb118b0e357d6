package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	CounterRequests      *prometheus.CounterVec
	CounterPlansSaved    *prometheus.CounterVec
	CounterSetsLogged    prometheus.Counter
	CounterCodesRedeemed *prometheus.CounterVec
	CounterPostsCreated  prometheus.Counter

	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("powerscale", "test_server", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterPlansSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plans_saved",
			Help:      "Weekly plans persisted, by plan kind",
		}, []string{"kind"}),
		CounterSetsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_logged",
			Help:      "Performance sets appended through the workout tracker",
		}),
		CounterCodesRedeemed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "codes_redeemed",
			Help:      "Voucher and referral code submissions, by outcome",
		}, []string{"outcome"}),
		CounterPostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "posts_created",
			Help:      "Profile posts created",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// The helpers below tolerate a nil Manager so services can run without metrics in tests.

func (m *Manager) PlanSaved(kind string) {
	if m == nil {
		return
	}
	m.CounterPlansSaved.WithLabelValues(kind).Inc()
}

func (m *Manager) SetLogged() {
	if m == nil {
		return
	}
	m.CounterSetsLogged.Inc()
}

func (m *Manager) CodeRedeemed(outcome string) {
	if m == nil {
		return
	}
	m.CounterCodesRedeemed.WithLabelValues(outcome).Inc()
}

func (m *Manager) PostCreated() {
	if m == nil {
		return
	}
	m.CounterPostsCreated.Inc()
}
