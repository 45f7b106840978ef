package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransfersInitiated prometheus.Counter
	Verifications      *prometheus.CounterVec
}

// Verification result label values.
const (
	ResultRecorded  = "recorded"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransfersInitiated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bank_portal_transfers_initiated_total",
			Help: "Payment sessions successfully initialized with the gateway.",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_portal_verifications_total",
			Help: "Callback verification attempts by outcome.",
		}, []string{"result"}),
	}
}
