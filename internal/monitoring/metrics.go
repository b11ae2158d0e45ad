package monitoring

import (
	"sync"

	"bj-service/internal/service/game"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RoundsSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bj_rounds_settled_total",
			Help: "Round documents settled and persisted",
		},
	)

	SettlementFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bj_settlement_failures_total",
			Help: "Round documents that could not be settled",
		},
		[]string{"reason"},
	)

	SeatOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bj_seat_outcomes_total",
			Help: "Settled seats by main-wager outcome",
		},
		[]string{"outcome"},
	)

	PayoutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bj_payout_total",
			Help: "Sum of settled seat payouts",
		},
	)

	DataWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bj_data_warnings_total",
			Help: "Data-quality warnings raised while decoding or settling rounds",
		},
		[]string{"kind"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HttpRequests)
		prometheus.MustRegister(RoundsSettled)
		prometheus.MustRegister(SettlementFailures)
		prometheus.MustRegister(SeatOutcomes)
		prometheus.MustRegister(PayoutTotal)
		prometheus.MustRegister(DataWarnings)
	})
}

func ObserveSettlement(rs *game.RoundSettlement, decodeWarnings []game.Warning) {
	RoundsSettled.Inc()
	for _, seat := range rs.Seats {
		SeatOutcomes.WithLabelValues(seat.Outcome.String()).Inc()
	}
	payout, _ := rs.TotalPayout.Float64()
	PayoutTotal.Add(payout)
	for _, w := range rs.Warnings {
		DataWarnings.WithLabelValues(string(w.Kind)).Inc()
	}
	for _, w := range decodeWarnings {
		DataWarnings.WithLabelValues(string(w.Kind)).Inc()
	}
}
