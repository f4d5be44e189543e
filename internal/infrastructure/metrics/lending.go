package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// LendingMetrics is safe to use as a nil pointer; every method is then a
// no-op.
type LendingMetrics struct {
	loansOpened     *prometheus.CounterVec
	repayments      *prometheus.CounterVec
	operationErrors *prometheus.CounterVec
	openLoans       prometheus.Gauge
	oraclePrice     prometheus.Gauge
}

// NewLending registers the lending collectors on reg.
func NewLending(reg prometheus.Registerer) *LendingMetrics {
	m := &LendingMetrics{
		loansOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lending_loans_opened_total",
			Help: "Loans admitted, by rate tier in basis points.",
		}, []string{"rate_bps"}),
		repayments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lending_repayments_total",
			Help: "Applied repayments by settlement outcome.",
		}, []string{"outcome"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lending_operation_errors_total",
			Help: "Rejected ledger operations by operation and error kind.",
		}, []string{"op", "kind"}),
		openLoans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lending_open_loans",
			Help: "Loans currently open across all accounts.",
		}),
		oraclePrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lending_oracle_price",
			Help: "Last collateral price accepted for admission, in stable base units.",
		}),
	}
	reg.MustRegister(m.loansOpened, m.repayments, m.operationErrors, m.openLoans, m.oraclePrice)
	return m
}

func (m *LendingMetrics) ObserveLoanOpened(rateBps uint16) {
	if m == nil {
		return
	}
	m.loansOpened.WithLabelValues(strconv.FormatUint(uint64(rateBps), 10)).Inc()
	m.openLoans.Inc()
}

func (m *LendingMetrics) ObserveRepayment(outcome string, closed bool) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.repayments.WithLabelValues(outcome).Inc()
	if closed {
		m.openLoans.Dec()
	}
}

func (m *LendingMetrics) ObserveError(op, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.operationErrors.WithLabelValues(op, kind).Inc()
}

func (m *LendingMetrics) SetOpenLoans(n int64) {
	if m == nil {
		return
	}
	m.openLoans.Set(float64(n))
}

func (m *LendingMetrics) ObserveOraclePrice(price uint64) {
	if m == nil {
		return
	}
	m.oraclePrice.Set(float64(price))
}
