// Package metrics instruments a market session with Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"marketsim/engine"
)

// Metrics holds the collectors of one session. It implements engine.Recorder.
type Metrics struct {
	reg *prometheus.Registry

	OrdersTotal  *prometheus.CounterVec
	TradesTotal  prometheus.Counter
	SharesTotal  prometheus.Counter
	TradePrice   prometheus.Histogram
	MedianPrice  *prometheus.GaugeVec
	SessionTimeS prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,

		OrdersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsim_orders_total",
			Help: "Orders ingested by side",
		}, []string{"side"}),

		TradesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketsim_trades_total",
			Help: "Trades executed across all stocks",
		}),

		SharesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketsim_shares_traded_total",
			Help: "Shares exchanged across all trades",
		}),

		TradePrice: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketsim_trade_price",
			Help:    "Execution price per trade",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),

		MedianPrice: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketsim_median_price",
			Help: "Running median trade price by stock",
		}, []string{"stock"}),

		SessionTimeS: factory.NewGauge(prometheus.GaugeOpts{
			Name: "marketsim_session_seconds",
			Help: "Wall time of the last completed session",
		}),
	}
}

// OrderIngested counts an accepted order.
func (m *Metrics) OrderIngested(side engine.Side) {
	m.OrdersTotal.WithLabelValues(side.String()).Inc()
}

// TradeExecuted records a fill.
func (m *Metrics) TradeExecuted(trade engine.Trade) {
	m.TradesTotal.Inc()
	m.SharesTotal.Add(float64(trade.Quantity))
	m.TradePrice.Observe(float64(trade.Price))
}

// RecordMedian sets the median gauge of a stock.
func (m *Metrics) RecordMedian(instrument int, median int64) {
	m.MedianPrice.WithLabelValues(strconv.Itoa(instrument)).Set(float64(median))
}

// RecordSessionSeconds sets the session wall time.
func (m *Metrics) RecordSessionSeconds(seconds float64) {
	m.SessionTimeS.Set(seconds)
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// WriteTextfile writes the current values in the text exposition format,
// for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
