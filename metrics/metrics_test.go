package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/engine"
)

func TestMetricsRecordMarketActivity(t *testing.T) {
	m := New()
	mk, err := engine.NewMarket(engine.MarketConfig{Traders: 2, Instruments: 1, Recorder: m})
	require.NoError(t, err)

	_, err = mk.Ingest(engine.OrderRecord{Timestamp: 0, Side: engine.Sell, TraderID: 0, InstrumentID: 0, Price: 30, Quantity: 4})
	require.NoError(t, err)
	_, err = mk.Ingest(engine.OrderRecord{Timestamp: 1, Side: engine.Buy, TraderID: 1, InstrumentID: 0, Price: 35, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersTotal.WithLabelValues("BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersTotal.WithLabelValues("SELL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TradesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SharesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TradePrice))
}

func TestRecordMedianPerStock(t *testing.T) {
	m := New()
	m.RecordMedian(0, 15)
	m.RecordMedian(3, 42)
	m.RecordMedian(0, 16)

	assert.Equal(t, 16.0, testutil.ToFloat64(m.MedianPrice.WithLabelValues("0")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.MedianPrice.WithLabelValues("3")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.MedianPrice))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.TradesTotal.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TradesTotal))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.TradeExecuted(engine.Trade{Price: 12, Quantity: 5})
	m.RecordSessionSeconds(0.5)

	path := filepath.Join(t.TempDir(), "marketsim.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "marketsim_trades_total 1")
	assert.Contains(t, string(data), "marketsim_shares_traded_total 5")
	assert.Contains(t, string(data), "marketsim_session_seconds 0.5")
}
