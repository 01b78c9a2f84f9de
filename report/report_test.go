package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/engine"
)

func tradedMarket(t *testing.T) (*engine.Market, []engine.Trade) {
	t.Helper()
	m, err := engine.NewMarket(engine.MarketConfig{Traders: 3, Instruments: 2, StrictTimestamps: true})
	require.NoError(t, err)

	var all []engine.Trade
	for _, rec := range []engine.OrderRecord{
		{Timestamp: 0, Side: engine.Sell, TraderID: 1, InstrumentID: 0, Price: 10, Quantity: 5},
		{Timestamp: 0, Side: engine.Buy, TraderID: 2, InstrumentID: 0, Price: 12, Quantity: 3},
		{Timestamp: 1, Side: engine.Buy, TraderID: 0, InstrumentID: 0, Price: 20, Quantity: 4},
		{Timestamp: 1, Side: engine.Sell, TraderID: 1, InstrumentID: 1, Price: 7, Quantity: 1},
	} {
		trades, err := m.Ingest(rec)
		require.NoError(t, err)
		all = append(all, trades...)
	}
	return m, all
}

func TestReporterAllSections(t *testing.T) {
	m, trades := tradedMarket(t)

	var buf bytes.Buffer
	r := New(&buf, Options{Verbose: true, Median: true, TraderInfo: true, TimeTravelers: true})
	r.Begin()
	r.Trades(trades)
	r.Medians(1, m)
	r.EndOfDay(m)
	require.NoError(t, r.Flush())

	want := `Processing orders...
Trader 2 purchased 3 shares of Stock 0 from Trader 1 for $10/share
Trader 0 purchased 2 shares of Stock 0 from Trader 1 for $10/share
Median match price of Stock 0 at time 1 is $10
---End of Day---
Trades Completed: 2
---Trader Info---
Trader 0 bought 2 and sold 0 for a net transfer of $-20
Trader 1 bought 0 and sold 5 for a net transfer of $50
Trader 2 bought 3 and sold 0 for a net transfer of $-30
---Time Travelers---
A time traveler would buy Stock 0 at time 0 for $10 and sell it at time 1 for $20
A time traveler could not make a profit on Stock 1
`
	assert.Equal(t, want, buf.String())
}

func TestReporterDefaultSections(t *testing.T) {
	m, trades := tradedMarket(t)

	var buf bytes.Buffer
	r := New(&buf, Options{})
	r.Begin()
	r.Trades(trades)
	r.Medians(1, m)
	r.EndOfDay(m)
	require.NoError(t, r.Flush())

	assert.Equal(t, "Processing orders...\n---End of Day---\nTrades Completed: 2\n", buf.String())
}

func TestReporterSkipsUntradedMedians(t *testing.T) {
	m, err := engine.NewMarket(engine.MarketConfig{Traders: 1, Instruments: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	r := New(&buf, Options{Median: true})
	r.Medians(0, m)
	require.NoError(t, r.Flush())
	assert.Empty(t, buf.String())
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestReporterKeepsFirstError(t *testing.T) {
	boom := errors.New("disk full")
	m, _ := tradedMarket(t)

	r := New(failingWriter{err: boom}, Options{TraderInfo: true})
	r.Begin()
	r.EndOfDay(m)
	assert.ErrorIs(t, r.Flush(), boom)
	assert.ErrorIs(t, r.Err(), boom)

	r.Begin()
	assert.ErrorIs(t, r.Flush(), boom)
}
