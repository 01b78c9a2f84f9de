package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarket(t *testing.T, strict bool) *Market {
	t.Helper()
	m, err := NewMarket(MarketConfig{Traders: 3, Instruments: 2, StrictTimestamps: strict})
	require.NoError(t, err)
	return m
}

func rec(ts int64, side Side, trader, inst int, price, qty int64) OrderRecord {
	return OrderRecord{Timestamp: ts, Side: side, TraderID: trader, InstrumentID: inst, Price: price, Quantity: qty}
}

type recordingRecorder struct {
	orders map[Side]int
	trades []Trade
}

func (r *recordingRecorder) OrderIngested(side Side) {
	if r.orders == nil {
		r.orders = map[Side]int{}
	}
	r.orders[side]++
}

func (r *recordingRecorder) TradeExecuted(trade Trade) {
	r.trades = append(r.trades, trade)
}

func TestNewMarketRejectsBadCounts(t *testing.T) {
	_, err := NewMarket(MarketConfig{Traders: 1, Instruments: 0})
	assert.Error(t, err)
	_, err = NewMarket(MarketConfig{Traders: -1, Instruments: 1})
	assert.Error(t, err)
}

func TestIngestSequencesAndMatches(t *testing.T) {
	m := newTestMarket(t, true)

	trades, err := m.Ingest(rec(0, Buy, 0, 1, 50, 10))
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, int64(1), m.LastSequence())

	trades, err = m.Ingest(rec(1, Sell, 1, 1, 40, 4))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, Trade{Instrument: 1, BuyerID: 0, SellerID: 1, Price: 50, Quantity: 4, BuySequence: 1, SellSequence: 2}, trades[0])

	view := m.View(1)
	require.NotNil(t, view.BestBid)
	assert.Equal(t, int64(6), view.BestBid.Quantity)
	assert.Nil(t, view.BestAsk)

	assert.Equal(t, uint64(1), m.TradesCompleted())
	assert.Equal(t, TraderStats{Bought: 4, NetCashFlow: -200}, m.Trader(0))
	assert.Equal(t, TraderStats{Sold: 4, NetCashFlow: 200}, m.Trader(1))
	assert.Equal(t, TraderStats{}, m.Trader(2))

	med, ok := m.SnapshotMedian(1)
	require.True(t, ok)
	assert.Equal(t, int64(50), med)
}

func TestInstrumentsAreIndependent(t *testing.T) {
	m := newTestMarket(t, false)

	_, err := m.Ingest(rec(0, Buy, 0, 0, 100, 1))
	require.NoError(t, err)
	trades, err := m.Ingest(rec(0, Sell, 1, 1, 90, 1))
	require.NoError(t, err)
	assert.Empty(t, trades, "orders on different instruments never cross")

	assert.False(t, m.HasTraded(0))
	_, ok := m.SnapshotMedian(0)
	assert.False(t, ok)

	bids, asks := m.Depth(0)
	assert.Equal(t, 1, bids)
	assert.Zero(t, asks)
	bids, asks = m.Depth(1)
	assert.Zero(t, bids)
	assert.Equal(t, 1, asks)
}

func TestMedianAcrossTrades(t *testing.T) {
	m := newTestMarket(t, true)

	want := []int64{10, 15, 20}
	for i, price := range []int64{10, 20, 30} {
		ts := int64(i)
		_, err := m.Ingest(rec(ts, Sell, 0, 0, price, 1))
		require.NoError(t, err)
		trades, err := m.Ingest(rec(ts, Buy, 1, 0, price, 1))
		require.NoError(t, err)
		require.Len(t, trades, 1)

		med, ok := m.SnapshotMedian(0)
		require.True(t, ok)
		assert.Equal(t, want[i], med)
	}
}

func TestTimeTravelerSeesOrdersNotTrades(t *testing.T) {
	m := newTestMarket(t, true)

	for _, r := range []OrderRecord{
		rec(1, Sell, 0, 0, 10, 1),
		rec(2, Sell, 0, 0, 8, 1),
		rec(3, Buy, 1, 0, 15, 5),
	} {
		_, err := m.Ingest(r)
		require.NoError(t, err)
	}

	opp, ok := m.TimeTraveler(0)
	require.True(t, ok)
	assert.Equal(t, Opportunity{BuyPrice: 8, BuyTime: 2, SellPrice: 15, SellTime: 3}, opp)

	_, ok = m.TimeTraveler(1)
	assert.False(t, ok)
}

func TestMalformedOrders(t *testing.T) {
	cases := map[string]OrderRecord{
		"zero price":         rec(0, Buy, 0, 0, 0, 1),
		"negative quantity":  rec(0, Buy, 0, 0, 10, -1),
		"trader too large":   rec(0, Buy, 3, 0, 10, 1),
		"negative trader":    rec(0, Buy, -1, 0, 10, 1),
		"instrument too big": rec(0, Buy, 0, 2, 10, 1),
		"negative timestamp": rec(-1, Buy, 0, 0, 10, 1),
		"unknown side":       {Side: Side(7), Price: 1, Quantity: 1},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			m := newTestMarket(t, true)
			_, err := m.Ingest(r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedOrder))
			assert.Zero(t, m.LastSequence(), "rejected order must not consume a sequence")
		})
	}
}

func TestStrictTimestamps(t *testing.T) {
	m := newTestMarket(t, true)
	_, err := m.Ingest(rec(5, Buy, 0, 0, 10, 1))
	require.NoError(t, err)
	_, err = m.Ingest(rec(5, Buy, 0, 0, 10, 1))
	require.NoError(t, err, "equal timestamps are allowed")

	_, err = m.Ingest(rec(4, Buy, 0, 0, 10, 1))
	assert.ErrorIs(t, err, ErrMalformedOrder)

	lenient := newTestMarket(t, false)
	_, err = lenient.Ingest(rec(5, Buy, 0, 0, 10, 1))
	require.NoError(t, err)
	_, err = lenient.Ingest(rec(4, Buy, 0, 0, 10, 1))
	assert.NoError(t, err)
}

func TestRecorderObservesActivity(t *testing.T) {
	r := &recordingRecorder{}
	m, err := NewMarket(MarketConfig{Traders: 2, Instruments: 1, Recorder: r})
	require.NoError(t, err)

	_, err = m.Ingest(rec(0, Sell, 0, 0, 10, 2))
	require.NoError(t, err)
	_, err = m.Ingest(rec(0, Buy, 1, 0, 12, 3))
	require.NoError(t, err)

	assert.Equal(t, 1, r.orders[Buy])
	assert.Equal(t, 1, r.orders[Sell])
	require.Len(t, r.trades, 1)
	assert.Equal(t, int64(10), r.trades[0].Price)
}

func TestSelfTradeUpdatesBothSides(t *testing.T) {
	m := newTestMarket(t, false)
	_, err := m.Ingest(rec(0, Sell, 2, 0, 10, 3))
	require.NoError(t, err)
	_, err = m.Ingest(rec(0, Buy, 2, 0, 10, 3))
	require.NoError(t, err)

	assert.Equal(t, TraderStats{Bought: 3, Sold: 3, NetCashFlow: 0}, m.Trader(2))
}
