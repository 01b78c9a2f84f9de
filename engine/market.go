package engine

import (
	"errors"
	"fmt"
)

// Recorder observes engine activity. Calls happen on the ingesting goroutine.
type Recorder interface {
	OrderIngested(side Side)
	TradeExecuted(trade Trade)
}

type noopRecorder struct{}

func (noopRecorder) OrderIngested(Side)   {}
func (noopRecorder) TradeExecuted(Trade) {}

// MarketConfig controls market parameters.
type MarketConfig struct {
	Traders     int
	Instruments int
	// StrictTimestamps rejects negative and decreasing timestamps.
	StrictTimestamps bool
	Recorder         Recorder
}

// instrument groups the independent per-instrument state.
type instrument struct {
	book     *OrderBook
	median   MedianTracker
	traveler TimeTraveler
}

// Market routes decoded orders to their instrument, matches them and keeps
// the running aggregates.
//
// A Market is single-writer: Ingest must not be called concurrently, and
// every query observes the state after the last completed Ingest.
type Market struct {
	cfg         MarketConfig
	instruments []instrument
	traders     []TraderStats
	seq         int64
	trades      uint64
	lastTs      int64
	recorder    Recorder
}

// NewMarket builds a market with a fixed number of traders and instruments.
func NewMarket(cfg MarketConfig) (*Market, error) {
	if cfg.Instruments <= 0 {
		return nil, errors.New("instrument count must be positive")
	}
	if cfg.Traders < 0 {
		return nil, errors.New("trader count must not be negative")
	}

	m := &Market{
		cfg:         cfg,
		instruments: make([]instrument, cfg.Instruments),
		traders:     make([]TraderStats, cfg.Traders),
		lastTs:      -1,
		recorder:    cfg.Recorder,
	}
	for i := range m.instruments {
		m.instruments[i].book = NewOrderBook()
	}
	if m.recorder == nil {
		m.recorder = noopRecorder{}
	}
	return m, nil
}

// Validate checks a record against the input contract without applying it.
func (m *Market) Validate(rec OrderRecord) error {
	if m.cfg.StrictTimestamps {
		if rec.Timestamp < 0 {
			return fmt.Errorf("%w: negative timestamp %d", ErrMalformedOrder, rec.Timestamp)
		}
		if rec.Timestamp < m.lastTs {
			return fmt.Errorf("%w: timestamp %d before %d", ErrMalformedOrder, rec.Timestamp, m.lastTs)
		}
	}
	if rec.Side != Buy && rec.Side != Sell {
		return fmt.Errorf("%w: unknown side %d", ErrMalformedOrder, rec.Side)
	}
	if rec.TraderID < 0 || rec.TraderID >= len(m.traders) {
		return fmt.Errorf("%w: trader %d out of range [0,%d)", ErrMalformedOrder, rec.TraderID, len(m.traders))
	}
	if rec.InstrumentID < 0 || rec.InstrumentID >= len(m.instruments) {
		return fmt.Errorf("%w: instrument %d out of range [0,%d)", ErrMalformedOrder, rec.InstrumentID, len(m.instruments))
	}
	if rec.Price <= 0 {
		return fmt.Errorf("%w: price %d must be positive", ErrMalformedOrder, rec.Price)
	}
	if rec.Quantity <= 0 {
		return fmt.Errorf("%w: quantity %d must be positive", ErrMalformedOrder, rec.Quantity)
	}
	return nil
}

// Ingest applies one order: it is sequenced, shown to the instrument's time
// traveler, rested on the book and matched. The trades it produced are
// returned in execution order. A malformed record leaves the market untouched.
func (m *Market) Ingest(rec OrderRecord) ([]Trade, error) {
	if err := m.Validate(rec); err != nil {
		return nil, err
	}

	m.seq++
	m.lastTs = rec.Timestamp
	inst := &m.instruments[rec.InstrumentID]

	inst.traveler = inst.traveler.Observe(rec.Side, rec.Price, rec.Timestamp)
	inst.book.Insert(Order{
		Side:      rec.Side,
		Price:     rec.Price,
		Quantity:  rec.Quantity,
		TraderID:  rec.TraderID,
		Sequence:  m.seq,
		Timestamp: rec.Timestamp,
	})
	m.recorder.OrderIngested(rec.Side)

	trades := inst.book.Match(rec.InstrumentID)
	for _, trade := range trades {
		value := trade.Value()
		buyer := &m.traders[trade.BuyerID]
		buyer.Bought += trade.Quantity
		buyer.NetCashFlow -= value
		seller := &m.traders[trade.SellerID]
		seller.Sold += trade.Quantity
		seller.NetCashFlow += value

		inst.median.Add(trade.Price)
		m.trades++
		m.recorder.TradeExecuted(trade)
	}
	return trades, nil
}

// SnapshotMedian returns the instrument's median trade price, or false when
// it has not traded yet.
func (m *Market) SnapshotMedian(instrument int) (int64, bool) {
	return m.instruments[instrument].median.Median()
}

// HasTraded reports whether the instrument has at least one trade.
func (m *Market) HasTraded(instrument int) bool {
	return m.instruments[instrument].median.Len() > 0
}

// TimeTraveler returns the instrument's best retrospective opportunity.
func (m *Market) TimeTraveler(instrument int) (Opportunity, bool) {
	return m.instruments[instrument].traveler.Result()
}

// TradesCompleted returns the number of trades across all instruments.
func (m *Market) TradesCompleted() uint64 {
	return m.trades
}

// Trader returns the accumulated fills for a trader.
func (m *Market) Trader(id int) TraderStats {
	return m.traders[id]
}

// View returns the instrument's top of book.
func (m *Market) View(instrument int) BookView {
	return m.instruments[instrument].book.View()
}

// Depth returns the instrument's resting bid and ask counts.
func (m *Market) Depth(instrument int) (bids, asks int) {
	return m.instruments[instrument].book.Depth()
}

func (m *Market) Instruments() int { return len(m.instruments) }

func (m *Market) Traders() int { return len(m.traders) }

// LastSequence returns the sequence assigned to the most recent order, 0 if none.
func (m *Market) LastSequence() int64 { return m.seq }
