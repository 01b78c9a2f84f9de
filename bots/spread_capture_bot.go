package bots

import (
	"math/rand"

	"marketsim/engine"
)

// SpreadCaptureBot quotes a bid just under the mid and, on its next turn for
// the same instrument, the paired ask above it. A pair is dropped when the mid
// has moved ThresholdTicks away from where the bid was quoted.
type SpreadCaptureBot struct {
	BasePrice      int64
	TickSize       int64
	ThresholdTicks int64
	Quantity       int64

	pending map[int]pairedQuote
}

type pairedQuote struct {
	askPrice  int64
	anchorMid int64
}

func NewSpreadCaptureBot(basePrice int64) *SpreadCaptureBot {
	return &SpreadCaptureBot{
		BasePrice:      basePrice,
		TickSize:       1,
		ThresholdTicks: 3,
		Quantity:       1,
		pending:        make(map[int]pairedQuote),
	}
}

func (b *SpreadCaptureBot) Propose(_ *rand.Rand, instrument int, view engine.BookView) Proposal {
	mid := midPrice(view, b.BasePrice)

	if pair, ok := b.pending[instrument]; ok {
		delete(b.pending, instrument)
		if absInt64(mid-pair.anchorMid) < b.ThresholdTicks*b.TickSize {
			return Proposal{Side: engine.Sell, Price: pair.askPrice, Quantity: b.Quantity}
		}
	}

	buyPrice := clampPrice(mid-b.TickSize, b.TickSize)
	sellPrice := mid + b.TickSize
	if view.BestAsk != nil && view.BestAsk.Price > sellPrice {
		sellPrice = view.BestAsk.Price
	}
	if sellPrice <= buyPrice {
		sellPrice = buyPrice + b.TickSize
	}

	b.pending[instrument] = pairedQuote{askPrice: sellPrice, anchorMid: mid}
	return Proposal{Side: engine.Buy, Price: buyPrice, Quantity: b.Quantity}
}
