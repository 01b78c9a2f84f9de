package bots

import (
	"math/rand"

	"marketsim/engine"
)

// RandomBidBot places limit bids around the mid price. CrossTicks lets a bid
// reach above the mid so that it can take resting asks.
type RandomBidBot struct {
	BasePrice   int64
	TickSize    int64
	RangeTicks  int64
	CrossTicks  int64
	MaxQuantity int64
}

func NewRandomBidBot(basePrice int64) *RandomBidBot {
	return &RandomBidBot{
		BasePrice:   basePrice,
		TickSize:    1,
		RangeTicks:  5,
		CrossTicks:  2,
		MaxQuantity: 10,
	}
}

func (b *RandomBidBot) Propose(rng *rand.Rand, _ int, view engine.BookView) Proposal {
	mid := midPrice(view, b.BasePrice)
	delta := rng.Int63n(b.RangeTicks+b.CrossTicks+1) - b.RangeTicks
	return Proposal{
		Side:     engine.Buy,
		Price:    clampPrice(mid+delta*b.TickSize, b.TickSize),
		Quantity: rng.Int63n(b.MaxQuantity) + 1,
	}
}

// RandomAskBot places limit asks around the mid price.
type RandomAskBot struct {
	BasePrice   int64
	TickSize    int64
	RangeTicks  int64
	CrossTicks  int64
	MaxQuantity int64
}

func NewRandomAskBot(basePrice int64) *RandomAskBot {
	return &RandomAskBot{
		BasePrice:   basePrice,
		TickSize:    1,
		RangeTicks:  5,
		CrossTicks:  2,
		MaxQuantity: 10,
	}
}

func (b *RandomAskBot) Propose(rng *rand.Rand, _ int, view engine.BookView) Proposal {
	mid := midPrice(view, b.BasePrice)
	delta := rng.Int63n(b.RangeTicks+b.CrossTicks+1) - b.CrossTicks
	return Proposal{
		Side:     engine.Sell,
		Price:    clampPrice(mid+delta*b.TickSize, b.TickSize),
		Quantity: rng.Int63n(b.MaxQuantity) + 1,
	}
}
