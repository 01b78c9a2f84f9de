package engine

import "errors"

// Side represents the direction of an order.
type Side int

const (
	// Buy indicates a bid order.
	Buy Side = iota
	// Sell indicates an ask order.
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// ErrMalformedOrder is returned for records that violate the input contract.
var ErrMalformedOrder = errors.New("malformed order")

// OrderRecord is a decoded feed entry before it is assigned a sequence.
type OrderRecord struct {
	Timestamp    int64
	Side         Side
	TraderID     int
	InstrumentID int
	Price        int64 // minor currency units
	Quantity     int64
}

// Order is a resting order. Quantity is the remaining quantity and only
// shrinks through fills.
type Order struct {
	Side      Side
	Price     int64
	Quantity  int64
	TraderID  int
	Sequence  int64
	Timestamp int64
}

// Trade captures a completed match between one bid and one ask.
type Trade struct {
	Instrument   int
	BuyerID      int
	SellerID     int
	Price        int64
	Quantity     int64
	BuySequence  int64
	SellSequence int64
}

// Value is the cash that changed hands.
func (t Trade) Value() int64 {
	return t.Price * t.Quantity
}

// BookView summarizes top-of-book information for an instrument.
type BookView struct {
	BestBid *Order
	BestAsk *Order
}

// TraderStats accumulates a trader's fills across all instruments.
type TraderStats struct {
	Bought      int64
	Sold        int64
	NetCashFlow int64
}

// Opportunity is the best buy-then-sell pair a time traveler could have taken.
type Opportunity struct {
	BuyPrice  int64
	BuyTime   int64
	SellPrice int64
	SellTime  int64
}

func (o Opportunity) Profit() int64 {
	return o.SellPrice - o.BuyPrice
}
