package engine

// TravelerState is the phase of a time traveler's search.
type TravelerState int

const (
	// NoTrades: no sell order has been seen yet.
	NoTrades TravelerState = iota
	// CanBuy: a cheapest sell is known but no profitable buy followed it.
	CanBuy
	// CompleteTrade: a buy/sell pair is locked in.
	CompleteTrade
	// Potential: a pair is locked in and a cheaper sell is waiting for a
	// buy that beats the locked-in profit.
	Potential
)

func (s TravelerState) String() string {
	switch s {
	case NoTrades:
		return "NoTrades"
	case CanBuy:
		return "CanBuy"
	case CompleteTrade:
		return "CompleteTrade"
	case Potential:
		return "Potential"
	default:
		return "Unknown"
	}
}

type pricePoint struct {
	price int64
	time  int64
}

// TimeTraveler tracks the most profitable "buy from a resting sell, later sell
// into a resting buy" pair in one pass over an instrument's orders.
//
// The zero value is ready to use. Observe never mutates its receiver, so the
// locked-in profit can only grow from one value to the next.
type TimeTraveler struct {
	state     TravelerState
	buy       pricePoint
	sell      pricePoint
	candidate pricePoint
}

// State returns the current phase.
func (tt TimeTraveler) State() TravelerState {
	return tt.state
}

// Observe returns the traveler after seeing an order. Profit comparisons are
// strict so the earliest pair wins ties.
func (tt TimeTraveler) Observe(side Side, price, timestamp int64) TimeTraveler {
	at := pricePoint{price: price, time: timestamp}

	switch tt.state {
	case NoTrades:
		if side == Sell {
			tt.buy = at
			tt.state = CanBuy
		}

	case CanBuy:
		if side == Sell {
			if price < tt.buy.price {
				tt.buy = at
			}
		} else if price > tt.buy.price {
			tt.sell = at
			tt.state = CompleteTrade
		}

	case CompleteTrade:
		if side == Sell {
			if price < tt.buy.price {
				tt.candidate = at
				tt.state = Potential
			}
		} else if price-tt.buy.price > tt.sell.price-tt.buy.price {
			tt.sell = at
		}

	case Potential:
		if side == Sell {
			if price < tt.candidate.price {
				tt.candidate = at
			}
		} else if price-tt.candidate.price > tt.sell.price-tt.buy.price {
			tt.buy = tt.candidate
			tt.sell = at
			tt.candidate = pricePoint{}
			tt.state = CompleteTrade
		}
	}
	return tt
}

// Result returns the locked-in opportunity, if any.
func (tt TimeTraveler) Result() (Opportunity, bool) {
	if tt.state != CompleteTrade && tt.state != Potential {
		return Opportunity{}, false
	}
	return Opportunity{
		BuyPrice:  tt.buy.price,
		BuyTime:   tt.buy.time,
		SellPrice: tt.sell.price,
		SellTime:  tt.sell.time,
	}, true
}
