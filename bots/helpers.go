package bots

import "marketsim/engine"

func midPrice(view engine.BookView, fallback int64) int64 {
	bid := int64(0)
	ask := int64(0)
	if view.BestBid != nil {
		bid = view.BestBid.Price
	}
	if view.BestAsk != nil {
		ask = view.BestAsk.Price
	}

	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case bid > 0:
		return bid
	case ask > 0:
		return ask
	default:
		return fallback
	}
}

// clampPrice keeps generated prices on the positive tick grid.
func clampPrice(price, tick int64) int64 {
	if price < tick {
		return tick
	}
	return price - price%tick
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
