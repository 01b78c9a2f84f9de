package bots

import (
	"math/rand"

	"marketsim/engine"
)

// Proposal is an order a bot wants placed.
type Proposal struct {
	Side     engine.Side
	Price    int64
	Quantity int64
}

// Bot represents a trading agent that proposes orders from the current top of book.
// Implementations draw all randomness from rng so a seeded stream is reproducible.
type Bot interface {
	Propose(rng *rand.Rand, instrument int, view engine.BookView) Proposal
}

// BookViewer abstracts the minimal surface bots need from the market.
type BookViewer interface {
	View(instrument int) engine.BookView
}
