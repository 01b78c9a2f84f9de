package bots

import (
	"errors"
	"io"
	"math/rand"

	"marketsim/engine"
)

// Config controls a generated order stream.
type Config struct {
	Seed        int64
	Orders      int
	ArrivalRate int // average orders per timestamp
	Traders     int
	Instruments int
	BasePrice   int64
}

// Supervisor orchestrates multiple bots into one deterministic order stream.
// It implements the feed source contract: Next returns io.EOF once Orders
// records were produced.
type Supervisor struct {
	cfg       Config
	rng       *rand.Rand
	bots      []Bot
	viewer    BookViewer
	emitted   int
	timestamp int64
}

// NewSupervisor builds the default swarm of bots. viewer supplies the live top
// of book the bots quote against; a nil viewer makes them quote around
// BasePrice only.
func NewSupervisor(cfg Config, viewer BookViewer) (*Supervisor, error) {
	switch {
	case cfg.Orders < 0:
		return nil, errors.New("order count must not be negative")
	case cfg.ArrivalRate <= 0:
		return nil, errors.New("arrival rate must be positive")
	case cfg.Traders <= 0:
		return nil, errors.New("trader count must be positive")
	case cfg.Instruments <= 0:
		return nil, errors.New("instrument count must be positive")
	case cfg.BasePrice <= 0:
		return nil, errors.New("base price must be positive")
	}

	bots := []Bot{
		NewRandomBidBot(cfg.BasePrice),
		NewRandomAskBot(cfg.BasePrice),
		NewRandomBidBot(cfg.BasePrice),
		NewRandomAskBot(cfg.BasePrice),
		NewSpreadCaptureBot(cfg.BasePrice),
	}
	return &Supervisor{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		bots:   bots,
		viewer: viewer,
	}, nil
}

// Next produces the next order record.
func (s *Supervisor) Next() (engine.OrderRecord, error) {
	if s.emitted >= s.cfg.Orders {
		return engine.OrderRecord{}, io.EOF
	}

	instrument := s.rng.Intn(s.cfg.Instruments)
	trader := s.rng.Intn(s.cfg.Traders)
	bot := s.bots[s.rng.Intn(len(s.bots))]

	var view engine.BookView
	if s.viewer != nil {
		view = s.viewer.View(instrument)
	}
	p := bot.Propose(s.rng, instrument, view)

	rec := engine.OrderRecord{
		Timestamp:    s.timestamp,
		Side:         p.Side,
		TraderID:     trader,
		InstrumentID: instrument,
		Price:        p.Price,
		Quantity:     p.Quantity,
	}

	s.emitted++
	if s.rng.Intn(s.cfg.ArrivalRate) == 0 {
		s.timestamp++
	}
	return rec, nil
}

// Emitted returns how many records were produced so far.
func (s *Supervisor) Emitted() int {
	return s.emitted
}
