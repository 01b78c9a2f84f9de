// Package sim drives a market session from an order source to the report.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"marketsim/engine"
	"marketsim/feed"
	"marketsim/metrics"
	"marketsim/report"
)

// Session wires one market to its reporter. Metrics and Logger are optional.
type Session struct {
	Market   *engine.Market
	Reporter *report.Reporter
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Summary describes a finished run.
type Summary struct {
	Orders  int
	Trades  uint64
	Elapsed time.Duration
}

// Run consumes src until io.EOF. Medians are reported whenever the timestamp
// moves forward and once more after the last order. A malformed record stops
// the run and is returned with its record number.
func (s *Session) Run(ctx context.Context, src feed.Source) (Summary, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var sum Summary
	start := time.Now()
	logger.Info("session_started",
		"traders", s.Market.Traders(),
		"stocks", s.Market.Instruments(),
	)

	// Lines already reported stay visible when the run stops early.
	fail := func(err error) (Summary, error) {
		_ = s.Reporter.Flush()
		return s.finish(sum, start), err
	}

	s.Reporter.Begin()
	prevTs := int64(-1)
	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("feed_read_failed", "record", sum.Orders+1, "error", err)
			return fail(fmt.Errorf("read feed: %w", err))
		}

		if err := s.Market.Validate(rec); err != nil {
			logger.Error("malformed_order", "record", sum.Orders+1, "error", err)
			return fail(fmt.Errorf("record %d: %w", sum.Orders+1, err))
		}
		if rec.Timestamp != prevTs {
			s.Reporter.Medians(prevTs, s.Market)
			prevTs = rec.Timestamp
		}

		trades, err := s.Market.Ingest(rec)
		if err != nil {
			return fail(fmt.Errorf("record %d: %w", sum.Orders+1, err))
		}
		sum.Orders++
		s.Reporter.Trades(trades)
		if len(trades) > 0 {
			s.recordMedian(rec.InstrumentID)
			logger.Debug("order_matched",
				"record", sum.Orders,
				"stock", rec.InstrumentID,
				"trades", len(trades),
			)
		}
	}

	if sum.Orders > 0 {
		s.Reporter.Medians(prevTs, s.Market)
	}
	s.Reporter.EndOfDay(s.Market)
	sum = s.finish(sum, start)

	if err := s.Reporter.Flush(); err != nil {
		return sum, fmt.Errorf("write report: %w", err)
	}
	logger.Info("session_finished",
		"orders", sum.Orders,
		"trades", sum.Trades,
		"elapsed", sum.Elapsed,
	)
	return sum, nil
}

func (s *Session) recordMedian(instrument int) {
	if s.Metrics == nil {
		return
	}
	if med, ok := s.Market.SnapshotMedian(instrument); ok {
		s.Metrics.RecordMedian(instrument, med)
	}
}

func (s *Session) finish(sum Summary, start time.Time) Summary {
	sum.Trades = s.Market.TradesCompleted()
	sum.Elapsed = time.Since(start)
	if s.Metrics != nil {
		s.Metrics.RecordSessionSeconds(sum.Elapsed.Seconds())
	}
	return sum
}
