// Package report renders the human-readable market log.
package report

import (
	"bufio"
	"fmt"
	"io"

	"marketsim/engine"
)

// Options selects the optional report sections.
type Options struct {
	Verbose       bool
	Median        bool
	TraderInfo    bool
	TimeTravelers bool
}

// Reporter writes report lines to a buffered writer. The first write error
// is kept and every later call becomes a no-op; check Err after Flush.
type Reporter struct {
	opts Options
	w    *bufio.Writer
	err  error
}

func New(w io.Writer, opts Options) *Reporter {
	return &Reporter{opts: opts, w: bufio.NewWriter(w)}
}

func (r *Reporter) Options() Options { return r.opts }

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) Begin() {
	r.printf("Processing orders...\n")
}

// Trades prints one line per fill in verbose mode.
func (r *Reporter) Trades(trades []engine.Trade) {
	if !r.opts.Verbose {
		return
	}
	for _, t := range trades {
		r.printf("Trader %d purchased %d shares of Stock %d from Trader %d for $%d/share\n",
			t.BuyerID, t.Quantity, t.Instrument, t.SellerID, t.Price)
	}
}

// Medians prints the median of every instrument that has traded, labelled
// with ts.
func (r *Reporter) Medians(ts int64, m *engine.Market) {
	if !r.opts.Median {
		return
	}
	for s := 0; s < m.Instruments(); s++ {
		med, ok := m.SnapshotMedian(s)
		if !ok {
			continue
		}
		r.printf("Median match price of Stock %d at time %d is $%d\n", s, ts, med)
	}
}

// EndOfDay prints the summary and the optional trader and time-traveler
// sections.
func (r *Reporter) EndOfDay(m *engine.Market) {
	r.printf("---End of Day---\n")
	r.printf("Trades Completed: %d\n", m.TradesCompleted())

	if r.opts.TraderInfo {
		r.printf("---Trader Info---\n")
		for t := 0; t < m.Traders(); t++ {
			st := m.Trader(t)
			r.printf("Trader %d bought %d and sold %d for a net transfer of $%d\n",
				t, st.Bought, st.Sold, st.NetCashFlow)
		}
	}

	if r.opts.TimeTravelers {
		r.printf("---Time Travelers---\n")
		for s := 0; s < m.Instruments(); s++ {
			opp, ok := m.TimeTraveler(s)
			if !ok {
				r.printf("A time traveler could not make a profit on Stock %d\n", s)
				continue
			}
			r.printf("A time traveler would buy Stock %d at time %d for $%d and sell it at time %d for $%d\n",
				s, opp.BuyTime, opp.BuyPrice, opp.SellTime, opp.SellPrice)
		}
	}
}

func (r *Reporter) Flush() error {
	if r.err != nil {
		return r.err
	}
	r.err = r.w.Flush()
	return r.err
}

// Err returns the first write error.
func (r *Reporter) Err() error { return r.err }
