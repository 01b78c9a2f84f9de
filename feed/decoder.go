package feed

import (
	"fmt"
	"io"
	"strconv"

	"marketsim/bots"
	"marketsim/engine"
)

// Source yields decoded order records in feed order. Next returns io.EOF
// after the last record.
type Source interface {
	Next() (engine.OrderRecord, error)
}

// PRParams are the generator parameters of a pseudo-random feed.
type PRParams struct {
	Seed        int64
	Orders      int
	ArrivalRate int
}

// DefaultBasePrice anchors generated prices while a book is still empty.
const DefaultBasePrice = 100

// Source returns the order source for the feed's mode. For PR feeds viewer
// is the market the generated orders will be ingested into.
func (r *Reader) Source(viewer bots.BookViewer) (Source, error) {
	if r.header.Mode == ModeTradeList {
		return &Decoder{tokens: r.tokens}, nil
	}

	params, err := r.readPRParams()
	if err != nil {
		return nil, err
	}
	sup, err := bots.NewSupervisor(bots.Config{
		Seed:        params.Seed,
		Orders:      params.Orders,
		ArrivalRate: params.ArrivalRate,
		Traders:     r.header.Traders,
		Instruments: r.header.Instruments,
		BasePrice:   DefaultBasePrice,
	}, viewer)
	if err != nil {
		return nil, fmt.Errorf("pseudo-random feed: %w", err)
	}
	return sup, nil
}

func (r *Reader) readPRParams() (PRParams, error) {
	var p PRParams
	seed, err := r.tokens.field("RANDOM_SEED:")
	if err != nil {
		return p, err
	}
	if p.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
		return p, fmt.Errorf("%w: RANDOM_SEED: %q is not an integer", ErrSyntax, seed)
	}
	if p.Orders, err = r.tokens.intField("NUMBER_OF_ORDERS:"); err != nil {
		return p, err
	}
	if p.ArrivalRate, err = r.tokens.intField("ARRIVAL_RATE:"); err != nil {
		return p, err
	}
	return p, nil
}

// Decoder reads trade-list records. It only checks the grammar; range and
// ordering rules are enforced by the market.
type Decoder struct {
	tokens *tokenizer
	count  int
}

// NewDecoder reads bare records without a header.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{tokens: newTokenizer(r)}
}

// Next decodes one record.
func (d *Decoder) Next() (engine.OrderRecord, error) {
	var rec engine.OrderRecord

	first, ok := d.tokens.next()
	if !ok {
		if err := d.tokens.err(); err != nil {
			return rec, err
		}
		return rec, io.EOF
	}
	d.count++

	var fields [5]string
	for i := range fields {
		tok, ok := d.tokens.next()
		if !ok {
			return rec, fmt.Errorf("%w: record %d truncated", ErrSyntax, d.count)
		}
		fields[i] = tok
	}

	var err error
	if rec.Timestamp, err = strconv.ParseInt(first, 10, 64); err != nil {
		return rec, d.syntaxErr("timestamp", first)
	}
	switch fields[0] {
	case "BUY":
		rec.Side = engine.Buy
	case "SELL":
		rec.Side = engine.Sell
	default:
		return rec, d.syntaxErr("side", fields[0])
	}
	if rec.TraderID, err = prefixedInt(fields[1], 'T'); err != nil {
		return rec, d.syntaxErr("trader", fields[1])
	}
	if rec.InstrumentID, err = prefixedInt(fields[2], 'S'); err != nil {
		return rec, d.syntaxErr("stock", fields[2])
	}
	price, err := prefixedInt(fields[3], '$')
	if err != nil {
		return rec, d.syntaxErr("price", fields[3])
	}
	qty, err := prefixedInt(fields[4], '#')
	if err != nil {
		return rec, d.syntaxErr("quantity", fields[4])
	}
	rec.Price, rec.Quantity = int64(price), int64(qty)
	return rec, nil
}

// Count returns the number of records started so far.
func (d *Decoder) Count() int {
	return d.count
}

func (d *Decoder) syntaxErr(field, tok string) error {
	return fmt.Errorf("%w: record %d: bad %s %q", ErrSyntax, d.count, field, tok)
}

func prefixedInt(tok string, prefix byte) (int, error) {
	if len(tok) < 2 || tok[0] != prefix {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(tok[1:])
}
