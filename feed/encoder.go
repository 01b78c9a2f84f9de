package feed

import (
	"bufio"
	"io"
	"strconv"

	"marketsim/engine"
)

// Encoder writes a trade-list feed. Call Flush when done.
type Encoder struct {
	w   *bufio.Writer
	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteHeader writes the comment line and a TL header.
func (e *Encoder) WriteHeader(comment string, traders, instruments int) error {
	e.buf = e.buf[:0]
	e.buf = append(e.buf, "COMMENT: "...)
	e.buf = append(e.buf, comment...)
	e.buf = append(e.buf, "\nMODE: TL\nNUM_TRADERS: "...)
	e.buf = strconv.AppendInt(e.buf, int64(traders), 10)
	e.buf = append(e.buf, "\nNUM_STOCKS: "...)
	e.buf = strconv.AppendInt(e.buf, int64(instruments), 10)
	e.buf = append(e.buf, '\n')
	_, err := e.w.Write(e.buf)
	return err
}

// Encode writes one record line.
func (e *Encoder) Encode(rec engine.OrderRecord) error {
	e.buf = e.buf[:0]
	e.buf = strconv.AppendInt(e.buf, rec.Timestamp, 10)
	e.buf = append(e.buf, ' ')
	e.buf = append(e.buf, rec.Side.String()...)
	e.buf = append(e.buf, " T"...)
	e.buf = strconv.AppendInt(e.buf, int64(rec.TraderID), 10)
	e.buf = append(e.buf, " S"...)
	e.buf = strconv.AppendInt(e.buf, int64(rec.InstrumentID), 10)
	e.buf = append(e.buf, " $"...)
	e.buf = strconv.AppendInt(e.buf, rec.Price, 10)
	e.buf = append(e.buf, " #"...)
	e.buf = strconv.AppendInt(e.buf, rec.Quantity, 10)
	e.buf = append(e.buf, '\n')
	_, err := e.w.Write(e.buf)
	return err
}

func (e *Encoder) Flush() error {
	return e.w.Flush()
}
