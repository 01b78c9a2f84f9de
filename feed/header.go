// Package feed decodes and encodes the textual order feed.
//
// A feed starts with a free-form comment line followed by a header:
//
//	COMMENT: anything
//	MODE: TL
//	NUM_TRADERS: 3
//	NUM_STOCKS: 2
//
// In TL (trade list) mode the header is followed by one order per line:
//
//	<timestamp> BUY|SELL T<trader> S<stock> $<price> #<quantity>
//
// In PR (pseudo-random) mode it is followed by
// RANDOM_SEED, NUMBER_OF_ORDERS and ARRIVAL_RATE and orders are generated.
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax is returned for input that does not follow the feed grammar.
var ErrSyntax = errors.New("feed syntax error")

// Mode selects how orders are supplied after the header.
type Mode string

const (
	ModeTradeList    Mode = "TL"
	ModePseudoRandom Mode = "PR"
)

// Header is the feed preamble.
type Header struct {
	Comment     string
	Mode        Mode
	Traders     int
	Instruments int
}

// Reader reads a feed: the header first, then orders through Source.
type Reader struct {
	header Header
	tokens *tokenizer
}

// NewReader consumes the comment line and the header fields.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	comment, err := br.ReadString('\n')
	if err != nil && comment == "" {
		return nil, fmt.Errorf("%w: missing comment line: %v", ErrSyntax, err)
	}

	fr := &Reader{
		header: Header{Comment: strings.TrimRight(comment, "\r\n")},
		tokens: newTokenizer(br),
	}
	if err := fr.readHeader(); err != nil {
		return nil, err
	}
	return fr, nil
}

// Header returns the decoded preamble.
func (r *Reader) Header() Header {
	return r.header
}

func (r *Reader) readHeader() error {
	h := &r.header
	mode, err := r.tokens.field("MODE:")
	if err != nil {
		return err
	}
	switch Mode(mode) {
	case ModeTradeList, ModePseudoRandom:
		h.Mode = Mode(mode)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrSyntax, mode)
	}

	if h.Traders, err = r.tokens.intField("NUM_TRADERS:"); err != nil {
		return err
	}
	if h.Instruments, err = r.tokens.intField("NUM_STOCKS:"); err != nil {
		return err
	}
	if h.Traders < 0 {
		return fmt.Errorf("%w: negative trader count %d", ErrSyntax, h.Traders)
	}
	if h.Instruments <= 0 {
		return fmt.Errorf("%w: stock count %d must be positive", ErrSyntax, h.Instruments)
	}
	return nil
}

// tokenizer reads whitespace separated words.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokenizer) err() error {
	return t.sc.Err()
}

func (t *tokenizer) field(label string) (string, error) {
	tok, ok := t.next()
	if !ok || tok != label {
		return "", fmt.Errorf("%w: expected %s, got %q", ErrSyntax, label, tok)
	}
	value, ok := t.next()
	if !ok {
		return "", fmt.Errorf("%w: missing value for %s", ErrSyntax, label)
	}
	return value, nil
}

func (t *tokenizer) intField(label string) (int, error) {
	value, err := t.field(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrSyntax, label, value)
	}
	return n, nil
}
