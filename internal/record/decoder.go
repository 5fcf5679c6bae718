package record

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"neptune/internal/metrics"
)

// CommentMarker starts a comment line.
const CommentMarker = '!'

// Decoder reads records from a LineSource one line at a time.
type Decoder struct {
	src        LineSource
	logger     *logrus.Logger
	metrics    *metrics.Manager
	line       int
	invalidHex int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMetrics reports decode counters to m.
func WithMetrics(m *metrics.Manager) DecoderOption {
	return func(d *Decoder) {
		d.metrics = m
	}
}

// NewDecoder creates a decoder over src.
func NewDecoder(src LineSource, logger *logrus.Logger, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		src:    src,
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next record.
//
// Comment and blank lines are skipped. At end of input Next returns io.EOF. A
// line that cannot be framed yields a *FrameError wrapping ErrTooShort or
// ErrBadChecksum; the error is logged and the caller may call Next again to
// continue with the following line. Any other error comes from the line
// source and is not recoverable.
func (d *Decoder) Next() (Record, error) {
	for {
		text, err := d.src.ReadLine()
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, fmt.Errorf("read line %d: %w", d.line+1, err)
		}
		d.line++

		body := strings.TrimLeft(text, " \t\r\n\v\f")
		if body == "" || body[0] == CommentMarker {
			continue
		}

		rec, partial, invalid, err := frame(body)
		if invalid > 0 {
			d.invalidHex += invalid
			for i := 0; i < invalid; i++ {
				d.metrics.InvalidHex()
			}
			d.logger.WithFields(logrus.Fields{
				"line":  d.line,
				"pairs": invalid,
			}).Debug("Non-hex characters in record, converted leniently")
		}
		if err != nil {
			d.metrics.FrameRejected(reason(err))
			d.logger.WithFields(logrus.Fields{
				"line":   d.line,
				"record": partial,
			}).Warn(err.Error())
			return Record{}, &FrameError{Line: d.line, Text: text, Partial: partial, Err: err}
		}

		d.metrics.RecordDecoded(rec.Type.String())
		d.logger.WithFields(logrus.Fields{
			"line":        d.line,
			"type":        rec.Type.String(),
			"data_length": len(rec.Data),
		}).Trace("Decoded record")

		return rec, nil
	}
}

// Line returns the number of lines read so far.
func (d *Decoder) Line() int {
	return d.line
}

// InvalidHexCount returns how many hex pairs were converted leniently.
func (d *Decoder) InvalidHexCount() int {
	return d.invalidHex
}

// cursor walks one line as a sequence of "HH " tokens.
type cursor struct {
	text    string
	pos     int
	tokens  []string
	invalid int
}

// next consumes two hex characters and, if present, one separator.
func (c *cursor) next() (byte, bool) {
	if len(c.text)-c.pos < 2 {
		return 0, false
	}
	pair := c.text[c.pos : c.pos+2]
	c.pos += 2
	if c.pos < len(c.text) {
		c.pos++
	}
	c.tokens = append(c.tokens, pair)

	v, ok := HexByte(pair[0], pair[1])
	if !ok {
		c.invalid++
	}
	return v, true
}

func (c *cursor) partial() string {
	return strings.Join(c.tokens, " ")
}

// frame decodes one non-comment line.
func frame(line string) (Record, string, int, error) {
	c := &cursor{text: line}

	length, ok := c.next()
	if !ok {
		return Record{}, c.partial(), c.invalid, ErrTooShort
	}

	typ, ok := c.next()
	if !ok {
		return Record{}, c.partial(), c.invalid, ErrTooShort
	}
	sum := typ

	n := int(length) - 1
	if n < 0 {
		n = 0
	}
	data := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, ok := c.next()
		if !ok {
			return Record{}, c.partial(), c.invalid, ErrTooShort
		}
		data = append(data, b)
		sum += b
	}

	check, ok := c.next()
	if !ok {
		return Record{}, c.partial(), c.invalid, ErrTooShort
	}
	if check != sum {
		return Record{}, c.partial(), c.invalid, ErrBadChecksum
	}

	return Record{Type: Type(typ), Data: data}, c.partial(), c.invalid, nil
}
