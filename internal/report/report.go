// Package report renders decoded Neptune data as text: a device summary, a
// per-jump detail listing, profile tables in tab, space or CSV layout, and
// gnuplot scripts.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"neptune/internal/jump"
	"neptune/internal/record"
)

// ErrInvalidOptions is returned for an unknown report kind or sub-type.
var ErrInvalidOptions = errors.New("invalid report options")

// Kind selects the report.
type Kind byte

const (
	KindSummary Kind = 's'
	KindDetail  Kind = 'd'
	KindTable   Kind = 't'
	KindCSV     Kind = 'c'
	KindGnuplot Kind = 'p'
)

// subTypes lists the sub-type letters each kind accepts.
var subTypes = map[Kind]string{
	KindSummary: "",
	KindDetail:  "",
	KindTable:   "sh",
	KindCSV:     "h",
	KindGnuplot: "atsrp",
}

// ParseKind parses a one-letter report kind.
func ParseKind(s string) (Kind, error) {
	if len(s) == 1 {
		if _, ok := subTypes[Kind(s[0])]; ok {
			return Kind(s[0]), nil
		}
	}
	return 0, fmt.Errorf("unknown dump type %q: %w", s, ErrInvalidOptions)
}

func (k Kind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindDetail:
		return "detail"
	case KindTable:
		return "table"
	case KindCSV:
		return "csv"
	case KindGnuplot:
		return "gnuplot"
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// NeedsDataset reports whether the kind renders built profiles rather than
// the raw record stream.
func (k Kind) NeedsDataset() bool {
	return k == KindTable || k == KindCSV || k == KindGnuplot
}

// Options controls a report.
type Options struct {
	Kind       Kind
	SubTypes   string
	Location   string
	JumpNumber uint64 // zero means every jump
}

// Validate checks the sub-types against the kind.
func (o Options) Validate() error {
	allowed, ok := subTypes[o.Kind]
	if !ok {
		return fmt.Errorf("unknown dump type %q: %w", byte(o.Kind), ErrInvalidOptions)
	}
	for _, c := range o.SubTypes {
		if !strings.ContainsRune(allowed, c) {
			return fmt.Errorf("sub-type %q not valid for %s: %w", c, o.Kind, ErrInvalidOptions)
		}
	}
	return nil
}

func (o Options) has(c rune) bool {
	return strings.ContainsRune(o.SubTypes, c)
}

// Writer renders reports to an io.Writer.
type Writer struct {
	out    io.Writer
	logger *logrus.Logger
	opts   Options
}

// NewWriter creates a report writer.
func NewWriter(out io.Writer, logger *logrus.Logger, opts Options) *Writer {
	return &Writer{
		out:    out,
		logger: logger,
		opts:   opts,
	}
}

// Render writes the stream report selected by the options. Dataset reports
// go through RenderDataset.
func (w *Writer) Render(src jump.RecordSource) error {
	switch w.opts.Kind {
	case KindSummary:
		return w.Summary(src)
	case KindDetail:
		return w.Detail(src)
	}
	return fmt.Errorf("%s report needs a dataset: %w", w.opts.Kind, ErrInvalidOptions)
}

// RenderDataset writes the dataset report selected by the options.
func (w *Writer) RenderDataset(ds *jump.Dataset) error {
	switch w.opts.Kind {
	case KindTable, KindCSV:
		return w.Profiles(ds)
	case KindGnuplot:
		return w.Gnuplot(ds)
	}
	return fmt.Errorf("%s report reads the record stream: %w", w.opts.Kind, ErrInvalidOptions)
}

// printer keeps the first write error so formatting code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// eachRecord calls fn for every well-formed record until io.EOF or until fn
// reports done.
func eachRecord(src jump.RecordSource, fn func(record.Record) (done bool, err error)) error {
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if record.IsMalformed(err) {
				continue
			}
			return fmt.Errorf("read record: %w", err)
		}

		done, err := fn(rec)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
