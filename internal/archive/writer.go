package archive

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
	"time"

	"neptune/internal/record"
)

// Writer produces an archive: the header, then one line per record or
// comment.
type Writer struct {
	buf *bufio.Writer
	gz  *gzip.Writer
}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	compress bool
	name     string
	modTime  time.Time
}

// WithGzip compresses the archive. name is stored in the gzip header.
func WithGzip(name string) WriterOption {
	return func(c *writerConfig) {
		c.compress = true
		c.name = name
	}
}

// NewWriter writes the header to w and returns a Writer for the body.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{modTime: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	aw := &Writer{}
	if cfg.compress {
		aw.gz = gzip.NewWriter(w)
		aw.gz.Name = cfg.name
		aw.gz.ModTime = cfg.modTime
		w = aw.gz
	}
	aw.buf = bufio.NewWriter(w)

	if _, err := aw.buf.WriteString(Magic + "\n"); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return aw, nil
}

// Comment writes a comment line. Embedded newlines start new comment lines.
func (w *Writer) Comment(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if _, err := fmt.Fprintf(w.buf, "%c %s\n", record.CommentMarker, line); err != nil {
			return fmt.Errorf("failed to write comment: %w", err)
		}
	}
	return nil
}

// WriteRecord encodes and writes one record.
func (w *Writer) WriteRecord(rec record.Record) error {
	line, err := record.Encode(rec.Type, rec.Data)
	if err != nil {
		return err
	}
	if _, err := w.buf.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close flushes buffered output and finishes the gzip stream. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	return nil
}
