// Package archive reads and writes Neptune data files: a "#NEPTUNE" header
// line followed by record lines, optionally gzip compressed.
package archive

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"neptune/internal/record"
)

// Magic is the first line of every archive.
const Magic = "#NEPTUNE"

// ErrNotNeptune is returned when the header line is missing or wrong.
var ErrNotNeptune = errors.New("not a Neptune data file")

var gzipMagic = []byte{0x1f, 0x8b}

// Reader is a record.LineSource over the body of an archive.
type Reader struct {
	lines   *record.ReaderSource
	closers []io.Closer
}

// Open opens the archive at path and verifies its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader verifies the header of an archive read from src. Gzip input is
// detected by its magic bytes and decompressed.
func NewReader(src io.Reader) (*Reader, error) {
	br := bufio.NewReader(src)
	r := &Reader{}

	var body io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && string(head) == string(gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip header: %w", err)
		}
		r.closers = append(r.closers, gz)
		body = gz
	}

	r.lines = record.NewReaderSource(body)

	header, err := r.lines.ReadLine()
	if errors.Is(err, io.EOF) {
		r.Close()
		return nil, fmt.Errorf("empty input: %w", ErrNotNeptune)
	}
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if strings.TrimRightFunc(header, unicode.IsSpace) != Magic {
		r.Close()
		return nil, fmt.Errorf("header %q: %w", truncate(header, 32), ErrNotNeptune)
	}

	return r, nil
}

// ReadLine returns the next body line, or io.EOF at end of the archive.
func (r *Reader) ReadLine() (string, error) {
	return r.lines.ReadLine()
}

// Close releases the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
