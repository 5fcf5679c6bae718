package record

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// LineSource yields one line of text per call, without the line terminator.
// It returns io.EOF once the input is exhausted; an empty line is returned as
// "" with a nil error. Implementations may block.
type LineSource interface {
	ReadLine() (string, error)
}

// maxLineLen bounds a single line; the longest valid record is 771
// characters. Anything past the bound is discarded up to the line terminator.
const maxLineLen = 64 * 1024

// ReaderSource reads lines from an io.Reader.
type ReaderSource struct {
	reader *bufio.Reader
}

// NewReaderSource wraps r as a LineSource.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{reader: bufio.NewReaderSize(r, 4096)}
}

// ReadLine returns the next line, or io.EOF at end of input. A line longer
// than maxLineLen is cut to its first maxLineLen bytes so it frames as a
// corrupt record instead of stopping the scan.
func (s *ReaderSource) ReadLine() (string, error) {
	var line []byte
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if room := maxLineLen - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return trimEOL(line), nil
		}
		if err != nil {
			return "", err
		}
		return trimEOL(line), nil
	}
}

func trimEOL(line []byte) string {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return string(line)
}

// SliceSource serves lines from memory.
type SliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource returns a LineSource over lines.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

// ReadLine returns the next line, or io.EOF once all lines were served.
func (s *SliceSource) ReadLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}
