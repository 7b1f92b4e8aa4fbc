package pipeline

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// readBufferSize is the bufio buffer used by LineReader. Lines longer than
// the buffer are consumed in several reads.
const readBufferSize = 4096

// LineReader splits a stream into lines, stripping "\n" and "\r\n"
// terminators and truncating each line to a byte limit.
type LineReader struct {
	r         *bufio.Reader
	max       int
	lineNo    int
	truncated int
	buf       []byte
}

// NewLineReader returns a LineReader that keeps at most max bytes per line.
// The remainder of an over-long line is discarded, not returned as a new line.
func NewLineReader(r io.Reader, max int) *LineReader {
	if max < 1 {
		max = 1
	}
	return &LineReader{
		r:   bufio.NewReaderSize(r, readBufferSize),
		max: max,
		buf: make([]byte, 0, max),
	}
}

// Next returns the next line and its 1-based number.
// It returns io.EOF once the stream is exhausted. A last line without a
// terminator is still returned.
func (lr *LineReader) Next() (string, int, error) {
	lr.buf = lr.buf[:0]
	over := false
	sawData := false
	firstDropped := -1 // First byte past the limit, -1 while nothing was dropped

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			sawData = true
		}
		if room := lr.max - len(lr.buf); room > 0 {
			if len(chunk) > room {
				lr.buf = append(lr.buf, chunk[:room]...)
				over = over || !isTerminator(chunk[room:])
				if firstDropped < 0 {
					firstDropped = int(chunk[room])
				}
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		} else if len(chunk) > 0 {
			over = over || !isTerminator(chunk)
			if firstDropped < 0 {
				firstDropped = int(chunk[0])
			}
		}

		switch {
		case err == nil:
			return lr.finish(over, firstDropped)
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !sawData {
				return "", lr.lineNo, io.EOF
			}
			return lr.finish(over, firstDropped)
		default:
			return "", lr.lineNo, err
		}
	}
}

// Truncated reports how many lines exceeded the limit so far.
func (lr *LineReader) Truncated() int {
	return lr.truncated
}

// finish strips the terminator kept in buf. A "\r" at the end of buf is
// only a terminator when nothing was dropped or the first dropped byte is
// the matching "\n"; otherwise it is line content cut by the limit.
func (lr *LineReader) finish(over bool, firstDropped int) (string, int, error) {
	lr.lineNo++
	line := lr.buf
	if !over && (firstDropped < 0 || firstDropped == '\n') {
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
	}
	if over {
		lr.truncated++
		line = trimPartialRune(line)
	}
	return string(line), lr.lineNo, nil
}

// isTerminator reports whether b holds nothing but a line terminator, or
// the "\r" half of one split across two reads.
func isTerminator(b []byte) bool {
	switch string(b) {
	case "", "\n", "\r\n", "\r":
		return true
	}
	return false
}

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of b
// by a byte-limit cut.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}
		return b
	}
	return b
}
