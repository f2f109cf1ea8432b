package docfx

import (
	"bytes"
	"fmt"
	"io"
)

// Byte markers delimiting one object in Chrome's PDF output. Chrome emits
// exactly one object per "<id> 0 obj\n ... endobj\n" block with no object
// streams, which is what lets the scanner work without tokenizing.
var (
	objMarker    = []byte(" 0 obj\n")
	endobjMarker = []byte("endobj\n")
)

const scannerChunkSize = 64 * 1024

// objectScanner locates object regions in a PDF byte stream, yielding
// (id, body) pairs without copying. The body slice aliases the internal
// buffer and is only valid until the next call to Next.
//
// Bytes outside object regions (the file header, xref table and trailer)
// are skipped. When the buffered data does not yet contain a complete
// object the scanner reads more from the source and retries, so it can
// consume a pipe that delivers the file in arbitrary segments.
type objectScanner struct {
	r   io.Reader
	buf []byte
	off int // consumed prefix of buf
	eof bool
}

func newObjectScanner(r io.Reader) *objectScanner {
	return &objectScanner{r: r}
}

// Next returns the next object's id and body. It returns io.EOF once the
// source is exhausted past the last complete object, and ErrMalformedPDF
// when the source ends with an unterminated object.
func (s *objectScanner) Next() (int, []byte, error) {
	for {
		if id, body, ok := s.scan(); ok {
			return id, body, nil
		}
		if s.eof {
			if rest := s.buf[s.off:]; bytes.Contains(rest, objMarker) {
				return 0, nil, fmt.Errorf("%w: object without endobj terminator", ErrMalformedPDF)
			}
			return 0, nil, io.EOF
		}
		if err := s.fill(); err != nil {
			return 0, nil, err
		}
	}
}

// scan attempts to carve one object out of the buffered bytes. When it
// returns false no input is consumed; the caller reads more and retries.
func (s *objectScanner) scan() (int, []byte, bool) {
	region := s.buf[s.off:]
	end := bytes.Index(region, endobjMarker)
	if end < 0 {
		return 0, nil, false
	}
	region = region[:end]

	start := bytes.Index(region, objMarker)
	if start < 0 {
		// endobj with no preceding object header; drop the region so a
		// damaged stream cannot stall the scanner, and look further.
		s.off += end + len(endobjMarker)
		return s.scan()
	}

	// The id is the run of ASCII digits ending at the " 0 obj" marker.
	id := 0
	scale := 1
	for i := start - 1; i >= 0 && region[i] >= '0' && region[i] <= '9'; i-- {
		id += int(region[i]-'0') * scale
		scale *= 10
	}

	body := region[start+len(objMarker):]
	s.off += end + len(endobjMarker)
	return id, body, true
}

// fill appends one read's worth of bytes, compacting the consumed prefix
// first so an input segmented across many reads does not grow the buffer
// without bound.
func (s *objectScanner) fill() error {
	if s.off > 0 {
		n := copy(s.buf, s.buf[s.off:])
		s.buf = s.buf[:n]
		s.off = 0
	}

	free := cap(s.buf) - len(s.buf)
	if free < scannerChunkSize {
		grown := make([]byte, len(s.buf), len(s.buf)+scannerChunkSize)
		copy(grown, s.buf)
		s.buf = grown
	}

	n, err := s.r.Read(s.buf[len(s.buf):cap(s.buf)])
	s.buf = s.buf[:len(s.buf)+n]
	switch {
	case err == io.EOF:
		s.eof = true
		return nil
	case err != nil:
		return fmt.Errorf("reading input PDF: %w", err)
	case n == 0:
		return nil
	}
	return nil
}
