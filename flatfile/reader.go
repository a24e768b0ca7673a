// Package flatfile wraps line-oriented data files, transparently
// handling gzip compression by file extension. The trajectory readers
// sit on top of it for peeking, line reads, and header-skipping
// resets.
package flatfile

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// Reader reads a plain or .gz file line by line.
// Not safe for concurrent use.
type Reader struct {
	f      *os.File
	gzr    *gzip.Reader
	br     *bufio.Reader
	lineN  int
	closed bool
}

// Open opens path for line reading. Paths ending in .gz are
// decompressed on the fly.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDONLY, 0660)
	if err != nil {
		return nil, err
	}
	r := &Reader{f: f}
	if strings.HasSuffix(path, ".gz") {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.gzr = gzr
		r.br = bufio.NewReader(gzr)
	} else {
		r.br = bufio.NewReader(f)
	}
	return r, nil
}

func (r *Reader) Path() string {
	return r.f.Name()
}

// Peek reports whether at least one more byte remains.
func (r *Reader) Peek() bool {
	if r.closed {
		return false
	}
	_, err := r.br.Peek(1)
	return err == nil
}

// LineN returns the number of lines read since open or reset.
func (r *Reader) LineN() int {
	return r.lineN
}

// ReadLine returns the next line without its terminator.
// CRLF endings are tolerated. The final line needs no terminator.
func (r *Reader) ReadLine() (string, error) {
	if r.closed {
		return "", os.ErrClosed
	}
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	r.lineN++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// Read satisfies the io.Reader interface, decompressing when the
// file is gzipped. Mixing Read with ReadLine confuses line counts;
// pick one.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, os.ErrClosed
	}
	return r.br.Read(p)
}

// Reset repositions to the start of the file.
func (r *Reader) Reset() error {
	if r.closed {
		return os.ErrClosed
	}
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if r.gzr != nil {
		if err := r.gzr.Reset(r.f); err != nil {
			return err
		}
		r.br.Reset(r.gzr)
	} else {
		r.br.Reset(r.f)
	}
	r.lineN = 0
	return nil
}

// Close satisfies the io.Closer interface. Idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	defer func() {
		r.closed = true
	}()
	if r.gzr != nil {
		if err := r.gzr.Close(); err != nil {
			return err
		}
	}
	return r.f.Close()
}
