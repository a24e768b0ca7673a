package flatfile

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotblauer/trajio/params"
)

// Writer appends lines to a plain or .gz file.
type Writer struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool

	WriterConfig
}

type WriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_APPEND | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

// Create opens path for appending, creating parent directories.
// Paths ending in .gz are gzip compressed.
func Create(path string, config *WriterConfig) (*Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	w := &Writer{f: f, WriterConfig: *config}
	if strings.HasSuffix(path, ".gz") {
		gzw, err := gzip.NewWriterLevel(f, config.CompressionLevel)
		if err != nil {
			f.Close()
			return nil, err
		}
		w.gzw = gzw
	}
	return w, nil
}

func (w *Writer) Path() string {
	return w.f.Name()
}

func (w *Writer) Write(p []byte) (int, error) {
	w.lock()
	if w.gzw != nil {
		return w.gzw.Write(p)
	}
	return w.f.Write(p)
}

// Writer returns the underlying writer, gzip or not.
func (w *Writer) Writer() io.Writer {
	if w.gzw != nil {
		return w.gzw
	}
	return w.f
}

// lock locks the file for exclusive access.
// The lock will be invalidated if and when the file is closed.
func (w *Writer) lock() {
	if w.locked || w.closed || w.f == nil {
		return
	}
	fd := w.f.Fd()
	_ = syscall.Flock(int(fd), syscall.LOCK_EX)
	w.locked = true
}

func (w *Writer) unlock() {
	if !w.locked || w.closed || w.f == nil {
		return
	}
	fd := w.f.Fd()
	_ = syscall.Flock(int(fd), syscall.LOCK_UN)
	w.locked = false
}

func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	defer func() {
		w.closed = true
	}()
	defer w.unlock()
	if w.gzw != nil {
		if err := w.gzw.Flush(); err != nil {
			return err
		}
		if err := w.gzw.Close(); err != nil {
			return err
		}
	}
	return w.f.Close()
}
