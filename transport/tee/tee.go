// Package tee records the raw traffic of a stdio session to disk.
//
// Inbound bytes go to in.txt, outbound bytes to out.txt, and both are
// interleaved in combined.txt in the order they pass through.
package tee

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// File names written inside the capture directory.
const (
	InFile       = "in.txt"
	OutFile      = "out.txt"
	CombinedFile = "combined.txt"
)

// Capture owns the three capture files.
type Capture struct {
	in, out  *os.File
	combined *lockedWriter
	files    []*os.File
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Open creates dir if needed and truncates the capture files inside it.
func Open(dir string) (*Capture, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tee: create capture dir: %w", err)
	}
	c := &Capture{}
	open := func(name string) (*os.File, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("tee: open %s: %w", name, err)
		}
		c.files = append(c.files, f)
		return f, nil
	}
	var err error
	if c.in, err = open(InFile); err != nil {
		_ = c.Close()
		return nil, err
	}
	if c.out, err = open(OutFile); err != nil {
		_ = c.Close()
		return nil, err
	}
	combined, err := open(CombinedFile)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.combined = &lockedWriter{w: combined}
	return c, nil
}

// Reader returns r with every byte read also copied to in.txt and combined.txt.
func (c *Capture) Reader(r io.Reader) io.Reader {
	return io.TeeReader(r, io.MultiWriter(c.in, c.combined))
}

// Writer returns w with every byte written also copied to out.txt and combined.txt.
// Capture write failures never fail the primary write.
func (c *Capture) Writer(w io.Writer) io.Writer {
	return &teeWriter{primary: w, copies: io.MultiWriter(c.out, c.combined)}
}

type teeWriter struct {
	primary io.Writer
	copies  io.Writer
}

func (t *teeWriter) Write(p []byte) (int, error) {
	n, err := t.primary.Write(p)
	if n > 0 {
		_, _ = t.copies.Write(p[:n])
	}
	return n, err
}

// Close closes all capture files.
func (c *Capture) Close() error {
	var errs []error
	for _, f := range c.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.files = nil
	return errors.Join(errs...)
}
