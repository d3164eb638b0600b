// SPDX-License-Identifier: MIT

// Package spool drains a stream into an owned temporary file and exposes it
// as a read-only memory map, so a one-shot source such as standard input can
// be read any number of times. Every Spool must be closed; Close unmaps,
// closes and removes the file, and is safe to call more than once.
package spool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

const pattern = "matrix-stdin-*"

// Spool is a fully drained copy of a stream backed by a temporary file.
type Spool struct {
	file *os.File
	data mmap.MMap // nil when the drained stream was empty
	size int64

	once     sync.Once
	closeErr error
}

type drained struct {
	n   int64
	err error
}

// FromReader copies r into a new temporary file under dir ("" means
// os.TempDir) and maps it read-only. The copy runs on its own goroutine so
// that cancelling ctx returns at once, even while r blocks; in that case the
// temporary file is removed and the context error is returned.
func FromReader(ctx context.Context, dir string, r io.Reader) (_ *Spool, err error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("spool: %w", err)
	}
	s := &Spool{file: file}

	// Any failure below must not leave the file behind.
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	done := make(chan drained, 1)
	go func() {
		n, err := io.Copy(file, r)
		done <- drained{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("spool: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("spool: drain: %w", res.err)
		}
		s.size = res.n
	}

	if s.size == 0 {
		return s, nil
	}
	if s.data, err = mmap.Map(file, mmap.RDONLY, 0); err != nil {
		return nil, fmt.Errorf("spool: map: %w", err)
	}

	return s, nil
}

// Size returns the number of bytes drained.
func (s *Spool) Size() int64 {
	return s.size
}

// Name returns the path of the backing temporary file.
func (s *Spool) Name() string {
	return s.file.Name()
}

// Bytes returns the mapped contents. The slice is read-only and becomes
// invalid after Close.
func (s *Spool) Bytes() []byte {
	return s.data
}

// Reader returns a fresh reader positioned at the start of the contents.
func (s *Spool) Reader() io.Reader {
	return bytes.NewReader(s.data)
}

// Close releases the mapping and removes the temporary file.
func (s *Spool) Close() error {
	s.once.Do(func() {
		var errs []error
		if s.data != nil {
			if err := s.data.Unmap(); err != nil {
				errs = append(errs, err)
			}
			s.data = nil
		}
		if err := s.file.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := os.Remove(s.file.Name()); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("spool: close: %w", errors.Join(errs...))
		}
	})

	return s.closeErr
}
