// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/matrix/internal/ctxlog"
	"github.com/katalvlaran/matrix/internal/spool"
	"github.com/katalvlaran/matrix/matrix"
	"golang.org/x/term"
)

const stdinName = "<stdin>"

// input is one resolved matrix source: a checked file path or spooled stdin.
type input struct {
	name  string       // path, or stdinName
	path  string       // empty for stdin
	spool *spool.Spool // nil for files
}

// checkReadable verifies that path exists, is not a directory and can be
// opened for reading.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &FileError{Path: path, Err: errors.New("is a directory")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}

	return f.Close()
}

// resolveFiles checks every path before any of them is parsed.
func resolveFiles(ctx context.Context, paths []string) ([]*input, error) {
	logger := ctxlog.FromContext(ctx)
	inputs := make([]*input, 0, len(paths))
	for _, p := range paths {
		if err := checkReadable(p); err != nil {
			return nil, err
		}
		logger.Debug("Resolved input file.", "path", p)
		inputs = append(inputs, &input{name: p, path: p})
	}

	return inputs, nil
}

// resolveStdin drains stdin into a spool under dir. The caller owns the
// returned input and must Close it.
func resolveStdin(ctx context.Context, stdin io.Reader, dir string) (*input, error) {
	logger := ctxlog.FromContext(ctx)
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Info("Reading matrix from the terminal; finish input with Ctrl-D.")
	}

	sp, err := spool.FromReader(ctx, dir, stdin)
	if err != nil {
		return nil, err
	}
	logger.Debug("Spooled standard input.", "bytes", sp.Size(), "path", sp.Name())

	return &input{name: stdinName, spool: sp}, nil
}

func (in *input) open() (io.ReadCloser, error) {
	if in.spool != nil {
		return io.NopCloser(in.spool.Reader()), nil
	}
	f, err := os.Open(in.path)
	if err != nil {
		return nil, &FileError{Path: in.path, Err: err}
	}

	return f, nil
}

// load parses the input into a fresh matrix.
func (in *input) load(ctx context.Context) (*matrix.Dense, error) {
	rc, err := in.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := matrix.ReadTSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.name, err)
	}
	rows, cols := m.Shape()
	ctxlog.FromContext(ctx).Debug("Parsed matrix.", "input", in.name, "rows", rows, "cols", cols)

	return m, nil
}

// Close releases any temporary storage behind the input.
func (in *input) Close() error {
	if in.spool != nil {
		return in.spool.Close()
	}

	return nil
}
