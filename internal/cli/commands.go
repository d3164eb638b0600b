// SPDX-License-Identifier: MIT

// Package cli implements the matrix command tree: argument validation, input
// resolution (files or spooled standard input), dispatch to the matrix
// kernels and the mapping of failures to exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/katalvlaran/matrix/internal/ctxlog"
	"github.com/katalvlaran/matrix/matrix"
	"github.com/spf13/cobra"
)

const progName = "matrix"

const usageText = `Usage:
  matrix dims [MATRIX]
  matrix transpose [MATRIX]
  matrix mean [MATRIX]
  matrix add MATRIX_LEFT MATRIX_RIGHT
  matrix multiply MATRIX_LEFT MATRIX_RIGHT
`

const helpText = usageText + `
MATRIX is a file of tab-delimited integers, one row per line. When it is
omitted, dims, transpose and mean read the matrix from standard input.

Options:
  --log-level string    debug, info, warn or error (env MATRIX_LOG_LEVEL, default warn)
  --log-format string   text or json (env MATRIX_LOG_FORMAT, default text)
`

// Streams bundles the process I/O handed to Run.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// result renders a finished computation. Nothing is written until the
// computation has fully succeeded.
type result func(w io.Writer) error

type app struct {
	streams Streams
	getenv  func(string) string
	tempDir string

	logLevel  string
	logFormat string
	cfg       *Config
}

// Run executes one invocation and returns the process exit code.
// Diagnostics go to streams.Err; results go to streams.Out.
func Run(ctx context.Context, args []string, streams Streams) int {
	a := &app{streams: streams, getenv: os.Getenv}
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	if exitErr := a.execute(ctx, args); exitErr != nil {
		fmt.Fprintln(a.streams.Err, exitErr.Message)
		return exitErr.Code
	}

	return ExitOK
}

func (a *app) execute(ctx context.Context, args []string) *ExitError {
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(a.streams.In)
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.Err)

	if err := root.ExecuteContext(ctx); err != nil {
		return classify(err)
	}

	return nil
}

// classify maps an error to the exit code and the diagnostic printed for it.
func classify(err error) *ExitError {
	if errors.Is(err, context.Canceled) {
		return &ExitError{Code: ExitInterrupted, Message: progName + ": interrupted"}
	}

	var opErr *opError
	if errors.As(err, &opErr) {
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("%s %s: %v", progName, opErr.Cmd, opErr.Err),
		}
	}

	// UsageError, or an argument/flag error reported by cobra.
	return &ExitError{
		Code:    ExitFailure,
		Message: fmt.Sprintf("%s: %v\n%s", progName, err, strings.TrimSuffix(usageText, "\n")),
	}
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               progName,
		Short:             "Integer matrix operations over tab-delimited text",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.configure,
		RunE: func(*cobra.Command, []string) error {
			return usageErrorf("missing command")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText)
	})
	root.SetHelpCommand(newHelpCmd())

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "text or json")

	root.AddCommand(
		a.singleCmd("dims [MATRIX]", "Print the number of rows and columns", dims),
		a.singleCmd("transpose [MATRIX]", "Swap rows and columns", transpose),
		a.singleCmd("mean [MATRIX]", "Print the rounded mean of every column", mean),
		a.pairCmd("add MATRIX_LEFT MATRIX_RIGHT", "Element-wise sum of two equally shaped matrices", add),
		a.pairCmd("multiply MATRIX_LEFT MATRIX_RIGHT", "Matrix product", multiply),
	)

	return root
}

// newHelpCmd replaces cobra's help command so that an unknown topic is a
// usage error rather than a successful listing.
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [COMMAND]",
		Short: "Print usage",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) > 1:
				return usageErrorf("help accepts at most one command, got %d", len(args))
			case len(args) == 1:
				target, rest, err := cmd.Root().Find(args)
				if err != nil || len(rest) > 0 || target == cmd.Root() || target == cmd {
					return usageErrorf("unknown help topic %q", args[0])
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), helpText)

			return nil
		},
	}
}

// configure resolves flags and environment into a Config and installs the
// logger on the command context.
func (a *app) configure(cmd *cobra.Command, _ []string) error {
	level, format := a.logLevel, a.logFormat
	if !cmd.Flags().Changed("log-level") {
		level = a.getenv(EnvLogLevel)
	}
	if !cmd.Flags().Changed("log-format") {
		format = a.getenv(EnvLogFormat)
	}

	cfg, err := NewConfig(Config{LogLevel: level, LogFormat: format, TempDir: a.tempDir})
	if err != nil {
		return &UsageError{Msg: err.Error()}
	}
	a.cfg = cfg

	logger := cfg.NewLogger(a.streams.Err)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	logger.Debug("Configuration resolved.", "command", cmd.Name(), "log_level", cfg.LogLevel, "log_format", cfg.LogFormat)

	return nil
}

// singleCmd builds dims/transpose/mean: one optional MATRIX, stdin otherwise.
func (a *app) singleCmd(use, short string, op func(*matrix.Dense) (result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := cmd.Name()

			var (
				in  *input
				err error
			)
			if len(args) == 1 {
				var ins []*input
				if ins, err = resolveFiles(ctx, args); err == nil {
					in = ins[0]
				}
			} else {
				in, err = resolveStdin(ctx, a.streams.In, a.cfg.TempDir)
			}
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}
			defer closeInput(ctx, in)

			m, err := in.load(ctx)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}
			res, err := op(m)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}

			return a.emit(cmd, res)
		},
	}
}

// pairCmd builds add/multiply: exactly two MATRIX files, no stdin form.
func (a *app) pairCmd(use, short string, op func(l, r *matrix.Dense) (result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := cmd.Name()

			ins, err := resolveFiles(ctx, args)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}
			left, err := ins[0].load(ctx)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}
			right, err := ins[1].load(ctx)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}
			res, err := op(left, right)
			if err != nil {
				return &opError{Cmd: name, Err: err}
			}

			return a.emit(cmd, res)
		},
	}
}

// emit writes a finished result unless the invocation was interrupted.
func (a *app) emit(cmd *cobra.Command, res result) error {
	if err := cmd.Context().Err(); err != nil {
		return &opError{Cmd: cmd.Name(), Err: err}
	}
	if err := res(cmd.OutOrStdout()); err != nil {
		return &opError{Cmd: cmd.Name(), Err: err}
	}

	return nil
}

func closeInput(ctx context.Context, in *input) {
	if err := in.Close(); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to release temporary input.", "input", in.name, slog.Any("error", err))
	}
}

// ---------- operations ----------

func dims(m *matrix.Dense) (result, error) {
	rows, cols, err := matrix.Dims(m)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error { return matrix.WriteDims(w, rows, cols) }, nil
}

func transpose(m *matrix.Dense) (result, error) {
	mt, err := matrix.Transpose(m)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error { return matrix.WriteTSV(w, mt) }, nil
}

func mean(m *matrix.Dense) (result, error) {
	means, err := matrix.ColumnMeans(m)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error { return matrix.WriteRow(w, means) }, nil
}

func add(l, r *matrix.Dense) (result, error) {
	sum, err := matrix.Add(l, r)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error { return matrix.WriteTSV(w, sum) }, nil
}

func multiply(l, r *matrix.Dense) (result, error) {
	prod, err := matrix.Mul(l, r)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error { return matrix.WriteTSV(w, prod) }, nil
}
