// SPDX-License-Identifier: MIT

package spool

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary files left behind")
}

func TestFromReader_RereadableUntilClose(t *testing.T) {
	dir := t.TempDir()
	const body = "1\t2\n3\t4\n"

	s, err := FromReader(context.Background(), dir, strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, int64(len(body)), s.Size())
	require.Equal(t, body, string(s.Bytes()))

	for i := 0; i < 2; i++ {
		got, err := io.ReadAll(s.Reader())
		require.NoError(t, err)
		require.Equal(t, body, string(got))
	}

	_, err = os.Stat(s.Name())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent
	requireEmptyDir(t, dir)
}

func TestFromReader_Empty(t *testing.T) {
	dir := t.TempDir()

	s, err := FromReader(context.Background(), dir, strings.NewReader(""))
	require.NoError(t, err)
	require.Zero(t, s.Size())
	require.Empty(t, s.Bytes())

	got, err := io.ReadAll(s.Reader())
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, s.Close())
	requireEmptyDir(t, dir)
}

type brokenReader struct{ sent bool }

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "1\t2\n"), nil
	}
	return 0, errors.New("broken pipe")
}

func TestFromReader_DrainErrorRemovesFile(t *testing.T) {
	dir := t.TempDir()

	s, err := FromReader(context.Background(), dir, &brokenReader{})
	require.Nil(t, s)
	require.ErrorContains(t, err, "broken pipe")
	requireEmptyDir(t, dir)
}

func TestFromReader_CancelWhileBlocked(t *testing.T) {
	dir := t.TempDir()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _ = pw.Write([]byte("1\t2\n")) // partial input, then the writer stalls
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	s, err := FromReader(ctx, dir, pr)
	require.Nil(t, s)
	require.ErrorIs(t, err, context.Canceled)
	requireEmptyDir(t, dir)
}

func TestFromReader_CancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NotPanics(t, func() {
		s, err := FromReader(ctx, dir, pr)
		require.Nil(t, s)
		require.ErrorIs(t, err, context.Canceled)
	})
	requireEmptyDir(t, dir)
}

func TestFromReader_BadDir(t *testing.T) {
	_, err := FromReader(context.Background(), "/nonexistent/dir/for/spool", strings.NewReader("x"))
	require.Error(t, err)
}
