package common_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxgio92/ioprofile/pkg/cmd/common"
)

func TestOpenInput_Stdin(t *testing.T) {
	for _, args := range [][]string{nil, {"-"}} {
		in, err := common.OpenInput(args, strings.NewReader("abc"))
		require.NoError(t, err)
		require.Equal(t, "stdin", in.Name)
		require.Equal(t, -1, in.Progress())

		b, err := io.ReadAll(in)
		require.NoError(t, err)
		require.Equal(t, "abc", string(b))
		require.NoError(t, in.Close())
	}
}

func TestOpenInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	in, err := common.OpenInput([]string{path}, nil)
	require.NoError(t, err)
	defer in.Close()
	require.Equal(t, 0, in.Progress())

	buf := make([]byte, 5)
	_, err = io.ReadFull(in, buf)
	require.NoError(t, err)
	require.Equal(t, 50, in.Progress())

	_, err = io.ReadAll(in)
	require.NoError(t, err)
	require.Equal(t, 100, in.Progress())
}

func TestOpenInput_Missing(t *testing.T) {
	_, err := common.OpenInput([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "failed to open capture")
}
