package common

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/maxgio92/ioprofile/internal/settings"
)

// Input is a capture being read, either a file or standard input.
type Input struct {
	r      io.Reader
	closer io.Closer
	size   int64
	read   atomic.Int64
	Name   string
}

// OpenInput opens the capture named by the first argument. No argument or
// "-" selects stdin.
func OpenInput(args []string, stdin io.Reader) (*Input, error) {
	if len(args) == 0 || args[0] == settings.StdinPath {
		return &Input{r: stdin, size: -1, Name: "stdin"}, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open capture %s", args[0])
	}
	size := int64(-1)
	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}

	return &Input{r: f, closer: f, size: size, Name: args[0]}, nil
}

func (i *Input) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	i.read.Add(int64(n))
	return n, err
}

// Progress returns the percentage of the input read so far, or -1 when
// the size is unknown.
func (i *Input) Progress() int {
	if i.size <= 0 {
		return -1
	}

	return int(i.read.Load() * 100 / i.size)
}

func (i *Input) Close() error {
	if i.closer == nil {
		return nil
	}

	return i.closer.Close()
}
