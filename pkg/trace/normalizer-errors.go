package trace

import (
	"github.com/pkg/errors"
)

var (
	ErrReaderNil = errors.New("trace reader is nil")
	ErrEmitNil   = errors.New("event emitter is nil")
)
