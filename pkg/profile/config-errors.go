package profile

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidAggregate = errors.New("invalid aggregate function")
	ErrInvalidCell      = errors.New("invalid cell metric")
	ErrInvalidGroupBy   = errors.New("invalid group-by dimension")
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrReaderNil        = errors.New("capture reader is nil")
)
