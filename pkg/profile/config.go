package profile

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Aggregate is the function applied to the cell values of a group.
type Aggregate string

const (
	AggregateSum Aggregate = "sum"
	AggregateAvg Aggregate = "avg"
)

// Cell is the raw quantity a report cell shows.
type Cell string

const (
	CellCount Cell = "count"
	CellSizes Cell = "sizes"
	CellTimes Cell = "times"
)

// GroupBy is the dimension report rows are bucketed by.
type GroupBy string

const (
	GroupByAll      GroupBy = "all"
	GroupByFilename GroupBy = "filename"
	GroupByPid      GroupBy = "pid"
)

// Format is the report output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	Aggregates = []Aggregate{AggregateSum, AggregateAvg}
	Cells      = []Cell{CellCount, CellSizes, CellTimes}
	GroupBys   = []GroupBy{GroupByAll, GroupByFilename, GroupByPid}
	Formats    = []Format{FormatText, FormatJSON}
)

type Config struct {
	Aggregate Aggregate `json:"aggregate" yaml:"aggregate"`
	Cell      Cell      `json:"cell" yaml:"cell"`
	GroupBy   GroupBy   `json:"group_by" yaml:"group_by"`
}

func DefaultConfig() Config {
	return Config{
		Aggregate: AggregateSum,
		Cell:      CellTimes,
		GroupBy:   GroupByFilename,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if !oneOf(c.Aggregate, Aggregates) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidAggregate, "%q (want one of %s)", c.Aggregate, join(Aggregates)))
	}
	if !oneOf(c.Cell, Cells) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidCell, "%q (want one of %s)", c.Cell, join(Cells)))
	}
	if !oneOf(c.GroupBy, GroupBys) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidGroupBy, "%q (want one of %s)", c.GroupBy, join(GroupBys)))
	}

	return err
}

func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !oneOf(f, Formats) {
		return "", errors.Wrapf(ErrInvalidFormat, "%q (want one of %s)", s, join(Formats))
	}

	return f, nil
}

func oneOf[T comparable](v T, valid []T) bool {
	for _, x := range valid {
		if v == x {
			return true
		}
	}

	return false
}

func join[T ~string](values []T) string {
	s := make([]string, 0, len(values))
	for _, v := range values {
		s = append(s, string(v))
	}

	return strings.Join(s, ", ")
}
