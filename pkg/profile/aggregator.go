package profile

import (
	"sort"
	"strconv"

	"github.com/maxgio92/ioprofile/pkg/syscalls"
	"github.com/maxgio92/ioprofile/pkg/trace"
)

// TotalKey labels the single row of a report grouped by all.
const TotalKey = "TOTAL"

type cell struct {
	count    uint64
	size     int64
	duration float64
}

func (c *cell) add(o cell) {
	c.count += o.count
	c.size += o.size
	c.duration += o.duration
}

type group struct {
	key   string
	cells map[string]*cell
}

// Aggregator folds events into per-group, per-function cells.
type Aggregator struct {
	cfg Config

	groups     map[string]*group
	groupOrder []*group

	funcs     map[string]struct{}
	funcOrder []string
}

func NewAggregator(cfg Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Aggregator{
		cfg:    cfg,
		groups: make(map[string]*group),
		funcs:  make(map[string]struct{}),
	}, nil
}

// Add folds one event. Events of non-whitelisted functions are skipped.
func (a *Aggregator) Add(e trace.Event) {
	if !syscalls.IsIO(e.Func) {
		return
	}

	g := a.ensureGroup(a.groupKey(e))
	c, ok := g.cells[e.Func]
	if !ok {
		c = new(cell)
		g.cells[e.Func] = c
	}
	c.add(cell{count: 1, size: e.Size, duration: e.Duration})

	if _, ok := a.funcs[e.Func]; !ok {
		a.funcs[e.Func] = struct{}{}
		a.funcOrder = append(a.funcOrder, e.Func)
	}
}

func (a *Aggregator) groupKey(e trace.Event) string {
	switch a.cfg.GroupBy {
	case GroupByFilename:
		return e.Filename
	case GroupByPid:
		return strconv.Itoa(e.Pid)
	default:
		return TotalKey
	}
}

func (a *Aggregator) ensureGroup(key string) *group {
	g, ok := a.groups[key]
	if !ok {
		g = &group{key: key, cells: make(map[string]*cell)}
		a.groups[key] = g
		a.groupOrder = append(a.groupOrder, g)
	}

	return g
}

// Columns returns the observed functions ordered by class, then by first
// appearance.
func (a *Aggregator) Columns() []string {
	cols := make([]string, len(a.funcOrder))
	copy(cols, a.funcOrder)
	sort.SliceStable(cols, func(i, j int) bool {
		ci, _ := syscalls.Classify(cols[i])
		cj, _ := syscalls.Classify(cols[j])
		return ci < cj
	})

	return cols
}

func (a *Aggregator) metric(c cell) float64 {
	var v float64
	switch a.cfg.Cell {
	case CellCount:
		v = float64(c.count)
	case CellSizes:
		v = float64(c.size)
	case CellTimes:
		v = c.duration
	}
	if a.cfg.Aggregate == AggregateAvg {
		if c.count == 0 {
			return 0
		}
		v /= float64(c.count)
	}

	return v
}

// Report computes the metric for every cell and the row totals, and sorts
// rows by total, descending. Ties keep the order groups were first seen in.
func (a *Aggregator) Report() *Report {
	cols := a.Columns()
	rows := make([]Row, 0, len(a.groupOrder))
	for _, g := range a.groupOrder {
		row := Row{Key: g.key, Values: make([]float64, len(cols))}
		var total cell
		for i, fn := range cols {
			c, ok := g.cells[fn]
			if !ok {
				continue
			}
			row.Values[i] = a.metric(*c)
			total.add(*c)
		}
		row.Total = a.metric(total)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	return NewReport(
		WithReportConfig(a.cfg),
		WithReportColumns(cols),
		WithReportRows(rows),
	)
}
