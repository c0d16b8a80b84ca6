package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type Row struct {
	Key    string    `json:"key"`
	Values []float64 `json:"values"`
	Total  float64   `json:"total"`
}

type Report struct {
	Config
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type ReportOption func(*Report)

func NewReport(opts ...ReportOption) *Report {
	report := new(Report)
	for _, opt := range opts {
		opt(report)
	}

	return report
}

func WithReportConfig(cfg Config) ReportOption {
	return func(r *Report) {
		r.Config = cfg
	}
}

func WithReportColumns(columns []string) ReportOption {
	return func(r *Report) {
		r.Columns = columns
	}
}

func WithReportRows(rows []Row) ReportOption {
	return func(r *Report) {
		r.Rows = rows
	}
}

// WriteReport writes the report as JSON.
func (r *Report) WriteReport(w io.Writer) error {
	encoder := json.NewEncoder(w)
	return encoder.Encode(r)
}

// Write encodes the report in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.WriteReport(w)
	case FormatText:
		return r.WriteText(w)
	default:
		return ErrInvalidFormat
	}
}

// WriteText writes the report as a whitespace aligned table.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if r.GroupBy == GroupByAll {
		r.writeFunctions(bw)
	} else {
		r.writeTable(bw)
	}

	return bw.Flush()
}

type pair struct {
	value float64
	name  string
}

// writeFunctions prints "value function" lines sorted by value, then the total.
func (r *Report) writeFunctions(w io.Writer) {
	if len(r.Rows) == 0 {
		return
	}
	row := r.Rows[0]
	pairs := make([]pair, len(r.Columns))
	for i, fn := range r.Columns {
		pairs[i] = pair{value: row.Values[i], name: fn}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value > pairs[j].value
	})
	for _, p := range pairs {
		fmt.Fprintf(w, "%s %s\n", r.formatValue(p.value), p.name)
	}
	fmt.Fprintf(w, "%s %s\n", r.formatValue(row.Total), row.Key)
}

func (r *Report) writeTable(w io.Writer) {
	fmt.Fprintf(w, "%10s", "total")
	for _, fn := range r.Columns {
		fmt.Fprintf(w, " %10s", fn)
	}
	fmt.Fprintf(w, " %s\n", r.GroupBy)

	for _, row := range r.Rows {
		fmt.Fprint(w, r.formatValue(row.Total))
		for _, v := range row.Values {
			fmt.Fprintf(w, " %s", r.formatValue(v))
		}
		fmt.Fprintf(w, " %s\n", row.Key)
	}
}

func (r *Report) formatValue(v float64) string {
	if r.Cell == CellTimes {
		return fmt.Sprintf("%10.6f", v)
	}

	return fmt.Sprintf("%10d", int64(v))
}
