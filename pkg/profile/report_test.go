package profile_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxgio92/ioprofile/pkg/profile"
	"github.com/maxgio92/ioprofile/pkg/trace"
)

func TestWriteText_ByFilename(t *testing.T) {
	a := newAggregator(t, profile.AggregateSum, profile.CellSizes, profile.GroupByFilename)
	a.Add(trace.Event{Pid: 1, Func: "open", Fd: 5, Filename: "/tmp/a"})
	a.Add(trace.Event{Pid: 1, Func: "read", Fd: 5, Size: 100, Duration: 0.002, Filename: "/tmp/a"})
	a.Add(trace.Event{Pid: 1, Func: "write", Fd: 6, Size: 4096, Filename: "/tmp/b"})

	var buf bytes.Buffer
	require.NoError(t, a.Report().WriteText(&buf))

	want := strings.Join([]string{
		"     total       read      write       open filename",
		"      4096          0       4096          0 /tmp/b",
		"       100        100          0          0 /tmp/a",
	}, "\n") + "\n"
	require.Equal(t, want, buf.String())
}

func TestWriteText_Times(t *testing.T) {
	a := newAggregator(t, profile.AggregateSum, profile.CellTimes, profile.GroupByPid)
	a.Add(trace.Event{Pid: 42, Func: "fsync", Duration: 1.5, Filename: "/a"})

	var buf bytes.Buffer
	require.NoError(t, a.Report().WriteText(&buf))

	want := "     total      fsync pid\n" +
		"  1.500000   1.500000 42\n"
	require.Equal(t, want, buf.String())
}

func TestWriteText_All(t *testing.T) {
	a := newAggregator(t, profile.AggregateSum, profile.CellCount, profile.GroupByAll)
	a.Add(trace.Event{Pid: 1, Func: "write", Filename: "/a"})
	a.Add(trace.Event{Pid: 1, Func: "read", Filename: "/a"})
	a.Add(trace.Event{Pid: 2, Func: "write", Filename: "/b"})
	a.Add(trace.Event{Pid: 3, Func: "write", Filename: "/c"})
	a.Add(trace.Event{Pid: 3, Func: "close", Filename: "/c"})

	var buf bytes.Buffer
	require.NoError(t, a.Report().WriteText(&buf))

	want := "         3 write\n" +
		"         1 read\n" +
		"         1 close\n" +
		"         5 TOTAL\n"
	require.Equal(t, want, buf.String())
	require.Equal(t, 1, strings.Count(buf.String(), profile.TotalKey))
}

func TestWriteText_Empty(t *testing.T) {
	a := newAggregator(t, profile.AggregateSum, profile.CellCount, profile.GroupByAll)
	var buf bytes.Buffer
	require.NoError(t, a.Report().WriteText(&buf))
	require.Empty(t, buf.String())

	a = newAggregator(t, profile.AggregateSum, profile.CellCount, profile.GroupByPid)
	buf.Reset()
	require.NoError(t, a.Report().WriteText(&buf))
	require.Equal(t, "     total pid\n", buf.String())
}

func TestWriteReport_JSON(t *testing.T) {
	a := newAggregator(t, profile.AggregateAvg, profile.CellSizes, profile.GroupByPid)
	a.Add(trace.Event{Pid: 7, Func: "read", Size: 10, Filename: "/a"})
	a.Add(trace.Event{Pid: 7, Func: "read", Size: 30, Filename: "/a"})
	report := a.Report()

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, profile.FormatJSON))

	output := buf.String()
	require.Contains(t, output, `"aggregate":"avg"`)
	require.Contains(t, output, `"group_by":"pid"`)

	var parsed profile.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Equal(t, report, &parsed)
	require.Equal(t, float64(20), parsed.Rows[0].Total)
}

func TestWrite_InvalidFormat(t *testing.T) {
	report := profile.NewReport()
	err := report.Write(&bytes.Buffer{}, "xml")
	require.ErrorIs(t, err, profile.ErrInvalidFormat)
}

func TestNewReportWithOptions(t *testing.T) {
	cfg := profile.DefaultConfig()
	cols := []string{"read"}
	rows := []profile.Row{{Key: "/a", Values: []float64{1}, Total: 1}}

	report := profile.NewReport(
		profile.WithReportConfig(cfg),
		profile.WithReportColumns(cols),
		profile.WithReportRows(rows),
	)

	require.Equal(t, cfg, report.Config)
	require.Equal(t, cols, report.Columns)
	require.Equal(t, rows, report.Rows)
}
