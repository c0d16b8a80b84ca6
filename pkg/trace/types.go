package trace

import (
	"fmt"
)

const (
	// listingHeader is the first field of the open-file listing header.
	listingHeader = "COMMAND"
	// traceHeader is the first field of the tracer attach banner.
	traceHeader = "Process"
	// tracerPrefix precedes the attach banner on recent tracer versions.
	tracerPrefix = "strace:"

	resumedMarker    = "<..."
	unfinishedMarker = "...>"
	cloneFilesFlag   = "CLONE_FILES"

	typeRegular   = "REG"
	typeDirectory = "DIR"
	fdCwd         = "cwd"

	// Listing columns: COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME.
	listingPidCol  = 1
	listingFdCol   = 3
	listingTypeCol = 4
	listingNameCol = 8

	maxRecordLen = 1024 * 1024
)

type mode int

const (
	modeNone mode = iota
	modeListing
	modeTrace
)

// Event is one resolved I/O call.
type Event struct {
	Pid      int     `json:"pid"`
	Func     string  `json:"func"`
	Fd       int     `json:"fd"`
	Size     int64   `json:"size"`
	Duration float64 `json:"duration"`
	Filename string  `json:"filename"`
}

// String formats the event as a whitespace-separated record:
// pid function fd size duration filename.
func (e Event) String() string {
	return fmt.Sprintf("%d %s %d %d %.6f %s", e.Pid, e.Func, e.Fd, e.Size, e.Duration, e.Filename)
}

// EmitFunc receives events in input order. Returning an error stops the pass.
type EmitFunc func(Event) error

// Stats summarizes one normalizer pass.
type Stats struct {
	Records        uint64 `json:"records"`
	ListingEntries uint64 `json:"listing_entries"`
	TraceRecords   uint64 `json:"trace_records"`
	Events         uint64 `json:"events"`
	Unresolved     uint64 `json:"unresolved"`
	Orphans        uint64 `json:"orphans"`
}
