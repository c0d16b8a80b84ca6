package trace

import (
	"bufio"
	"context"
	"io"
	"path"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"

	"github.com/maxgio92/ioprofile/internal/utils"
	"github.com/maxgio92/ioprofile/pkg/syscalls"
)

// Normalizer turns an open-file listing followed by a system call trace
// into I/O events. Descriptor and pending-call state belong to one Run.
type Normalizer struct {
	mode        mode
	descriptors *descriptorTable
	pending     pendingTable

	records atomic.Uint64
	events  atomic.Uint64
	stats   Stats

	*NormalizerOptions
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		NormalizerOptions: &NormalizerOptions{
			logger: log.Nop(),
		},
	}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *Normalizer) reset() {
	n.mode = modeNone
	n.descriptors = newDescriptorTable(n.sharedDescriptors)
	n.pending = make(pendingTable)
	n.records.Store(0)
	n.events.Store(0)
	n.stats = Stats{}
}

// Run reads the whole capture from r and calls emit for every resolved
// event, in input order. Each call starts from empty tables.
func (n *Normalizer) Run(ctx context.Context, r io.Reader, emit EmitFunc) error {
	if r == nil {
		return ErrReaderNil
	}
	if emit == nil {
		return ErrEmitNil
	}
	n.reset()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLen)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.records.Add(1)

		evt, ok := n.handleRecord(scanner.Text())
		if !ok {
			continue
		}
		n.events.Add(1)
		if err := emit(evt); err != nil {
			return errors.Wrap(err, "failed to emit event")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read trace")
	}

	n.stats.Records = n.records.Load()
	n.stats.Events = n.events.Load()
	n.logger.Debug().
		Uint64("records", n.stats.Records).
		Uint64("events", n.stats.Events).
		Uint64("unresolved", n.stats.Unresolved).
		Uint64("orphans", n.stats.Orphans).
		Int("pending", len(n.pending)).
		Msg("trace normalized")

	return nil
}

// Collect runs the normalizer and returns all the events.
func (n *Normalizer) Collect(ctx context.Context, r io.Reader) ([]Event, error) {
	var events []Event
	err := n.Run(ctx, r, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Progress returns the records read and the events emitted so far by the
// current pass. It is safe to call concurrently with Run.
func (n *Normalizer) Progress() (records, events uint64) {
	return n.records.Load(), n.events.Load()
}

// Stats returns the counters of the last completed pass.
func (n *Normalizer) Stats() Stats {
	return n.stats
}

func (n *Normalizer) handleRecord(line string) (Event, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, false
	}

	switch {
	case isTraceHeader(fields):
		n.mode = modeTrace
		return Event{}, false
	case fields[0] == listingHeader && n.mode == modeNone:
		n.mode = modeListing
		return Event{}, false
	}

	switch n.mode {
	case modeListing:
		n.handleListing(fields)
	case modeTrace:
		return n.handleCall(line, fields)
	}

	return Event{}, false
}

func isTraceHeader(fields []string) bool {
	if fields[0] == traceHeader {
		return true
	}

	return fields[0] == tracerPrefix && len(fields) > 1 && fields[1] == traceHeader
}

func (n *Normalizer) handleListing(fields []string) {
	if len(fields) <= listingNameCol {
		return
	}
	pid, err := strconv.Atoi(fields[listingPidCol])
	if err != nil {
		return
	}
	fd := fields[listingFdCol]
	name := strings.Join(fields[listingNameCol:], " ")

	switch fields[listingTypeCol] {
	case typeRegular:
		num, ok := utils.LeadingInt(fd)
		if !ok {
			// txt, mem and other non-descriptor mappings.
			return
		}
		n.descriptors.setListing(pid, num, name)
		n.stats.ListingEntries++
	case typeDirectory:
		if fd == fdCwd {
			n.descriptors.setListingCwd(pid, name)
			n.stats.ListingEntries++
		}
	}
}

func (n *Normalizer) handleCall(line string, fields []string) (Event, bool) {
	if !strings.HasPrefix(fields[0], "[") || len(fields) < 3 {
		return Event{}, false
	}
	pid, ok := utils.ParsePid(fields[1])
	if !ok {
		return Event{}, false
	}
	n.stats.TraceRecords++

	if fields[2] == resumedMarker {
		return n.handleResumed(pid, line, fields)
	}

	// The call text starts right after the task tag.
	offset := strings.Index(line, fields[1]) + len(fields[1])
	call := strings.TrimLeft(line[offset:], " \t")

	return n.handleInvocation(pid, call, fields)
}

func (n *Normalizer) handleInvocation(pid int, call string, fields []string) (Event, bool) {
	paren := strings.IndexByte(call, '(')
	if paren <= 0 {
		return Event{}, false
	}
	name := call[:paren]
	args := call[paren+1:]
	unfinished := fields[len(fields)-1] == unfinishedMarker

	if syscalls.IsSpawn(name) {
		sharesFiles := strings.Contains(args, cloneFilesFlag)
		if unfinished {
			n.pending.put(pid, name, pendingCall{fd: -1, sharesFiles: sharesFiles})
			return Event{}, false
		}
		n.spawn(pid, sharesFiles, fields)
		return Event{}, false
	}

	class, ok := syscalls.Classify(name)
	if !ok {
		return Event{}, false
	}

	if class == syscalls.ClassOpen {
		p, ok := utils.QuotedArg(args)
		if !ok {
			return Event{}, false
		}
		p = n.openPath(pid, name, args, p)
		if unfinished {
			n.pending.put(pid, name, pendingCall{fd: -1, path: p})
			return Event{}, false
		}
		fd, ok := utils.ParseNonNegative(fields[len(fields)-2])
		if !ok {
			// Failed open.
			return Event{}, false
		}
		n.descriptors.set(pid, fd, p)

		return n.event(pid, name, class, fd, fields)
	}

	fd, ok := utils.LeadingInt(args)
	if !ok {
		return Event{}, false
	}
	if unfinished {
		n.pending.put(pid, name, pendingCall{fd: fd})
		return Event{}, false
	}

	return n.event(pid, name, class, fd, fields)
}

func (n *Normalizer) handleResumed(pid int, line string, fields []string) (Event, bool) {
	if len(fields) < 4 {
		return Event{}, false
	}
	name := fields[3]
	if !syscalls.IsIO(name) && !syscalls.IsSpawn(name) {
		return Event{}, false
	}

	call, ok := n.pending.take(pid, name)
	if !ok {
		n.stats.Orphans++
		n.logger.Debug().Int("pid", pid).Str("func", name).Msg("ignoring continuation without a pending call")
		return Event{}, false
	}

	if syscalls.IsSpawn(name) {
		n.spawn(pid, call.sharesFiles || strings.Contains(line, cloneFilesFlag), fields)
		return Event{}, false
	}

	class, _ := syscalls.Classify(name)
	fd := call.fd
	if class == syscalls.ClassOpen {
		if fd, ok = utils.ParseNonNegative(fields[len(fields)-2]); !ok {
			return Event{}, false
		}
		n.descriptors.set(pid, fd, call.path)
	}

	return n.event(pid, name, class, fd, fields)
}

// openPath resolves the path argument of an open-family call: "./" against
// the working directory, and relative openat paths against their directory
// descriptor.
func (n *Normalizer) openPath(pid int, name, args, p string) string {
	if strings.HasPrefix(p, "./") {
		return n.descriptors.resolvePath(pid, p)
	}
	if strings.HasPrefix(name, "openat") && !path.IsAbs(p) {
		if dirfd, ok := utils.LeadingInt(args); ok {
			if dir, ok := n.descriptors.lookup(pid, dirfd); ok {
				return path.Join(dir, p)
			}
		}
	}

	return p
}

// spawn records the descriptor scope of a newly created task, whose id is
// the return value of the call.
func (n *Normalizer) spawn(parent int, sharesFiles bool, fields []string) {
	child, ok := utils.ParseNonNegative(fields[len(fields)-2])
	if !ok || child == 0 {
		return
	}
	if sharesFiles {
		n.descriptors.share(parent, child)
		return
	}
	n.descriptors.fork(parent, child)
}

func (n *Normalizer) event(pid int, name string, class syscalls.Class, fd int, fields []string) (Event, bool) {
	filename, ok := n.descriptors.lookup(pid, fd)
	if !ok {
		n.stats.Unresolved++
		return Event{}, false
	}

	evt := Event{
		Pid:      pid,
		Func:     name,
		Fd:       fd,
		Duration: n.duration(fields[len(fields)-1]),
		Filename: filename,
	}
	if class.Transfers() {
		evt.Size = n.size(fields[len(fields)-2])
	}

	return evt, true
}

func (n *Normalizer) size(field string) int64 {
	size, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		n.logger.Debug().Str("field", field).Msg("ignoring malformed size")
		return 0
	}
	if size < 0 {
		return 0
	}

	return size
}

func (n *Normalizer) duration(field string) float64 {
	d, err := strconv.ParseFloat(utils.TrimTiming(field), 64)
	if err != nil {
		n.logger.Debug().Str("field", field).Msg("ignoring malformed duration")
		return 0
	}

	return d
}
