package trace

type pendingKey struct {
	pid  int
	name string
}

// pendingCall is what is known of a call when its record is unfinished.
type pendingCall struct {
	fd int

	// path is the resolved path argument of an open-family call, whose
	// descriptor is only known once the call resumes.
	path string

	// sharesFiles is set for a task creation call carrying CLONE_FILES.
	sharesFiles bool
}

// pendingTable holds unfinished calls by (pid, function).
type pendingTable map[pendingKey]pendingCall

func (p pendingTable) put(pid int, name string, call pendingCall) {
	p[pendingKey{pid, name}] = call
}

// take returns and removes the unfinished call.
func (p pendingTable) take(pid int, name string) (pendingCall, bool) {
	k := pendingKey{pid, name}
	call, ok := p[k]
	if ok {
		delete(p, k)
	}

	return call, ok
}
