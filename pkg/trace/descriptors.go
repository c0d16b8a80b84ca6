package trace

import (
	"path"
	"strings"
)

// sharedScope is the only scope used when descriptors are not isolated per pid.
const sharedScope = 0

// descriptorTable maps (scope, fd) to filenames. A scope is the pid owning
// a descriptor table: tasks created with CLONE_FILES resolve in their
// parent's scope.
type descriptorTable struct {
	shared bool

	owners map[int]int
	files  map[int]map[int]string
	cwds   map[int]string

	listing *listingIndex
}

// listingIndex keeps the listing entries that are valid for any pid not
// listed itself, that is those no two listed processes disagree on.
type listingIndex struct {
	pids      map[int]struct{}
	files     map[int]string
	ambiguous map[int]struct{}

	cwd          string
	cwdAmbiguous bool
}

func newDescriptorTable(shared bool) *descriptorTable {
	return &descriptorTable{
		shared: shared,
		owners: make(map[int]int),
		files:  make(map[int]map[int]string),
		cwds:   make(map[int]string),
		listing: &listingIndex{
			pids:      make(map[int]struct{}),
			files:     make(map[int]string),
			ambiguous: make(map[int]struct{}),
		},
	}
}

func (t *descriptorTable) scope(pid int) int {
	if t.shared {
		return sharedScope
	}
	if owner, ok := t.owners[pid]; ok {
		return owner
	}

	return pid
}

func (t *descriptorTable) scopeFiles(scope int) map[int]string {
	m, ok := t.files[scope]
	if !ok {
		m = make(map[int]string)
		t.files[scope] = m
	}

	return m
}

// set binds fd to name in the pid's scope, replacing any previous binding.
func (t *descriptorTable) set(pid, fd int, name string) {
	t.scopeFiles(t.scope(pid))[fd] = name
}

// listed reports whether the listing had rows for the pid's scope. Such a
// pid's own rows are complete and it never borrows another process's.
func (t *descriptorTable) listed(pid int) bool {
	_, ok := t.listing.pids[t.scope(pid)]
	return ok
}

func (t *descriptorTable) setListing(pid, fd int, name string) {
	t.set(pid, fd, name)
	t.listing.pids[t.scope(pid)] = struct{}{}

	if _, ok := t.listing.ambiguous[fd]; ok {
		return
	}
	if prev, ok := t.listing.files[fd]; ok && prev != name {
		delete(t.listing.files, fd)
		t.listing.ambiguous[fd] = struct{}{}
		return
	}
	t.listing.files[fd] = name
}

func (t *descriptorTable) setListingCwd(pid int, dir string) {
	t.cwds[t.scope(pid)] = dir
	t.listing.pids[t.scope(pid)] = struct{}{}

	switch {
	case t.listing.cwdAmbiguous:
	case t.listing.cwd == "":
		t.listing.cwd = dir
	case t.listing.cwd != dir:
		t.listing.cwd = ""
		t.listing.cwdAmbiguous = true
	}
}

// lookup resolves fd for pid. A pid absent from the listing and without its
// own binding falls back to an unambiguous listing entry.
func (t *descriptorTable) lookup(pid, fd int) (string, bool) {
	if name, ok := t.files[t.scope(pid)][fd]; ok && name != "" {
		return name, true
	}
	if t.shared || t.listed(pid) {
		return "", false
	}
	name, ok := t.listing.files[fd]

	return name, ok && name != ""
}

func (t *descriptorTable) cwd(pid int) string {
	if dir, ok := t.cwds[t.scope(pid)]; ok {
		return dir
	}
	if t.shared || t.listed(pid) {
		return ""
	}

	return t.listing.cwd
}

// resolvePath makes a "./" relative path absolute against the pid's working
// directory, when one is known.
func (t *descriptorTable) resolvePath(pid int, p string) string {
	if !strings.HasPrefix(p, "./") {
		return p
	}
	dir := t.cwd(pid)
	if dir == "" {
		return p
	}

	return path.Join(dir, p[2:])
}

// share makes child resolve in parent's scope.
func (t *descriptorTable) share(parent, child int) {
	if t.shared || parent == child {
		return
	}
	t.owners[child] = t.scope(parent)
}

// fork gives child its own scope starting as a copy of parent's.
func (t *descriptorTable) fork(parent, child int) {
	if t.shared || parent == child {
		return
	}
	from := t.scope(parent)
	delete(t.owners, child)

	files := make(map[int]string, len(t.files[from]))
	for fd, name := range t.files[from] {
		files[fd] = name
	}
	t.files[child] = files

	if dir, ok := t.cwds[from]; ok {
		t.cwds[child] = dir
	}
}
