package syscalls

import (
	"regexp"
)

// Class is the I/O operation family a system call belongs to.
// Classes are ordered: a lower value is a column placed earlier in reports.
type Class int

const (
	ClassRead Class = iota
	ClassWrite
	ClassSync
	ClassOpen
	ClassClose
	ClassGetdents
	ClassSeek
	ClassFcntl
	ClassFtrunc
)

var classNames = [...]string{
	ClassRead:     "read",
	ClassWrite:    "write",
	ClassSync:     "sync",
	ClassOpen:     "open",
	ClassClose:    "close",
	ClassGetdents: "getdents",
	ClassSeek:     "seek",
	ClassFcntl:    "fcntl",
	ClassFtrunc:   "ftrunc",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// Transfers reports whether the return value of calls in the class is a
// byte count.
func (c Class) Transfers() bool {
	return c == ClassRead || c == ClassWrite || c == ClassGetdents
}

// Rule binds a function name pattern to a class.
type Rule struct {
	Pattern *regexp.Regexp
	Class   Class
}

// Rules is the canonical whitelist. It is evaluated first-match-wins, so
// a function matching more than one pattern belongs to the earliest rule.
var Rules = []Rule{
	{regexp.MustCompile(`^(read|readv|pread|pread64|preadv|preadv2|readahead)$`), ClassRead},
	{regexp.MustCompile(`^(write|writev|pwrite|pwrite64|pwritev|pwritev2)$`), ClassWrite},
	{regexp.MustCompile(`^(sync|fsync|fdatasync|syncfs|sync_file_range2?)$`), ClassSync},
	{regexp.MustCompile(`^(open|openat|openat2|creat)$`), ClassOpen},
	{regexp.MustCompile(`^close$`), ClassClose},
	{regexp.MustCompile(`^getdents(64)?$`), ClassGetdents},
	{regexp.MustCompile(`^(lseek|llseek|_llseek)$`), ClassSeek},
	{regexp.MustCompile(`^fcntl(64)?$`), ClassFcntl},
	{regexp.MustCompile(`^ftruncate(64)?$`), ClassFtrunc},
}

var spawnPattern = regexp.MustCompile(`^(clone|clone3|fork|vfork)$`)

// Classify returns the class of the function name and whether it is
// whitelisted at all.
func Classify(name string) (Class, bool) {
	for _, r := range Rules {
		if r.Pattern.MatchString(name) {
			return r.Class, true
		}
	}

	return 0, false
}

// IsIO reports whether the function is in the whitelist.
func IsIO(name string) bool {
	_, ok := Classify(name)
	return ok
}

// IsOpen reports whether the function is an open-family call, that is one
// that returns a new descriptor bound to a path argument.
func IsOpen(name string) bool {
	c, ok := Classify(name)
	return ok && c == ClassOpen
}

// IsSpawn reports whether the function creates a new task.
func IsSpawn(name string) bool {
	return spawnPattern.MatchString(name)
}
