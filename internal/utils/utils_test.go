package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxgio92/ioprofile/internal/utils"
)

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12u", 12, true},
		{"3rW", 3, true},
		{"5, \"\"..., 16384) = 16384 <0.000021>", 5, true},
		{"42", 42, true},
		{"cwd", 0, false},
		{"AT_FDCWD, \"/tmp\"", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := utils.LeadingInt(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseNonNegative(t *testing.T) {
	n, ok := utils.ParseNonNegative("7")
	require.True(t, ok)
	require.Equal(t, 7, n)

	_, ok = utils.ParseNonNegative("-1")
	require.False(t, ok, "failed calls return -1")

	_, ok = utils.ParseNonNegative("<unfinished")
	require.False(t, ok)
}

func TestParsePid(t *testing.T) {
	pid, ok := utils.ParsePid("1234]")
	require.True(t, ok)
	require.Equal(t, 1234, pid)

	pid, ok = utils.ParsePid("99:")
	require.True(t, ok)
	require.Equal(t, 99, pid)

	_, ok = utils.ParsePid("pid]")
	require.False(t, ok)
}

func TestQuotedArg(t *testing.T) {
	arg, ok := utils.QuotedArg(`(AT_FDCWD, "/var/lib/mysql/ibdata1", O_RDWR) = 3 <0.000020>`)
	require.True(t, ok)
	require.Equal(t, "/var/lib/mysql/ibdata1", arg)

	arg, ok = utils.QuotedArg(`("a\"b", O_RDONLY)`)
	require.True(t, ok)
	require.Equal(t, `a\"b`, arg)

	_, ok = utils.QuotedArg(`(5, 0, SEEK_SET)`)
	require.False(t, ok)

	_, ok = utils.QuotedArg(`("unterminated`)
	require.False(t, ok)
}

func TestTrimTiming(t *testing.T) {
	require.Equal(t, "0.000021", utils.TrimTiming("<0.000021>"))
	require.Equal(t, "16384", utils.TrimTiming("16384"))
}
