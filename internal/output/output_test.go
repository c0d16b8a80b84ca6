package output

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		filled  int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-3, 0},
	}

	for _, tt := range tests {
		bar := ProgressBar(tt.percent, 10)
		require.Equal(t, 10, utf8.RuneCountInString(bar))
		require.Equal(t, tt.filled, strings.Count(bar, "█"), "percent %d", tt.percent)
	}
}

func TestPrettyParseStatus(t *testing.T) {
	s := PrettyParseStatus(25, 1200, 300)
	require.Contains(t, s, " 25%")
	require.Contains(t, s, "Records: 1200")
	require.Contains(t, s, "Events: 300")

	s = PrettyParseStatus(-1, 5, 0)
	require.Contains(t, s, "streaming")
	require.NotContains(t, s, "%")
}

func TestStatusBar(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		StatusBar(ctx, time.Millisecond, func() {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("status bar did not stop")
	}
	require.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestSpaces(t *testing.T) {
	require.Equal(t, "   ", spaces(3))
	require.Equal(t, "", spaces(0))
}
