package output

import (
	"context"
	"fmt"
	"time"
)

func StatusBar(ctx context.Context, refreshRate time.Duration, printF func()) {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			printF()
		case <-ctx.Done():
			return
		}
	}
}

// PrettyParseStatus renders the progress of a trace pass. A negative percent
// means the input size is unknown.
func PrettyParseStatus(percent int, records, events uint64) string {
	progress := "Input: streaming"
	if percent >= 0 {
		progress = fmt.Sprintf("Input: [%s] %3d%%", ProgressBar(percent, 40), percent)
	}

	return fmt.Sprintf("\r%-50s %-20s %-20s",
		progress,
		fmt.Sprintf("Records: %d", records),
		fmt.Sprintf("Events: %d", events),
	)
}
