package downloads

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Describe renders a one-line status for display or notification:
// "running 40%, about 12 seconds left", "completed (3.4 MB)".
func Describe(j Job, now time.Time) string {
	switch j.Status {
	case StatusRunning:
		if remaining, ok := j.Remaining(now); ok {
			eta := strings.TrimSpace(humanize.RelTime(now, now.Add(remaining), "", ""))
			return fmt.Sprintf("running %d%%, about %s left", j.Percent, eta)
		}
		return fmt.Sprintf("running %d%%", j.Percent)
	case StatusCompleted:
		if info, err := os.Stat(j.Path); err == nil {
			return fmt.Sprintf("completed (%s)", humanize.Bytes(uint64(info.Size())))
		}
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		if j.Err != nil {
			return "failed: " + j.Err.Error()
		}
		return "failed"
	default:
		return "pending"
	}
}

// WatchETA re-emits a job's description every interval until the job
// reaches a terminal state. Used to keep a progress notice fresh while
// percent alone moves slowly.
func (m *Manager) WatchETA(id int, interval time.Duration, fn func(string)) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for now := range ticker.C {
			j, ok := m.Job(id)
			if !ok {
				return
			}
			fn(Describe(j, now))
			switch j.Status {
			case StatusCompleted, StatusCancelled, StatusFailed:
				return
			}
		}
	}()
}
