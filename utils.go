package shunit

import (
	"fmt"
	"time"

	"github.com/ethereum-optimism/infra/shunit/types"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func getResultString(status types.TestStatus) string {
	switch status {
	case types.TestStatusPass:
		return "✓ pass"
	case types.TestStatusError:
		return "! error"
	default:
		return "✗ fail"
	}
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
