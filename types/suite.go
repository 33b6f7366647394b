package types

import (
	"fmt"
	"strings"
	"time"
)

// SuiteStats tracks aggregate counts across a suite's cases
type SuiteStats struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
}

// TestSuite captures the complete results of one run
type TestSuite struct {
	Name       string
	Hostname   string
	RunID      string
	Cases      []TestCase // Input order, regardless of completion order
	Stats      SuiteStats
	Status     TestStatus
	Duration   time.Duration // Wall clock span of the whole run, not the sum of case durations
	Timestamp  time.Time
	Properties map[string]string
}

// NewTestSuite builds a suite from executed cases and derives the aggregate
// stats and overall status. Every case counts toward Total, including those
// that never spawned. An empty suite passes.
func NewTestSuite(name string, cases []TestCase) *TestSuite {
	s := &TestSuite{
		Name:  name,
		Cases: cases,
	}
	for _, tc := range cases {
		s.Stats.Total++
		switch tc.Status {
		case TestStatusFail:
			s.Stats.Failed++
		case TestStatusError:
			s.Stats.Errored++
		default:
			s.Stats.Passed++
		}
	}
	switch {
	case s.Stats.Failed > 0:
		s.Status = TestStatusFail
	case s.Stats.Errored > 0:
		s.Status = TestStatusError
	default:
		s.Status = TestStatusPass
	}
	return s
}

// Passed reports whether every case in the suite passed
func (s *TestSuite) Passed() bool {
	return s.Status == TestStatusPass
}

// String returns a summary of the suite results, listing each case that
// did not pass with its failure message
func (s *TestSuite) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d scripts, %d passed, %d failed, %d errored (%s)",
		s.Stats.Total, s.Stats.Passed, s.Stats.Failed, s.Stats.Errored, formatDuration(s.Duration)))
	for _, tc := range s.Cases {
		if tc.Status == TestStatusPass {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s: %s [status=%s]", tc.Name, tc.FailureMessage, tc.Status))
	}
	return b.String()
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
