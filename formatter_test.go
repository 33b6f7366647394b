package shunit

import (
	"bytes"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/shunit/types"
)

// TestConsoleResultFormatter_FormatResults tests the basic functionality of the formatter
func TestConsoleResultFormatter_FormatResults(t *testing.T) {
	suite := createSampleSuite()

	var buf bytes.Buffer
	formatter := NewConsoleResultFormatter(log.New(), &buf)

	err := formatter.FormatResults(suite)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ok.sh")
	assert.Contains(t, out, "bad.sh")
	assert.Contains(t, out, "gone.sh")
	assert.Contains(t, out, "✓ pass")
	assert.Contains(t, out, "✗ fail")
	assert.Contains(t, out, "! error")
	assert.Contains(t, out, "Non-zero exit-code: 3")
	assert.Contains(t, out, "TOTAL")

	// The summary line follows the table
	assert.Contains(t, out, suite.String())
}

// TestConsoleResultFormatter_FormatResults_EmptySuite tests formatting an empty suite
func TestConsoleResultFormatter_FormatResults_EmptySuite(t *testing.T) {
	suite := types.NewTestSuite("empty", nil)
	suite.Duration = 100 * time.Millisecond

	var buf bytes.Buffer
	formatter := NewConsoleResultFormatter(log.New(), &buf)

	err := formatter.FormatResults(suite)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "TOTAL")
}

// Helper function to create a sample suite for formatting
func createSampleSuite() *types.TestSuite {
	suite := types.NewTestSuite("sample", []types.TestCase{
		{
			Name:      "ok.sh",
			Classname: "/tmp/ok.sh",
			Status:    types.TestStatusPass,
			Duration:  50 * time.Millisecond,
		},
		{
			Name:           "bad.sh",
			Classname:      "/tmp/bad.sh",
			Status:         types.TestStatusFail,
			Duration:       75 * time.Millisecond,
			FailureMessage: "Non-zero exit-code: 3",
			FailureType:    "Assertion failed",
		},
		{
			Name:           "gone.sh",
			Classname:      "/tmp/gone.sh",
			Status:         types.TestStatusError,
			Duration:       10 * time.Millisecond,
			FailureMessage: "fork/exec /tmp/gone.sh: no such file or directory",
			FailureType:    "IO error",
		},
	})
	suite.Duration = 135 * time.Millisecond
	return suite
}
