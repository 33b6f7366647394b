package types

import "time"

// TestStatus represents the possible outcomes of a script execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusError TestStatus = "error"
)

// ScriptSpec identifies one script to run and how to label its result.
// Name and Classname are optional; the registry fills in defaults
// (Name = the path as supplied, Classname = the absolute path).
type ScriptSpec struct {
	Path      string `yaml:"path"`
	Name      string `yaml:"name,omitempty"`
	Classname string `yaml:"classname,omitempty"`
}

// TestCase captures the outcome of a single script run
type TestCase struct {
	Name      string
	Classname string
	Status    TestStatus
	Duration  time.Duration // Wall clock from spawn to confirmed termination
	Stdout    string        // Full captured stdout, never truncated
	Stderr    string        // Full captured stderr, never truncated

	// FailureMessage and FailureType are set iff Status != TestStatusPass.
	// FailureType is the classification rendered as the report's type
	// attribute (assertion failure, IO error, abnormal termination).
	FailureMessage string
	FailureType    string
}

// Passed reports whether the script exited cleanly
func (tc *TestCase) Passed() bool {
	return tc.Status == TestStatusPass
}
