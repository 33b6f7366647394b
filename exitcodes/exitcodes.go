// Package exitcodes defines the standard exit codes used by shunit.
package exitcodes

// Exit code constants used by shunit
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every script passes
// * TestFailure (1): Used when one or more scripts fail or error
// * RuntimeErr (2): Used for runtime errors such as bad configuration, panics
//   or report-writing failures
const (
	Success     = 0 // All scripts pass
	TestFailure = 1 // Script failures
	RuntimeErr  = 2 // Runtime or configuration errors
)
