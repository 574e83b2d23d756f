package framework

import (
	"fmt"
	"io"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skips    []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string

	// Attempts is how many times the scenario was executed, counting retries.
	Attempts int
}

func (r TestResult) Failed() bool {
	return len(r.Errors) != 0
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Merge combines the results of independently scheduled projects into one report.
func (r Results) Merge(other Results) Results {
	return Results{
		Tests:    append(append([]TestResult(nil), r.Tests...), other.Tests...),
		Failures: append(append([]TestResult(nil), r.Failures...), other.Failures...),
		Skips:    append(append([]TestResult(nil), r.Skips...), other.Skips...),
	}
}

type TestID struct {
	Path []string
}

func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

func PrintResults(dest io.Writer, results Results) {
	ran := len(results.Tests) - len(results.Skips)
	fmt.Fprintf(dest, "Ran %d scenarios, %d skipped\n", ran, len(results.Skips))
	if results.OK() {
		fmt.Fprintln(dest, "All scenarios passed")
		return
	}
	fmt.Fprintf(dest, "Failed scenarios: %d\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Fprintf(dest, "  [%s] (%d attempts)\n", f.TestID, f.Attempts)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(dest, "    %s\n", line)
			}
		}
	}
}
