package framework

// TestLogger receives scenario lifecycle events as the runner schedules them.
// Because scenarios run concurrently, TestStarted and TestError calls for
// different scenarios may interleave; implementations that print should buffer
// per TestID and emit on TestFinished. TestError may be called with a step's
// child ID rather than the scenario's own. The debugOutput passed to
// TestFinished is everything the final attempt logged through Context.Debug.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

// nullTestLogger is the default when RunnerOptions.TestLogger is unset.
type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
