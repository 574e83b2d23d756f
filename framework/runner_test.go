package framework

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	lock        sync.Mutex
	traces      map[string]int
	screenshots map[string][]byte
	videos      map[string]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		traces:      make(map[string]int),
		screenshots: make(map[string][]byte),
		videos:      make(map[string]string),
	}
}

func (s *recordingSink) SaveTrace(id TestID, output CapturedOutput) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.traces[id.String()]++
	return nil
}

func (s *recordingSink) SaveScreenshot(id TestID, image []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.screenshots[id.String()] = image
	return nil
}

func (s *recordingSink) RetainVideo(id TestID, sourceFile string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.videos[id.String()] = sourceFile
	return nil
}

func runOneScenario(opts RunnerOptions, action func(*Context)) Results {
	project := Project{Name: "p", Scenarios: []Scenario{{Name: "s", Action: action}}}
	return RunProject(project, opts)
}

func TestRunProjectAllScenariosPass(t *testing.T) {
	project := Project{Name: "p", Scenarios: []Scenario{
		{Name: "first", Action: func(c *Context) {}},
		{Name: "second", Action: func(c *Context) {}},
	}}
	results := RunProject(project, RunnerOptions{})
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 2)
	assert.Empty(t, results.Failures)
	assert.Empty(t, results.Skips)
}

func TestRunProjectResultsAreInDeclarationOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var scenarios []Scenario
	for _, name := range names {
		scenarios = append(scenarios, Scenario{Name: name, Action: func(c *Context) {}})
	}
	results := RunProject(Project{Name: "p", Scenarios: scenarios},
		RunnerOptions{Workers: 4})
	require.Len(t, results.Tests, len(names))
	for i, name := range names {
		assert.Equal(t, "p/"+name, results.Tests[i].TestID.String())
	}
}

func TestRunProjectRecordsFailure(t *testing.T) {
	results := runOneScenario(RunnerOptions{}, func(c *Context) {
		c.Errorf("something went wrong: %d", 42)
	})
	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "something went wrong: 42", results.Failures[0].Errors[0].Error())
}

func TestRunProjectFailNowAbortsAttempt(t *testing.T) {
	reachedEnd := false
	results := runOneScenario(RunnerOptions{}, func(c *Context) {
		c.Errorf("fatal problem")
		c.FailNow()
		reachedEnd = true
	})
	assert.False(t, results.OK())
	assert.False(t, reachedEnd)
}

func TestRunProjectRetriesUntilPass(t *testing.T) {
	attempts := 0
	results := runOneScenario(RunnerOptions{Retries: 2}, func(c *Context) {
		attempts++
		if attempts < 3 {
			c.Errorf("flaky failure on attempt %d", attempts)
		}
	})
	assert.True(t, results.OK())
	assert.Equal(t, 3, attempts)
	require.Len(t, results.Tests, 1)
	assert.Equal(t, 3, results.Tests[0].Attempts)
}

func TestRunProjectRetriesExhausted(t *testing.T) {
	attempts := 0
	results := runOneScenario(RunnerOptions{Retries: 2}, func(c *Context) {
		attempts++
		c.Errorf("always fails")
	})
	assert.False(t, results.OK())
	assert.Equal(t, 3, attempts)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, 3, results.Failures[0].Attempts)
}

func TestRunProjectNoRetriesByDefault(t *testing.T) {
	attempts := 0
	results := runOneScenario(RunnerOptions{}, func(c *Context) {
		attempts++
		c.Errorf("fails")
	})
	assert.False(t, results.OK())
	assert.Equal(t, 1, attempts)
}

func TestRunProjectEachAttemptGetsAFreshContext(t *testing.T) {
	var contexts []*Context
	_ = runOneScenario(RunnerOptions{Retries: 1}, func(c *Context) {
		contexts = append(contexts, c)
		c.Errorf("fails")
	})
	require.Len(t, contexts, 2)
	assert.NotSame(t, contexts[0], contexts[1])
}

func TestRunProjectSkippedScenarioIsNotRetried(t *testing.T) {
	attempts := 0
	results := runOneScenario(RunnerOptions{Retries: 2}, func(c *Context) {
		attempts++
		c.SkipWithReason("capability not available")
	})
	assert.True(t, results.OK())
	assert.Equal(t, 1, attempts)
	require.Len(t, results.Skips, 1)
	assert.Equal(t, "capability not available", results.Skips[0].SkipReason)
}

func TestRunProjectFilterExcludesScenarioWithoutRunningIt(t *testing.T) {
	ran := false
	opts := RunnerOptions{Filter: func(id TestID) bool { return false }}
	results := runOneScenario(opts, func(c *Context) { ran = true })
	assert.False(t, ran)
	require.Len(t, results.Skips, 1)
	assert.Equal(t, "excluded by filter parameters", results.Skips[0].SkipReason)
}

func TestRunProjectTimeBudgetOverrunFailsTheScenario(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	results := runOneScenario(RunnerOptions{TimeBudget: 50 * time.Millisecond}, func(c *Context) {
		<-release
	})
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "time budget")
}

func TestRunProjectUnexpectedPanicIsReportedAsFailure(t *testing.T) {
	results := runOneScenario(RunnerOptions{}, func(c *Context) {
		panic("something really broke")
	})
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "something really broke")
}

func TestRunProjectCleanupsRunInReverseOrderAfterFailure(t *testing.T) {
	var order []string
	_ = runOneScenario(RunnerOptions{}, func(c *Context) {
		c.Defer(func() { order = append(order, "first registered") })
		c.Defer(func() { order = append(order, "second registered") })
		c.Errorf("fails")
		c.FailNow()
	})
	assert.Equal(t, []string{"second registered", "first registered"}, order)
}

func TestRunProjectStepFailureIsAttributedToParentScenario(t *testing.T) {
	results := runOneScenario(RunnerOptions{}, func(c *Context) {
		c.Run("inner step", func(c *Context) {
			c.Errorf("step problem")
		})
	})
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "inner step")
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "step problem")
}

func TestRunProjectStepFailNowDoesNotAbortParent(t *testing.T) {
	reachedEnd := false
	_ = runOneScenario(RunnerOptions{}, func(c *Context) {
		c.Run("inner step", func(c *Context) {
			c.Errorf("step problem")
			c.FailNow()
		})
		reachedEnd = true
	})
	assert.True(t, reachedEnd)
}

func TestRunProjectTraceIsSavedOnlyForFirstRetry(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Retries: 2, Artifacts: DefaultArtifactPolicy(), Sink: sink}
	_ = runOneScenario(opts, func(c *Context) {
		c.Debug("attempt detail")
		c.Errorf("always fails")
	})
	assert.Equal(t, 1, sink.traces["p/s"])
}

func TestRunProjectNoTraceForScenarioThatPassesFirstTime(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Retries: 2, Artifacts: DefaultArtifactPolicy(), Sink: sink}
	_ = runOneScenario(opts, func(c *Context) {})
	assert.Empty(t, sink.traces)
}

func TestRunProjectScreenshotAndVideoAreRetainedOnlyOnTerminalFailure(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Artifacts: DefaultArtifactPolicy(), Sink: sink}
	image := []byte{1, 2, 3}
	_ = runOneScenario(opts, func(c *Context) {
		c.RegisterScreenshot(func() ([]byte, error) { return image, nil })
		c.RegisterVideo(func() string { return "/tmp/recording.webm" })
		c.Errorf("fails")
	})
	assert.Equal(t, image, sink.screenshots["p/s"])
	assert.Equal(t, "/tmp/recording.webm", sink.videos["p/s"])
}

func TestRunProjectScreenshotIsCapturedBeforeDeferredCleanups(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Artifacts: DefaultArtifactPolicy(), Sink: sink}
	image := []byte{1, 2, 3}
	closed := false
	_ = runOneScenario(opts, func(c *Context) {
		c.Defer(func() { closed = true })
		c.RegisterScreenshot(func() ([]byte, error) {
			if closed {
				return nil, errors.New("session is closed")
			}
			return image, nil
		})
		c.Errorf("fails")
	})
	assert.True(t, closed)
	assert.Equal(t, image, sink.screenshots["p/s"])
}

func TestRunProjectScreenshotHookErrorDoesNotPanic(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Artifacts: DefaultArtifactPolicy(), Sink: sink}
	results := runOneScenario(opts, func(c *Context) {
		c.RegisterScreenshot(func() ([]byte, error) { return nil, errors.New("no can do") })
		c.Errorf("fails")
	})
	assert.Len(t, results.Failures, 1)
	assert.Empty(t, sink.screenshots)
}

func TestRunProjectNoScreenshotForPassingScenario(t *testing.T) {
	sink := newRecordingSink()
	opts := RunnerOptions{Artifacts: DefaultArtifactPolicy(), Sink: sink}
	captured := false
	_ = runOneScenario(opts, func(c *Context) {
		c.RegisterScreenshot(func() ([]byte, error) { captured = true; return []byte{1}, nil })
	})
	assert.False(t, captured)
	assert.Empty(t, sink.screenshots)
}

func TestRunProjectWorkersRunScenariosConcurrently(t *testing.T) {
	// Two scenarios that each wait for the other can only finish if they
	// really are running at the same time.
	first, second := make(chan struct{}), make(chan struct{})
	project := Project{Name: "p", Scenarios: []Scenario{
		{Name: "one", Action: func(c *Context) {
			close(first)
			<-second
		}},
		{Name: "two", Action: func(c *Context) {
			close(second)
			<-first
		}},
	}}
	results := RunProject(project, RunnerOptions{Workers: 2, TimeBudget: 5 * time.Second})
	assert.True(t, results.OK())
}

func TestRunProjectDebugOutputReachesTestLogger(t *testing.T) {
	var finished CapturedOutput
	logger := &callbackTestLogger{
		finished: func(id TestID, failed bool, debugOutput CapturedOutput) {
			finished = debugOutput
		},
	}
	_ = runOneScenario(RunnerOptions{TestLogger: logger}, func(c *Context) {
		c.Debug("useful detail %d", 7)
	})
	require.Len(t, finished, 1)
	assert.Equal(t, "useful detail 7", finished[0].Message)
}

type callbackTestLogger struct {
	finished func(TestID, bool, CapturedOutput)
}

func (l *callbackTestLogger) TestStarted(TestID)         {}
func (l *callbackTestLogger) TestError(TestID, error)    {}
func (l *callbackTestLogger) TestSkipped(TestID, string) {}
func (l *callbackTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	l.finished(id, failed, debugOutput)
}
