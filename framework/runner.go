package framework

import (
	"sync"
	"time"
)

const defaultTimeBudget = 30 * time.Second

// Scenario is one independent test case. Its action receives a freshly constructed
// Context on every attempt and must obtain everything else it needs (clients, page
// abstractions, data) itself, so that nothing is shared with other scenarios.
type Scenario struct {
	Name   string
	Action func(*Context)
}

// Project is a statically partitioned group of scenarios that can be selected and
// scheduled independently of other projects.
type Project struct {
	Name      string
	Scenarios []Scenario
}

// RunnerOptions carries the orchestration policy for one project run.
type RunnerOptions struct {
	// Workers is the bound on concurrently executing scenarios. Zero means one.
	Workers int

	// Retries is how many times a failed scenario is re-attempted. Zero means a
	// single attempt.
	Retries int

	// TimeBudget is the limit on one attempt of one scenario, covering every
	// suspension within it. An attempt exceeding the budget is abandoned and
	// reported as a failure. Zero means the default of 30 seconds.
	TimeBudget time.Duration

	Filter     Filter
	TestLogger TestLogger
	Artifacts  ArtifactPolicy
	Sink       ArtifactSink
}

func (o RunnerOptions) withDefaults() RunnerOptions {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = defaultTimeBudget
	}
	if o.TestLogger == nil {
		o.TestLogger = nullTestLogger{}
	}
	if o.Sink == nil {
		o.Sink = NullArtifactSink()
	}
	return o
}

// RunProject executes every scenario in the project across a bounded worker pool and
// returns the accumulated results. Results appear in scenario declaration order
// regardless of how the pool interleaved execution.
func RunProject(project Project, opts RunnerOptions) Results {
	opts = opts.withDefaults()
	env := &environment{testLogger: opts.TestLogger, filter: opts.Filter}

	ordered := make([]TestResult, len(project.Scenarios))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := project.Scenarios[i]
				id := TestID{Path: []string{project.Name, s.Name}}
				ordered[i] = runScenario(id, s.Action, env, opts)
			}
		}()
	}
	for i := range project.Scenarios {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var results Results
	for _, r := range ordered {
		results.Tests = append(results.Tests, r)
		if r.Skipped {
			results.Skips = append(results.Skips, r)
		} else if r.Failed() {
			results.Failures = append(results.Failures, r)
		}
	}
	return results
}

func runScenario(id TestID, action func(*Context), env *environment, opts RunnerOptions) TestResult {
	if env.filter != nil && !env.filter(id) {
		opts.TestLogger.TestSkipped(id, "excluded by filter parameters")
		return TestResult{TestID: id, Skipped: true, SkipReason: "excluded by filter parameters"}
	}

	opts.TestLogger.TestStarted(id)

	var last *Context
	attempts := 0
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		attempts++
		c := newContext(id, env)
		runAttempt(c, action, opts.TimeBudget)

		if opts.Artifacts.CaptureTrace(attempt) {
			_ = opts.Sink.SaveTrace(id, c.debugLogger.Output())
		}

		if skipped, reason := c.skipOutcome(); skipped {
			opts.TestLogger.TestSkipped(id, reason)
			return TestResult{TestID: id, Skipped: true, SkipReason: reason, Attempts: attempts}
		}

		last = c
		if !c.failedNow() {
			break
		}
	}

	failed := last.failedNow()
	if failed {
		image, videoPath := last.failureArtifacts()
		if opts.Artifacts.ScreenshotOnFailure && len(image) > 0 {
			_ = opts.Sink.SaveScreenshot(id, image)
		}
		if opts.Artifacts.VideoOnFailure && videoPath != "" {
			_ = opts.Sink.RetainVideo(id, videoPath)
		}
	}

	opts.TestLogger.TestFinished(id, failed, last.debugLogger.Output())
	return TestResult{TestID: id, Errors: last.outcomeErrors(), Attempts: attempts}
}

// runAttempt executes one attempt of a scenario on its own goroutine, bounding it by
// the time budget. An attempt that overruns is reported as failed and abandoned; its
// goroutine is not interrupted, so teardown of partially created remote entities is
// best-effort only.
func runAttempt(c *Context, action func(*Context), budget time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer c.runCleanups()
		c.runProtected(action)
		// Artifacts must be captured while the session the hooks reach into is
		// still open, so this happens before the deferred cleanups close it.
		if c.failedNow() {
			c.captureFailureArtifacts()
		}
	}()

	deadline := time.NewTimer(budget)
	defer deadline.Stop()
	select {
	case <-done:
	case <-deadline.C:
		c.Errorf("scenario exceeded its time budget of %s and was abandoned", budget)
	}
}
