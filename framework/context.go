package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

type environment struct {
	testLogger TestLogger
	filter     Filter
}

// Context carries the state of one attempt of one scenario. It implements the same
// basic functionality as Go's testing.T, but in an environment that is outside of the
// Go test runner. A fresh Context is constructed for every attempt, so scenarios can
// never observe each other's state.
//
// Context methods may be called from the scenario goroutine while the scheduler is
// concurrently deciding the scenario's fate (for instance after a time budget overrun),
// so all mutable state is guarded by a lock.
type Context struct {
	env         *environment
	id          TestID
	debugLogger *CapturingLogger
	lock        sync.Mutex
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	screenshot  func() ([]byte, error)
	videoFile   func() string
	// Captured by captureFailureArtifacts before cleanups run, while the hooks
	// can still reach a live session.
	capturedImage []byte
	capturedVideo string
}

func newContext(id TestID, env *environment) *Context {
	return &Context{id: id, env: env, debugLogger: &CapturingLogger{}}
}

func (c *Context) ID() TestID {
	return c.id
}

// Errorf records a test failure. It does not cause an immediate exit.
func (c *Context) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	c.lock.Lock()
	c.failed = true
	c.errors = append(c.errors, err)
	c.lock.Unlock()
	c.env.testLogger.TestError(c.id, err)
}

// FailNow aborts the current attempt immediately. The methods in the require package
// call FailNow.
func (c *Context) FailNow() {
	panic(c)
}

// Skip marks the scenario as skipped and aborts the current attempt. A skipped
// scenario is never retried.
func (c *Context) Skip() {
	c.lock.Lock()
	c.skipped = true
	c.lock.Unlock()
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.lock.Lock()
	c.skipReason = reason
	c.lock.Unlock()
	c.Skip()
}

// Defer registers a function to run when the current attempt finishes, whether it
// passed, failed, or was aborted by FailNow. Deferred functions run in reverse
// registration order, like Go's defer.
func (c *Context) Defer(cleanup func()) {
	c.lock.Lock()
	c.cleanups = append(c.cleanups, cleanup)
	c.lock.Unlock()
}

// Debug logs some debug output for the attempt. The output is passed to the test
// logger at the end of the scenario, and is what gets persisted as the execution
// trace artifact when the retention policy calls for one.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return c.debugLogger
}

// RegisterScreenshot provides a capture function to be invoked only if the scenario
// terminally fails. Page abstractions register this when the underlying driver can
// produce still images.
func (c *Context) RegisterScreenshot(capture func() ([]byte, error)) {
	c.lock.Lock()
	c.screenshot = capture
	c.lock.Unlock()
}

// RegisterVideo provides a function returning the path of a video recording of the
// attempt, or "" if none exists. The recording is retained only if the scenario
// terminally fails.
func (c *Context) RegisterVideo(videoFile func() string) {
	c.lock.Lock()
	c.videoFile = videoFile
	c.lock.Unlock()
}

// Run executes a named step within the scenario. Step failures are recorded against
// the parent scenario; steps share the scenario's debug output and retry/artifact
// treatment. This is equivalent to the Run method of testing.T except that it does
// not produce an independent result entry.
func (c *Context) Run(name string, action func(*Context)) {
	child := &Context{
		id:          c.id.Plus(name),
		env:         c.env,
		debugLogger: c.debugLogger,
	}
	child.runProtected(action)
	child.runCleanups()
	childErrs, childSkipped := child.outcome()
	if childSkipped {
		return
	}
	if len(childErrs) > 0 {
		c.lock.Lock()
		c.failed = true
		for _, err := range childErrs {
			c.errors = append(c.errors, TestFailure{ID: child.id, Err: err})
		}
		c.lock.Unlock()
	}
}

func (c *Context) runProtected(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			c.lock.Lock()
			skipped := c.skipped
			c.lock.Unlock()
			if skipped {
				return
			}
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.outcomeErrors()) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.lock.Lock()
				c.failed = true
				c.errors = append(c.errors, addError)
				c.lock.Unlock()
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	c.lock.Lock()
	cleanups := c.cleanups
	c.cleanups = nil
	c.lock.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (c *Context) outcome() ([]error, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]error(nil), c.errors...), c.skipped
}

func (c *Context) outcomeErrors() []error {
	errs, _ := c.outcome()
	return errs
}

func (c *Context) failedNow() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.failed
}

func (c *Context) skipOutcome() (bool, string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.skipped, c.skipReason
}

// captureFailureArtifacts invokes the registered artifact hooks. It must run on the
// attempt goroutine before the deferred cleanups, because the cleanups usually close
// the browser session the hooks capture from. The results are held on the Context and
// only persisted later if the scenario fails terminally.
func (c *Context) captureFailureArtifacts() {
	c.lock.Lock()
	screenshot, videoFile := c.screenshot, c.videoFile
	c.lock.Unlock()

	var image []byte
	var video string
	if screenshot != nil {
		var err error
		if image, err = screenshot(); err != nil {
			c.Debug("could not capture failure screenshot: %s", err)
			image = nil
		}
	}
	if videoFile != nil {
		video = videoFile()
	}

	c.lock.Lock()
	c.capturedImage = image
	c.capturedVideo = video
	c.lock.Unlock()
}

func (c *Context) failureArtifacts() ([]byte, string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.capturedImage, c.capturedVideo
}
