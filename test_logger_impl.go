package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/retailqa/storefront-contract-tests/framework"
)

var (
	passedColor  = color.New(color.FgGreen)
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
)

// ConsoleTestLogger prints one block of output per scenario. Scenarios run
// concurrently, so events are buffered per scenario and flushed atomically
// when the scenario finishes.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	RerunCommandPrefix   []string

	lock   sync.Mutex
	errors map[string][]error
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.errors == nil {
		c.errors = make(map[string][]error)
	}
	c.errors[id.String()] = append(c.errors[id.String()], err)
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if failed {
		failedColor.Printf("FAILED: %s\n", id)
		for _, err := range c.takeErrors(id) {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("  %s\n", line)
			}
		}
		if len(c.RerunCommandPrefix) > 0 {
			fmt.Printf("  To rerun: %s\n", c.rerunCommand(id))
		}
	} else {
		passedColor.Printf("PASSED: %s\n", id)
		c.takeErrors(id)
	}

	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "  DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		skippedColor.Printf("SKIPPED: %s\n", id)
	} else {
		skippedColor.Printf("SKIPPED: %s (%s)\n", id, reason)
	}
}

// takeErrors removes and returns the buffered errors for a scenario, including any
// reported under the ids of its steps. Must be called with the lock held.
func (c *ConsoleTestLogger) takeErrors(id framework.TestID) []error {
	var ret []error
	prefix := id.String()
	for key, errs := range c.errors {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			ret = append(ret, errs...)
			delete(c.errors, key)
		}
	}
	return ret
}

func (c *ConsoleTestLogger) rerunCommand(id framework.TestID) string {
	var command commandBuilder
	command.add(c.RerunCommandPrefix...)
	command.add("-run", "^"+regexp.QuoteMeta(id.String())+"$")
	return command.String()
}
