// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of end-to-end tests.
//
// The general model is:
//
// 1. A test scenario is an independent unit of work with its own identifier. Scenarios
// are grouped into projects (for this harness, a UI project and an API project) that can
// be selected and scheduled independently of each other.
//
// 2. Scenarios are executed across a bounded worker pool. Every attempt of a scenario
// gets a freshly constructed Context, so no mutable state crosses scenario boundaries
// and no coordination between concurrently running scenarios is ever required.
//
// 3. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results, captured debug output, and teardown actions.
//
// 4. Retry and artifact retention policies live here: how many times a failed scenario
// is re-attempted, and which diagnostic artifacts (execution trace, screenshot, video)
// survive the run.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the scenario actions, the clients or page abstractions they drive, and a
// domain-specific test API on top of the test context.
package framework
