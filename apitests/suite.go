package apitests

import (
	"context"

	"github.com/retailqa/storefront-contract-tests/booker"
	"github.com/retailqa/storefront-contract-tests/framework"
)

// Config is everything the API project needs, supplied as opaque parameters by the
// caller; nothing in this package reads flags or environment state.
type Config struct {
	BaseURL  string
	Username string
	Password string

	// Executor overrides the HTTP transport. Nil means http.DefaultClient.
	Executor booker.RequestExecutor
}

// T represents one scenario's scope in the API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment
// that is outside of the Go test runner. To make test assertions you can use the
// assert and require packages, passing the *T as if it were a *testing.T.
//
// Every T owns a freshly constructed booker.Client and a private list of the booking
// ids the scenario created; the ids are deleted best-effort at teardown. Nothing here
// is shared between scenarios.
type T struct {
	c          *framework.Context
	ctx        context.Context
	cfg        Config
	client     *booker.Client
	token      booker.AuthToken
	createdIDs []int
}

func newTestScope(c *framework.Context, cfg Config) *T {
	t := &T{c: c, ctx: context.Background(), cfg: cfg}
	t.client = booker.NewClient(cfg.BaseURL, cfg.Executor, c.DebugLogger())
	return t
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.c.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The
// methods in the require package call FailNow.
func (t *T) FailNow() {
	t.c.FailNow()
}

// Debug logs some debug output for the scenario.
func (t *T) Debug(format string, args ...interface{}) {
	t.c.Debug(format, args...)
}

// Client returns the scenario's own API client.
func (t *T) Client() *booker.Client {
	return t.client
}

// Context returns the Context for the scenario's remote calls.
func (t *T) Context() context.Context {
	return t.ctx
}

// RequireToken authenticates with the configured credentials, failing the scenario
// immediately if no token comes back. The token is owned by this scenario and reused
// for its teardown.
func (t *T) RequireToken() booker.AuthToken {
	result, err := t.client.Authenticate(t.ctx, t.cfg.Username, t.cfg.Password)
	if err != nil {
		t.Errorf("authentication failed: %s", err)
		t.FailNow()
	}
	if !result.OK() {
		t.Errorf("authentication was rejected: %s", result.FailureReason)
		t.FailNow()
	}
	t.token = result.Token
	return result.Token
}

// CreateBooking creates a booking and records its id for teardown. The scenario owns
// the id until it is deleted.
func (t *T) CreateBooking(data booker.Booking) booker.BookingResult {
	result, err := t.client.CreateBooking(t.ctx, data)
	if err != nil {
		t.Errorf("could not create booking: %s", err)
		t.FailNow()
	}
	t.TrackBooking(result.ID)
	return result
}

// TrackBooking registers an id for best-effort deletion at teardown.
func (t *T) TrackBooking(id int) {
	t.createdIDs = append(t.createdIDs, id)
}

// cleanup deletes every booking the scenario created. Failures are logged and
// swallowed: the record may already be gone, and cleanup must never fail a test.
func (t *T) cleanup() {
	if len(t.createdIDs) == 0 {
		return
	}
	token := t.token
	if token == "" {
		result, err := t.client.Authenticate(t.ctx, t.cfg.Username, t.cfg.Password)
		if err != nil || !result.OK() {
			t.c.Debug("cleanup: could not obtain a token, leaving %d bookings behind", len(t.createdIDs))
			return
		}
		token = result.Token
	}
	for _, id := range t.createdIDs {
		if err := t.client.DeleteBooking(t.ctx, id, token); err != nil {
			t.c.Debug("cleanup: could not delete booking %d: %s", id, err)
		}
	}
}

func scenario(name string, cfg Config, action func(*T)) framework.Scenario {
	return framework.Scenario{
		Name: name,
		Action: func(c *framework.Context) {
			t := newTestScope(c, cfg)
			c.Defer(t.cleanup)
			action(t)
		},
	}
}

// Project assembles the API-oriented scenario group. It has no browser dependency,
// so it is cheap to schedule first for fast feedback.
func Project(cfg Config) framework.Project {
	return framework.Project{
		Name: "api",
		Scenarios: []framework.Scenario{
			scenario("ping answers with the liveness status", cfg, doPingScenario),
			scenario("health check reports the service reachable", cfg, doHealthCheckScenario),
			scenario("valid credentials produce a token", cfg, doValidAuthScenario),
			scenario("invalid credentials are rejected in the payload", cfg, doInvalidAuthScenario),
			scenario("repeated authentication keeps producing tokens", cfg, doRepeatedAuthScenario),
			scenario("create returns a server-assigned id", cfg, doCreateBookingScenario),
			scenario("get after create returns identical data", cfg, doGetAfterCreateScenario),
			scenario("full update replaces every field", cfg, doUpdateBookingScenario),
			scenario("partial update leaves untouched fields alone", cfg, doPatchBookingScenario),
			scenario("delete makes the booking unreachable", cfg, doDeleteBookingScenario),
			scenario("independent bookings stay isolated", cfg, doIndependentBookingsScenario),
		},
	}
}
