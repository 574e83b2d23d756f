package framework

// WorkerCount decides how many scenarios may run concurrently, as a pure function of
// the environment and the number of available parallel-execution units (typically CPU
// cores).
//
// Unattended (CI) runs get every available unit: the runner is dedicated, so the only
// goal is throughput. Local runs get half of the units, rounded down with a floor of
// one, which keeps the machine responsive for the editor and whatever the developer is
// debugging alongside the run.
func WorkerCount(ci bool, units int) int {
	if units < 1 {
		units = 1
	}
	if ci {
		return units
	}
	n := units / 2
	if n < 1 {
		n = 1
	}
	return n
}

// RetryCount decides how many times a failed scenario is re-attempted. Retries apply
// per scenario, never to the whole suite. Local runs get none, so a genuine failure
// surfaces immediately while iterating; unattended runs get two, to absorb the
// flakiness budget of remote systems under test.
func RetryCount(ci bool) int {
	if ci {
		return 2
	}
	return 0
}
