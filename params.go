package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/retailqa/storefront-contract-tests/framework"
)

const (
	defaultAPIBaseURL = "https://restful-booker.herokuapp.com"
	defaultUIBaseURL  = "https://www.saucedemo.com"
	defaultUsername   = "admin"
	defaultPassword   = "password123"
)

type commandParams struct {
	apiBaseURL       string
	uiBaseURL        string
	driverServiceURL string
	username         string
	password         string
	project          string
	ci               bool
	workers          int
	timeBudget       time.Duration
	outputDir        string
	filters          framework.RegexFilters
	debug            bool
	debugAll         bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.apiBaseURL, "api-url", defaultAPIBaseURL, "base URL of the bookings API under test")
	fs.StringVar(&c.uiBaseURL, "ui-url", defaultUIBaseURL, "base URL of the storefront under test")
	fs.StringVar(&c.driverServiceURL, "driver-url", "", "root endpoint of the browser driver service (UI scenarios are skipped without it)")
	fs.StringVar(&c.username, "user", defaultUsername, "bookings API username")
	fs.StringVar(&c.password, "password", defaultPassword, "bookings API password")
	fs.StringVar(&c.project, "project", "all", `which scenario group to run: "api", "ui", or "all"`)
	fs.BoolVar(&c.ci, "ci", false, "unattended mode: use every execution unit and retry failed scenarios")
	fs.IntVar(&c.workers, "workers", 0, "override the computed worker count")
	fs.DurationVar(&c.timeBudget, "timeout", 0, "override the per-scenario time budget")
	fs.StringVar(&c.outputDir, "output-dir", "test-results", "directory for retained artifacts (empty to discard them)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all scenarios")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	switch c.project {
	case "api", "ui", "all":
	default:
		fmt.Fprintf(os.Stderr, "unknown -project value %q\n", c.project)
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
