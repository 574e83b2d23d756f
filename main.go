package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/retailqa/storefront-contract-tests/apitests"
	"github.com/retailqa/storefront-contract-tests/booker"
	"github.com/retailqa/storefront-contract-tests/framework"
	"github.com/retailqa/storefront-contract-tests/uitests"
)

const healthCheckTimeout = time.Second * 10

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	units := runtime.NumCPU()
	workers := params.workers
	if workers <= 0 {
		workers = framework.WorkerCount(params.ci, units)
	}
	retries := framework.RetryCount(params.ci)

	sink := framework.NullArtifactSink()
	if params.outputDir != "" {
		var err error
		sink, err = framework.NewDirArtifactSink(params.outputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot create artifact directory: %s\n", err)
			os.Exit(1)
		}
	}

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
		RerunCommandPrefix:   rerunCommandPrefix(params),
	}

	opts := framework.RunnerOptions{
		Workers:    workers,
		Retries:    retries,
		TimeBudget: params.timeBudget,
		Filter:     params.filters.AsFilter,
		TestLogger: testLogger,
		Artifacts:  framework.DefaultArtifactPolicy(),
		Sink:       sink,
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)
	fmt.Printf("Running with %d worker(s) and up to %d attempt(s) per scenario\n",
		workers, retries+1)

	var results framework.Results

	if params.project == "api" || params.project == "all" {
		if !checkBookingService(params, mainDebugLogger) {
			fmt.Fprintf(os.Stderr, "Booking service is not reachable at %s\n", params.apiBaseURL)
			os.Exit(1)
		}
		fmt.Println("Running API scenarios")
		apiProject := apitests.Project(apitests.Config{
			BaseURL:  params.apiBaseURL,
			Username: params.username,
			Password: params.password,
		})
		results = results.Merge(framework.RunProject(apiProject, opts))
	}

	if params.project == "ui" || params.project == "all" {
		fmt.Println("Running UI scenarios")
		uiProject := uitests.Project(uitests.Config{
			BaseURL:          params.uiBaseURL,
			DriverServiceURL: params.driverServiceURL,
		})
		results = results.Merge(framework.RunProject(uiProject, opts))
	}

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		os.Exit(1)
	}
}

func checkBookingService(params commandParams, logger framework.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	client := booker.NewClient(params.apiBaseURL, nil, logger)
	return client.HealthCheck(ctx)
}

// rerunCommandPrefix reproduces the non-default parameters of this invocation so
// that a failed scenario's rerun hint works without further editing.
func rerunCommandPrefix(params commandParams) []string {
	args := []string{os.Args[0]}
	if params.apiBaseURL != defaultAPIBaseURL {
		args = append(args, "-api-url", params.apiBaseURL)
	}
	if params.uiBaseURL != defaultUIBaseURL {
		args = append(args, "-ui-url", params.uiBaseURL)
	}
	if params.driverServiceURL != "" {
		args = append(args, "-driver-url", params.driverServiceURL)
	}
	if params.username != defaultUsername {
		args = append(args, "-user", params.username)
	}
	if params.password != defaultPassword {
		args = append(args, "-password", params.password)
	}
	if params.project != "all" {
		args = append(args, "-project", params.project)
	}
	if params.outputDir != "test-results" {
		args = append(args, "-output-dir", params.outputDir)
	}
	return args
}
