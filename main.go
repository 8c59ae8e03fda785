package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("expect-runner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flagClean := fs.Bool("clean", false, "remove the report and all .source, .expect and .result files, then exit")
	if !validArgs(args) || fs.Parse(args) != nil {
		printUsage(stdout, fs)
		return 0
	}

	cfg, err := loadConfig(getenv)
	if err != nil {
		fmt.Fprintln(stderr, "expect-runner:", err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.logLevel(),
	})))

	if *flagClean {
		removed, err := clean(cfg.Dir, cfg.Report)
		slog.Info("cleaned", "dir", cfg.Dir, "removed", len(removed))
		if err != nil {
			slog.Error("clean failed", "error", err)
			return 1
		}
		return 0
	}

	if err := cfg.applyRunEnv(getenv); err != nil {
		fmt.Fprintln(stderr, "expect-runner:", err)
		return 1
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(stderr, "expect-runner:", err)
		return 1
	}
	tmpl, err := loadTemplates(cfg.Templates)
	if err != nil {
		fmt.Fprintln(stderr, "expect-runner:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := newConsole(stdout)
	h := newHarness(cfg)
	h.onResult = con.result
	cases, err := h.runAll(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		return 1
	}

	reportPath := cfg.reportPath()
	if err := writeReport(reportPath, tmpl, cases); err != nil {
		slog.Error("report failed", "error", err)
		return 1
	}
	con.summary(cases, reportPath)
	slog.Info("report written", "path", reportPath, "total", len(cases), "failed", failed(cases))

	if cfg.OpenReport {
		openReport(reportPath)
	}
	if errors.Is(ctx.Err(), context.Canceled) || failed(cases) > 0 {
		return 1
	}
	return 0
}

// validArgs accepts no arguments or a lone clean flag. Flag values such as
// --clean=false are rejected.
func validArgs(args []string) bool {
	switch len(args) {
	case 0:
		return true
	case 1:
		return args[0] == "--clean" || args[0] == "-clean"
	}
	return false
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  expect-runner           run every *.test fixture and write the report")
	fmt.Fprintln(w, "  expect-runner --clean   remove the report and all artifacts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  EXPECT_RUNNER_INTERPRETER  interpreter executable (required to run)")
	fmt.Fprintln(w, "  EXPECT_RUNNER_CLASSPATH    class path passed as -cp")
	fmt.Fprintln(w, "  EXPECT_RUNNER_ARGS         arguments placed before the source path")
	fmt.Fprintln(w, "  EXPECT_RUNNER_DIR          fixture directory (default .)")
	fmt.Fprintln(w, "  EXPECT_RUNNER_TIMEOUT      per-fixture timeout, 0 disables (default 30s)")
	fmt.Fprintln(w, "  EXPECT_RUNNER_REPORT       report file name (default "+defaultReportName+")")
	fmt.Fprintln(w, "  EXPECT_RUNNER_OPEN         open the report when done")
	fmt.Fprintln(w, "  EXPECT_RUNNER_LOG_LEVEL    debug, info, warn or error")
	fmt.Fprintln(w, "  EXPECT_RUNNER_CONFIG       YAML config file (default "+defaultConfigName+" in the fixture directory)")
}
