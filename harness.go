package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Outcome is the verdict for one fixture.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	// Error marks a fixture the harness could not process, as opposed to one
	// whose output was wrong.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "Pass"
	case Fail:
		return "Fail"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// testCase is one fixture as seen during a run.
type testCase struct {
	Name    string
	Path    string
	Source  string
	Expect  string
	Actual  string
	Outcome Outcome

	Stderr   string
	ExitCode int
	TimedOut bool
	Elapsed  time.Duration
	Err      error

	Artifacts artifactSet
	Kept      bool // artifacts from this run are on disk
}

// compare is an exact comparison: whitespace and line endings count.
func compare(actual, expect string) Outcome {
	if actual == expect {
		return Pass
	}
	return Fail
}

// runner drives fixtures through the interpreter one at a time.
type runner interface {
	run(ctx context.Context, sourcePath string) (*invocation, error)
}

type harness struct {
	dir      string
	interp   runner
	onResult func(*testCase) // called as each case finishes, may be nil
}

func newHarness(cfg *Config) *harness {
	return &harness{dir: cfg.Dir, interp: newInterpreter(cfg)}
}

// runAll discovers and runs every fixture in order. Per-fixture failures are
// recorded on the test case; only discovery failure stops the run.
func (h *harness) runAll(ctx context.Context) ([]*testCase, error) {
	paths, err := discoverFixtures(h.dir)
	if err != nil {
		return nil, err
	}
	slog.Info("running fixtures", "dir", h.dir, "count", len(paths))

	cases := make([]*testCase, 0, len(paths))
	for _, path := range paths {
		tc := &testCase{
			Name:      fixtureName(path),
			Path:      path,
			Artifacts: artifactsFor(h.dir, fixtureName(path)),
		}
		if err := ctx.Err(); err != nil {
			tc.Outcome = Error
			tc.Err = fmt.Errorf("run interrupted: %w", err)
		} else {
			h.runOne(ctx, tc)
		}
		cases = append(cases, tc)
		if h.onResult != nil {
			h.onResult(tc)
		}
	}
	return cases, nil
}

func (h *harness) runOne(ctx context.Context, tc *testCase) {
	fail := func(err error) {
		tc.Outcome = Error
		tc.Err = err
		slog.Warn("fixture error", "name", tc.Name, "error", err)
	}

	fx, err := loadFixture(tc.Path)
	if err != nil {
		// Anything left from an earlier run would no longer match the fixture.
		fail(errors.Join(err, tc.Artifacts.remove()))
		return
	}
	tc.Source, tc.Expect = fx.Source, fx.Expect

	if err := tc.Artifacts.writeSource(tc.Source); err != nil {
		fail(errors.Join(err, tc.Artifacts.remove()))
		return
	}

	inv, err := h.interp.run(ctx, tc.Artifacts.Source)
	if err != nil {
		fail(err)
		if kerr := tc.Artifacts.keep(tc.Expect, ""); kerr != nil {
			tc.Err = errors.Join(err, kerr)
			return
		}
		tc.Kept = true
		return
	}
	tc.Actual = inv.Stdout
	tc.Stderr = inv.Stderr
	tc.ExitCode = inv.ExitCode
	tc.TimedOut = inv.TimedOut
	tc.Elapsed = inv.Elapsed

	if err := ctx.Err(); err != nil {
		// The interpreter was killed by the interrupt, so its exit says
		// nothing about the fixture.
		fail(fmt.Errorf("run interrupted: %w", err))
		if kerr := h.finalize(tc); kerr != nil {
			tc.Err = errors.Join(tc.Err, kerr)
		}
		return
	}

	tc.Outcome = compare(tc.Actual, tc.Expect)
	slog.Debug("compared", "name", tc.Name, "outcome", tc.Outcome, "exit", tc.ExitCode, "elapsed", tc.Elapsed)

	if err := h.finalize(tc); err != nil {
		fail(err)
	}
}

// finalize leaves the artifact set on disk for failures and removes it for
// passes.
func (h *harness) finalize(tc *testCase) error {
	if tc.Outcome == Pass {
		return tc.Artifacts.remove()
	}
	if err := tc.Artifacts.keep(tc.Expect, tc.Actual); err != nil {
		return err
	}
	tc.Kept = true
	return nil
}

// failed counts the cases that did not pass.
func failed(cases []*testCase) int {
	n := 0
	for _, tc := range cases {
		if tc.Outcome != Pass {
			n++
		}
	}
	return n
}
