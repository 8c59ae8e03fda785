package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/term"
)

// ANSI escape codes
const (
	green = "\033[32m"
	red   = "\033[31m"
	reset = "\033[0m"
)

// console prints per-case lines and the run summary.
type console struct {
	w     io.Writer
	color bool
}

func newConsole(w io.Writer) *console {
	return &console{w: w, color: isTerminal(w)}
}

// isTerminal reports whether w is a terminal, so plain pipes and files get no
// escape codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *console) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + reset
}

func (c *console) result(tc *testCase) {
	switch tc.Outcome {
	case Pass:
		fmt.Fprintf(c.w, "%s %s\n", c.paint(green, "PASS"), tc.Name)
		return
	case Fail:
		fmt.Fprintf(c.w, "%s %s\n", c.paint(red, "FAIL"), tc.Name)
	default:
		fmt.Fprintf(c.w, "%s %s\n", c.paint(red, "ERROR"), tc.Name)
	}
	if note := tc.note(); note != "" {
		fmt.Fprintf(c.w, "    %s\n", note)
	}
	if tc.Err == nil {
		fmt.Fprintf(c.w, "    output mismatch (-expect +result):\n%s", indent(cmp.Diff(tc.Expect, tc.Actual), "    "))
	}
}

func (c *console) summary(cases []*testCase, reportPath string) {
	n := failed(cases)
	if n == 0 {
		fmt.Fprintf(c.w, "All %s tests passed.", c.paint(green, fmt.Sprint(len(cases))))
	} else {
		fmt.Fprintf(c.w, "%s of %d tests failed.", c.paint(red, fmt.Sprint(n)), len(cases))
	}
	fmt.Fprintf(c.w, " Report: %s\n", reportPath)
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if !strings.HasSuffix(s, "\n") && s != "" {
		b.WriteString("\n")
	}
	return b.String()
}
