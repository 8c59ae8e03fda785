package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const reportTitle = "Test Results"

type reportData struct {
	Title  string
	Total  int
	Failed int
	Rows   []reportRow
}

type reportRow struct {
	Name    string
	Outcome string
	Failed  bool
	Links   []reportLink
	Note    string
	Stderr  string
}

// reportLink points at an artifact relative to the report.
type reportLink struct {
	Href string
	Text string
}

func newReportData(cases []*testCase) reportData {
	data := reportData{
		Title:  reportTitle,
		Total:  len(cases),
		Failed: failed(cases),
		Rows:   make([]reportRow, 0, len(cases)),
	}
	for _, tc := range cases {
		row := reportRow{
			Name:    tc.Name,
			Outcome: tc.Outcome.String(),
		}
		if tc.Outcome != Pass {
			row.Failed = true
			if tc.Kept {
				for _, p := range tc.Artifacts.paths() {
					name := filepath.Base(p)
					row.Links = append(row.Links, reportLink{
						Href: "./" + url.PathEscape(name),
						Text: "./" + name,
					})
				}
			}
			row.Note = tc.note()
			row.Stderr = tc.Stderr
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// note explains a non-passing row beyond the output mismatch itself.
func (tc *testCase) note() string {
	switch {
	case tc.Err != nil:
		return "harness error: " + tc.Err.Error()
	case tc.TimedOut:
		return "interpreter timed out"
	case tc.ExitCode != 0:
		return fmt.Sprintf("interpreter exited with status %d", tc.ExitCode)
	}
	return ""
}

// renderReport depends only on cases, so identical runs render identical
// documents.
func renderReport(w io.Writer, tmpl *template.Template, cases []*testCase) error {
	if err := tmpl.Execute(w, newReportData(cases)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// writeReport replaces the report at path.
func writeReport(path string, tmpl *template.Template, cases []*testCase) error {
	var buf bytes.Buffer
	if err := renderReport(&buf, tmpl, cases); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// openReport hands the report to the desktop's default viewer without waiting
// for it.
func openReport(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("could not open report", "path", path, "error", err)
		return
	}
	go cmd.Wait()
}
