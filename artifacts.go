package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// Artifact extensions, written next to the fixture.
const (
	sourceExt = ".source"
	expectExt = ".expect"
	resultExt = ".result"
)

// artifactSet names the diagnostic files kept for a failing fixture.
type artifactSet struct {
	Source string
	Expect string
	Result string
}

func artifactsFor(dir, name string) artifactSet {
	base := filepath.Join(dir, name)
	return artifactSet{
		Source: base + sourceExt,
		Expect: base + expectExt,
		Result: base + resultExt,
	}
}

func (a artifactSet) paths() []string {
	return []string{a.Source, a.Expect, a.Result}
}

// writeSource materialises the program so the interpreter can read it.
func (a artifactSet) writeSource(source string) error {
	return writeArtifact(a.Source, source)
}

// keep writes the expected and actual output beside the source.
func (a artifactSet) keep(expect, actual string) error {
	if err := writeArtifact(a.Expect, expect); err != nil {
		return err
	}
	return writeArtifact(a.Result, actual)
}

// remove deletes the whole set. Missing files are not an error.
func (a artifactSet) remove() error {
	var errs []error
	for _, p := range a.paths() {
		if err := removeIfExists(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// cleanPatterns lists everything a run may leave behind in the fixture
// directory.
var cleanPatterns = []string{"*.html", "*" + sourceExt, "*" + expectExt, "*" + resultExt}

// clean removes the report and every artifact in dir, whatever the outcome
// of the last run. It returns the removed paths in the order removed. A
// missing dir has nothing to clean.
func clean(dir, reportName string) ([]string, error) {
	entries, err := readDirMatching(dir, cleanPatterns...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", dir, err)
	}
	var targets []string
	for _, e := range entries {
		if !e.IsDir() {
			targets = append(targets, filepath.Join(dir, e.Name()))
		}
	}
	if reportName != "" {
		report := filepath.Join(dir, reportName)
		if fi, err := os.Stat(report); err == nil && !fi.IsDir() && !slices.Contains(targets, report) {
			targets = append(targets, report)
		}
	}

	var removed []string
	var errs []error
	for _, path := range targets {
		if err := removeIfExists(path); err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Debug("removed", "path", path)
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
