package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// sentinel separates the source program from its expected output.
const sentinel = "---* EXPECT *---"

const sentinelLine = sentinel + "\n"

const fixtureExt = ".test"

// Fixture is a parsed NAME.test file.
type Fixture struct {
	Name   string // base name without extension
	Path   string
	Source string
	Expect string
}

// discoverFixtures returns the fixture files in dir in lexical order.
func discoverFixtures(dir string) ([]string, error) {
	entries, err := readDirMatching(dir, "*"+fixtureExt)
	if err != nil {
		return nil, fmt.Errorf("discover fixtures: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// readDirMatching returns the entries of dir whose names match any of
// patterns, sorted by name. Only entry names are matched, so dir may contain
// glob metacharacters.
func readDirMatching(dir string, patterns ...string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var matched []fs.DirEntry
	for _, e := range entries {
		for _, pattern := range patterns {
			ok, err := filepath.Match(pattern, e.Name())
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched, nil
}

func loadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	source, expect := splitFixture(string(data))
	return &Fixture{
		Name:   fixtureName(path),
		Path:   path,
		Source: source,
		Expect: expect,
	}, nil
}

func fixtureName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// splitFixture splits content at the first sentinel line. Everything else is
// kept verbatim, including a second sentinel line in the expected output.
// Without a sentinel the whole content is source.
func splitFixture(content string) (source, expect string) {
	idx := -1
	if strings.HasPrefix(content, sentinelLine) {
		idx = 0
	} else if i := strings.Index(content, "\n"+sentinelLine); i >= 0 {
		idx = i + 1
	}
	if idx < 0 {
		return content, ""
	}
	return content[:idx], content[idx+len(sentinelLine):]
}
