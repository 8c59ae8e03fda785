package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigName = "expect-runner.yaml"
	defaultReportName = "test_results.html"
	defaultTimeout    = 30 * time.Second
)

var errMissingInterpreter = errors.New("no interpreter configured (set EXPECT_RUNNER_INTERPRETER or \"interpreter\" in " + defaultConfigName + ")")

// Config describes how to find fixtures and how to launch the interpreter
// under test.
type Config struct {
	Interpreter string            `yaml:"interpreter"` // executable, e.g. a java binary
	ClassPath   string            `yaml:"classpath"`   // passed as -cp when set
	Args        []string          `yaml:"args"`        // placed before the source path
	Env         map[string]string `yaml:"env"`
	Dir         string            `yaml:"dir"` // fixture directory
	Timeout     time.Duration     `yaml:"timeout"`
	Report      string            `yaml:"report"`    // report file name inside Dir
	Templates   string            `yaml:"templates"` // optional txtar template override
	OpenReport  bool              `yaml:"open_report"`
	LogLevel    string            `yaml:"log_level"`
}

var DefaultConfig = Config{
	Dir:      ".",
	Timeout:  defaultTimeout,
	Report:   defaultReportName,
	LogLevel: "info",
}

// loadConfig layers DefaultConfig, the YAML config file and the environment,
// in that order. getenv is os.Getenv outside of tests. Variables that only
// matter to a test run are applied later by applyRunEnv, so a malformed one
// does not block --clean.
func loadConfig(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig

	dir := cfg.Dir
	if v := getenv("EXPECT_RUNNER_DIR"); v != "" {
		dir = v
	}

	path := getenv("EXPECT_RUNNER_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, defaultConfigName)
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv(getenv)
	if cfg.Report == "" {
		cfg.Report = defaultReportName
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("EXPECT_RUNNER_INTERPRETER"); v != "" {
		c.Interpreter = v
	}
	if v := getenv("EXPECT_RUNNER_CLASSPATH"); v != "" {
		c.ClassPath = v
	}
	if v := getenv("EXPECT_RUNNER_ARGS"); v != "" {
		c.Args = strings.Fields(v)
	}
	if v := getenv("EXPECT_RUNNER_DIR"); v != "" {
		c.Dir = v
	}
	if v := getenv("EXPECT_RUNNER_REPORT"); v != "" {
		c.Report = v
	}
	if v := getenv("EXPECT_RUNNER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) applyRunEnv(getenv func(string) string) error {
	if v := getenv("EXPECT_RUNNER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EXPECT_RUNNER_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := getenv("EXPECT_RUNNER_OPEN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EXPECT_RUNNER_OPEN: %w", err)
		}
		c.OpenReport = b
	}
	return nil
}

// validate checks what a test run needs. Cleaning needs none of it.
func (c *Config) validate() error {
	if c.Interpreter == "" {
		return errMissingInterpreter
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func (c *Config) reportPath() string {
	return filepath.Join(c.Dir, c.Report)
}

// command returns the interpreter argv without the trailing source path.
func (c *Config) command() []string {
	argv := []string{c.Interpreter}
	if c.ClassPath != "" {
		argv = append(argv, "-cp", c.ClassPath)
	}
	return append(argv, c.Args...)
}

func (c *Config) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
