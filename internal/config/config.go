package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/seedrun/internal/runner"
)

// DefaultPath is the project file looked up in the working directory.
const DefaultPath = "seedrun.yaml"

const (
	defaultOutDir     = "seedrun"
	defaultScoreRegex = `(?m)^\s*Score\s*=\s*(?P<score>\d+)\s*$`
)

type Config struct {
	General General `yaml:"general"`
	Problem Problem `yaml:"problem"`
	Test    Test    `yaml:"test"`
}

type General struct {
	Version string `yaml:"version"`
}

type Problem struct {
	ProblemName string `yaml:"problem_name"`
	Objective   string `yaml:"objective"`
	ScoreRegex  string `yaml:"score_regex"`
}

type Test struct {
	StartSeed    uint64        `yaml:"start_seed"`
	EndSeed      uint64        `yaml:"end_seed"`
	Threads      int           `yaml:"threads"`
	OutDir       string        `yaml:"out_dir"`
	CompileSteps []CompileStep `yaml:"compile_steps"`
	TestSteps    []TestStep    `yaml:"test_steps"`
}

type CompileStep struct {
	Program    string   `yaml:"program"`
	Args       []string `yaml:"args,flow"`
	CurrentDir string   `yaml:"current_dir,omitempty"`
	OS         string   `yaml:"os,omitempty"`
}

type TestStep struct {
	Program    string   `yaml:"program"`
	Args       []string `yaml:"args,flow"`
	CurrentDir string   `yaml:"current_dir,omitempty"`
	Stdin      string   `yaml:"stdin,omitempty"`
	Stdout     string   `yaml:"stdout,omitempty"`
	Stderr     string   `yaml:"stderr,omitempty"`
	// MeasureTime defaults to true when omitted.
	MeasureTime *bool  `yaml:"measure_time,omitempty"`
	OS          string `yaml:"os,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w (run `seedrun init` first)", path, err)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	obj, err := runner.ParseObjective(cfg.Problem.Objective)
	if err != nil {
		return fmt.Errorf("problem.objective: %w", err)
	}
	cfg.Problem.Objective = obj.String()
	if strings.TrimSpace(cfg.Problem.ScoreRegex) == "" {
		return fmt.Errorf("problem.score_regex is required")
	}
	if cfg.Test.Threads < 0 {
		return fmt.Errorf("test.threads must not be negative")
	}
	if cfg.Test.OutDir == "" {
		cfg.Test.OutDir = defaultOutDir
	}
	for i, s := range cfg.Test.CompileSteps {
		if s.Program == "" {
			return fmt.Errorf("compile step %d: program is required", i)
		}
	}
	if len(cfg.Test.TestSteps) == 0 {
		return fmt.Errorf("no test steps defined")
	}
	for i, s := range cfg.Test.TestSteps {
		if s.Program == "" {
			return fmt.Errorf("test step %d: program is required", i)
		}
	}
	return nil
}

// Objective returns the parsed problem objective. Load has already
// validated it.
func (c *Config) Objective() runner.Objective {
	obj, _ := runner.ParseObjective(c.Problem.Objective)
	return obj
}

// RunConfig converts the file representation into what the engine runs.
func (c *Config) RunConfig() runner.RunConfig {
	rc := runner.RunConfig{
		ScoreRegex: c.Problem.ScoreRegex,
		StartSeed:  c.Test.StartSeed,
		EndSeed:    c.Test.EndSeed,
		Threads:    c.Test.Threads,
		Objective:  c.Objective(),
	}
	for _, s := range c.Test.CompileSteps {
		rc.CompileSteps = append(rc.CompileSteps, runner.CompileStep{
			Program: s.Program,
			Args:    s.Args,
			Dir:     s.CurrentDir,
			OS:      s.OS,
		})
	}
	for _, s := range c.Test.TestSteps {
		rc.TestSteps = append(rc.TestSteps, runner.TestStep{
			Program:     s.Program,
			Args:        s.Args,
			Dir:         s.CurrentDir,
			Stdin:       s.Stdin,
			Stdout:      s.Stdout,
			Stderr:      s.Stderr,
			MeasureTime: s.MeasureTime == nil || *s.MeasureTime,
			OS:          s.OS,
		})
	}
	return rc
}
