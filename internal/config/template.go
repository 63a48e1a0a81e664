package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/seedrun/internal/runner"
)

// Languages lists the solver languages init has a template for.
var Languages = []string{"rust", "cpp", "python", "go"}

// ErrExists is returned by Write when the target file is already present.
var ErrExists = errors.New("setting file already exists")

type InitOptions struct {
	ProblemName string
	Objective   runner.Objective
	Lang        string
	Interactive bool
}

// Template builds the default project file for a problem. Inputs are read
// from tools/in and outputs go to seedrun/out and seedrun/err, keyed by
// the zero-padded seed.
func Template(opts InitOptions) (*Config, error) {
	if opts.ProblemName == "" {
		return nil, fmt.Errorf("problem name is required")
	}
	compile, solver, err := languageSteps(opts.Lang, opts.ProblemName)
	if err != nil {
		return nil, err
	}

	solverStep := TestStep{
		Program: solver[0],
		Args:    solver[1:],
		Stdin:   "./tools/in/{SEED04}.txt",
		Stdout:  "./seedrun/out/{SEED04}.txt",
		Stderr:  "./seedrun/err/{SEED04}.txt",
	}
	if opts.Interactive {
		tester := "./tools/target/release/tester"
		if runtime.GOOS == "windows" {
			tester += ".exe"
		}
		solverStep.Args = append([]string{solverStep.Program}, solverStep.Args...)
		solverStep.Program = tester
	}

	noTime := false
	vis := TestStep{
		Program:     "./tools/target/release/vis",
		Args:        []string{"./tools/in/{SEED04}.txt", "./seedrun/out/{SEED04}.txt"},
		MeasureTime: &noTime,
	}

	cfg := &Config{
		General: General{Version: "0.1.0"},
		Problem: Problem{
			ProblemName: opts.ProblemName,
			Objective:   opts.Objective.String(),
			ScoreRegex:  defaultScoreRegex,
		},
		Test: Test{
			StartSeed:    0,
			EndSeed:      100,
			Threads:      0,
			OutDir:       defaultOutDir,
			CompileSteps: compile,
			TestSteps:    []TestStep{solverStep},
		},
	}
	if !opts.Interactive {
		cfg.Test.TestSteps = append(cfg.Test.TestSteps, vis)
	}
	return cfg, nil
}

func languageSteps(lang, problem string) ([]CompileStep, []string, error) {
	switch lang {
	case "rust":
		return []CompileStep{
			{Program: "cargo", Args: []string{"build", "--release"}},
		}, []string{fmt.Sprintf("./target/release/%s", problem)}, nil
	case "cpp":
		return []CompileStep{
			{Program: "g++", Args: []string{"-std=c++20", "-O2", "-o", "./a.out", "./main.cpp"}},
		}, []string{"./a.out"}, nil
	case "python":
		return nil, []string{"python3", "./main.py"}, nil
	case "go":
		return []CompileStep{
			{Program: "go", Args: []string{"build", "-o", "./solver", "."}},
		}, []string{"./solver"}, nil
	}
	return nil, nil, fmt.Errorf("unsupported language %q (choose from %v)", lang, Languages)
}

// Write marshals cfg to path. An existing file is only replaced when force
// is set.
func Write(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// ValidLanguage reports whether init has a template for lang.
func ValidLanguage(lang string) bool {
	return slices.Contains(Languages, lang)
}
