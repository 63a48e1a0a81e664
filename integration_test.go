//go:build integration

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/signalnine/seedrun/cmd"
	"github.com/signalnine/seedrun/internal/config"
	"github.com/signalnine/seedrun/internal/result"
)

// createFixtureRepo creates a minimal contest workspace under git with a
// solver script and one input file per seed.
func createFixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test"},
		{"git", "config", "tag.gpgSign", "false"},
	}
	for _, args := range cmds {
		c := exec.Command(args[0], args[1:]...)
		c.Dir = dir
		if out, err := c.CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}
	os.MkdirAll(filepath.Join(dir, "tools", "in"), 0o755)
	for _, seed := range []string{"0000", "0001", "0002", "0003"} {
		os.WriteFile(filepath.Join(dir, "tools", "in", seed+".txt"), []byte("1"+seed+"\n"), 0o644)
	}
	os.WriteFile(filepath.Join(dir, "solve.sh"), []byte("#!/bin/sh\nread n\necho \"Score = $n\"\n"), 0o755)
	os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("seedrun/\n"), 0o644)

	cfg := &config.Config{
		General: config.General{Version: "0.1.0"},
		Problem: config.Problem{
			ProblemName: "fixture",
			Objective:   "max",
			ScoreRegex:  `(?m)^\s*Score\s*=\s*(?P<score>\d+)\s*$`,
		},
		Test: config.Test{
			EndSeed: 4,
			OutDir:  "seedrun",
			TestSteps: []config.TestStep{{
				Program: "./solve.sh",
				Stdin:   "./tools/in/{SEED04}.txt",
				Stdout:  "./seedrun/out/{SEED04}.txt",
			}},
		},
	}
	if err := config.Write(filepath.Join(dir, config.DefaultPath), cfg, false); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"git", "add", "."},
		{"git", "commit", "-m", "initial"},
	} {
		c := exec.Command(args[0], args[1:]...)
		c.Dir = dir
		if out, err := c.CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}
	return dir
}

func TestTaggedRunIntegration(t *testing.T) {
	if os.Getenv("SEEDRUN_INTEGRATION_TESTS") == "" {
		t.Skip("set SEEDRUN_INTEGRATION_TESTS=1 to run integration tests")
	}
	repo := createFixtureRepo(t)
	t.Chdir(repo)
	os.WriteFile("solve.sh", []byte("#!/bin/sh\nread n\necho \"Score = $((n * 2))\"\n"), 0o755)

	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--tag=doubled", "-c", "double everything"})
	if err := root.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Accepted               : 4 / 4") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	show := exec.Command("git", "show", "seedrun/doubled:solve.sh")
	snap, err := show.Output()
	if err != nil {
		t.Fatalf("tag missing: %v", err)
	}
	if !strings.Contains(string(snap), "n * 2") {
		t.Errorf("tag does not hold the modified solver:\n%s", snap)
	}

	runs, err := result.ListRunResults("seedrun", 0, zerolog.Nop())
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %d (%v)", len(runs), err)
	}
	if runs[0].TagName == nil || *runs[0].TagName != "seedrun/doubled" {
		t.Errorf("run not linked to its tag: %v", runs[0].TagName)
	}
	if runs[0].TotalScore != 2*(10000+10001+10002+10003) {
		t.Errorf("total score: got %d", runs[0].TotalScore)
	}
	out0, err := os.ReadFile(filepath.Join("seedrun", "out", "0000.txt"))
	if err != nil || string(out0) != "Score = 20000\n" {
		t.Errorf("solver output not saved: %q (%v)", out0, err)
	}

	root = cmd.NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"prune"})
	if err := root.Execute(); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if tags, _ := exec.Command("git", "tag", "--list").Output(); len(bytes.TrimSpace(tags)) != 0 {
		t.Errorf("tags left after prune: %s", tags)
	}
}
