package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadScenarioDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scenario.yaml"), []byte("expect:\n  stdout: \"25\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScenario(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != "run" || s.File != "main.jsl" || s.Dir != dir {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.Expect.Stdout == nil || *s.Expect.Stdout != "25" {
		t.Errorf("got stdout expectation %v", s.Expect.Stdout)
	}
	if s.Expect.Stderr != nil {
		t.Error("unset stderr should stay nil")
	}
}

func TestLoadScenarioRejectsUnknown(t *testing.T) {
	for content, msg := range map[string]string{
		"mode: debug\n":    "unknown mode",
		"expect:\n  out: x\n": "field out not found",
	} {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "scenario.yaml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadScenario(dir)
		if err == nil || !strings.Contains(err.Error(), msg) {
			t.Errorf("%q: got %v, want error containing %q", content, err, msg)
		}
	}
}

func TestListScenariosSkipsIncomplete(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b", "a", "empty"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"a", "b"} {
		if err := os.WriteFile(filepath.Join(root, name, "scenario.yaml"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	dirs, err := ListScenarios(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 || filepath.Base(dirs[0]) != "a" || filepath.Base(dirs[1]) != "b" {
		t.Errorf("got %v", dirs)
	}
}
