package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultedPath(t *testing.T) {
	if got := defaultedPath(""); got != ".sgrep.yaml" {
		t.Errorf("got %q, want .sgrep.yaml", got)
	}
	if got := defaultedPath("custom.yaml"); got != "custom.yaml" {
		t.Errorf("got %q, want custom.yaml", got)
	}
}

func TestInitConfigurationFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sgrep.yaml")

	if err := initConfigurationFile(path); err != nil {
		t.Fatalf("initConfigurationFile: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(content) == 0 {
		t.Errorf("want non-empty default config file")
	}
}

func TestMatchesGlob(t *testing.T) {
	ok, err := matchesGlob("vendor", "vendor/foo.go")
	if err != nil {
		t.Fatalf("matchesGlob: %v", err)
	}
	if !ok {
		t.Errorf("want vendor/foo.go to match vendor")
	}

	ok, err = matchesGlob("vendor", "src/foo.go")
	if err != nil {
		t.Fatalf("matchesGlob: %v", err)
	}
	if ok {
		t.Errorf("want src/foo.go to not match vendor")
	}
}

func TestFilterIgnored(t *testing.T) {
	paths := []string{"a.go", "vendor/b.go", "c.go"}
	got := filterIgnored(paths, []string{"vendor"})
	if len(got) != 2 {
		t.Fatalf("got %v, want a.go and c.go", got)
	}
	for _, p := range got {
		if p == "vendor/b.go" {
			t.Errorf("vendor/b.go should have been filtered out")
		}
	}
}

func TestResolvePatternLiteral(t *testing.T) {
	old := usePatternName
	usePatternName = ""
	defer func() { usePatternName = old }()

	pattern, paths, err := resolvePattern([]string{"f($X)", "a.go", "b.go"})
	if err != nil {
		t.Fatalf("resolvePattern: %v", err)
	}
	if string(pattern) != "f($X)" {
		t.Errorf("got pattern %q", pattern)
	}
	if len(paths) != 2 || paths[0] != "a.go" || paths[1] != "b.go" {
		t.Errorf("got paths %v", paths)
	}
}

func TestResolvePatternNamed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sgrep.yaml")
	content := "patterns:\n  - name: todo\n    pattern: \"TODO\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	oldCfgFile, oldUse := cfgFile, usePatternName
	cfgFile, usePatternName = path, "todo"
	defer func() { cfgFile, usePatternName = oldCfgFile, oldUse }()

	pattern, paths, err := resolvePattern([]string{"a.go"})
	if err != nil {
		t.Fatalf("resolvePattern: %v", err)
	}
	if string(pattern) != "TODO" {
		t.Errorf("got pattern %q, want TODO", pattern)
	}
	if len(paths) != 1 || paths[0] != "a.go" {
		t.Errorf("got paths %v, want [a.go]", paths)
	}
}

func TestResolvePatternNamedMissing(t *testing.T) {
	oldUse := usePatternName
	usePatternName = "does-not-exist"
	defer func() { usePatternName = oldUse }()

	if _, _, err := resolvePattern([]string{"a.go"}); err == nil {
		t.Fatalf("want error for an unknown pattern name")
	}
}
