package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points the command globals at an empty config directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(envLibDirs, "")
	cfg = Config{LogLevel: "warn", LogFormat: "text", dir: t.TempDir()}
	flagLibDirs = nil
}

func requireCompile(t *testing.T, body string, data ...string) *compiled {
	t.Helper()
	isolate(t)
	path := writeFile(t, t.TempDir(), "page.ftd.yml", body)
	c, err := compile(path, data)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return c
}
