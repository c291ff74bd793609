package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	mustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestImportCommandWritesNotesAndSummary(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Takeout", "Keep")
	vault := filepath.Join(root, "vault")

	mustWriteFile(t, filepath.Join(input, "Test.json"), `{"title":"Test","color":"BLUE","isPinned":true,`+
		`"isArchived":false,"isTrashed":false,"textContent":"Hello",`+
		`"createdTimestampUsec":1000000,"userEditedTimestampUsec":2000000}`)
	mustWriteFile(t, filepath.Join(input, "Test.html"), "<html></html>")
	mustWriteFile(t, filepath.Join(input, "broken.json"), "{")

	stdout, stderr, err := runCLI(t, "import", "--plain", "--vault", vault, filepath.Join(root, "Takeout"))
	if err != nil {
		t.Fatalf("import: %v\n%s", err, stderr)
	}

	if !strings.Contains(stdout, "imported 1, skipped 1, failed 1 of 3 files") {
		t.Fatalf("unexpected summary %q", stdout)
	}
	if !strings.Contains(stderr, "Error broken.json") {
		t.Fatalf("expected plain log line for broken.json, got:\n%s", stderr)
	}

	content, err := os.ReadFile(filepath.Join(vault, "Keep Imports", "Test.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if string(content) != "#Keep/Color/BLUE #Keep/Pinned\n\nHello\n" {
		t.Fatalf("unexpected note content %q", content)
	}
}

func TestSettingsCommandsPersistChanges(t *testing.T) {
	vault := t.TempDir()

	if _, _, err := runCLI(t, "settings", "set", "--vault", vault, "folderNames.notes", "Inbox"); err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if _, _, err := runCLI(t, "settings", "preset", "--vault", vault, "linux"); err != nil {
		t.Fatalf("settings preset: %v", err)
	}

	stdout, _, err := runCLI(t, "settings", "show", "--vault", vault)
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(stdout, `"notes": "Inbox"`) || !strings.Contains(stdout, `"invalidCharFilter": "linux"`) {
		t.Fatalf("unexpected settings:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(vault, ".obsidian", "plugins", "keep-import", "data.json")); err != nil {
		t.Fatalf("expected settings file in vault: %v", err)
	}

	if _, _, err := runCLI(t, "settings", "reset", "--vault", vault); err != nil {
		t.Fatalf("settings reset: %v", err)
	}
	stdout, _, err = runCLI(t, "settings", "show", "--vault", vault)
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(stdout, `"notes": "Keep Imports"`) {
		t.Fatalf("expected defaults after reset:\n%s", stdout)
	}
}

func TestSettingsSetRejectsUnknownKey(t *testing.T) {
	_, _, err := runCLI(t, "settings", "set", "--vault", t.TempDir(), "nope", "1")
	if err == nil || !strings.Contains(err.Error(), "unknown settings key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
