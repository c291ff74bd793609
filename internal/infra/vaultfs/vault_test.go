package vaultfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
	"github.com/sleroq/keep-to-obsidian/internal/infra/takeout"
)

func TestVaultCreateFileIsExclusive(t *testing.T) {
	ctx := context.Background()
	v := New(afero.NewMemMapFs())

	if err := v.CreateFolder(ctx, "Keep Imports"); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := v.CreateFile(ctx, "Keep Imports/a.md", "one"); err != nil {
		t.Fatalf("create file: %v", err)
	}
	_, err := v.CreateFile(ctx, "Keep Imports/a.md", "two")
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist, got %v", err)
	}

	got, err := afero.ReadFile(v.Fs(), filepath.FromSlash("Keep Imports/a.md"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "one" {
		t.Fatalf("expected original content to survive, got %q", got)
	}
}

func TestVaultAppendsAndSetsTimes(t *testing.T) {
	ctx := context.Background()
	v := New(afero.NewMemMapFs())

	h, err := v.CreateFile(ctx, "note.md", "")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	for _, part := range []string{"#tag", "\n\nbody\n"} {
		if err := v.AppendToFile(ctx, h, part); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	created := time.UnixMilli(1_600_000_000_000)
	modified := time.UnixMilli(1_700_000_000_000)
	if err := v.SetFileTimestamps(ctx, h, created, modified); err != nil {
		t.Fatalf("set times: %v", err)
	}

	got, err := afero.ReadFile(v.Fs(), "note.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "#tag\n\nbody\n" {
		t.Fatalf("unexpected content %q", got)
	}
	info, err := v.Fs().Stat("note.md")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(modified) {
		t.Fatalf("expected mtime %v, got %v", modified, info.ModTime())
	}
}

func TestVaultRootAlwaysExists(t *testing.T) {
	v := New(afero.NewMemMapFs())
	ok, err := v.FolderExists(context.Background(), "")
	if err != nil || !ok {
		t.Fatalf("expected vault root to exist, got %v, %v", ok, err)
	}
	ok, err = v.FolderExists(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected missing folder, got %v, %v", ok, err)
	}
}

func TestVaultOnDiskImportAppliesKeepTimestamps(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := Open(root)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}

	body := `{"title":"Test","color":"BLUE","isPinned":true,"isArchived":false,"isTrashed":false,` +
		`"textContent":"Hello","createdTimestampUsec":1700000000000000,"userEditedTimestampUsec":1730000000000000}`
	files := []takeout.File{
		takeout.NewFile("Test.json", "application/json", []byte(body)),
		takeout.NewFile("Test.json", "application/json", []byte(body)),
	}

	imp := importer.New(v, settings.Defaults(), zap.NewNop())
	if err := imp.Import(context.Background(), files); err != nil {
		t.Fatalf("import: %v", err)
	}
	if p := imp.LatestProgress(); p.Success != 2 {
		t.Fatalf("expected two imported notes, got %+v", p)
	}

	notePath := filepath.Join(root, "Keep Imports", "Test.md")
	content, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.HasPrefix(string(content), "#Keep/Color/BLUE #Keep/Pinned\n\nHello") {
		t.Fatalf("unexpected note content %q", content)
	}
	info, err := os.Stat(notePath)
	if err != nil {
		t.Fatalf("stat note: %v", err)
	}
	if got := info.ModTime().UTC().Unix(); got != 1730000000 {
		t.Fatalf("expected note mtime %d, got %d", 1730000000, got)
	}
	if _, err := os.Stat(filepath.Join(root, "Keep Imports", "Test (2).md")); err != nil {
		t.Fatalf("expected collision-safe second note, got error: %v", err)
	}
}
