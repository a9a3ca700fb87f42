package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
[[categories]]
id = "compras"
label = "Compras"

[[categories]]
id = "rrhh"
label = "Recursos Humanos"

[[blocks]]
name = "demo"
category = "compras"
required_roles = ["compras"]

  [blocks.panel]
  url = "/panels/demo"
  title = "Demo"

[[blocks]]
name = "report"
category = "rrhh"
hidden = true

  [blocks.panel]
  url = "/panels/report"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cat, err := Load(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Categories) != 2 || len(cat.Blocks) != 2 {
		t.Fatalf("got %d categories, %d blocks", len(cat.Categories), len(cat.Blocks))
	}
	if cat.Blocks[0].CategoryID != "compras" {
		t.Errorf("block category = %q", cat.Blocks[0].CategoryID)
	}
	if cat.Blocks[0].Panel.URL != "/panels/demo" {
		t.Errorf("panel url = %q", cat.Blocks[0].Panel.URL)
	}
	if !cat.Blocks[1].Hidden {
		t.Error("second block should be hidden")
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte(`
[[categories]]
id = "a"
label = "A"
[[categories]]
id = "a"
label = "A again"
`))
	if err == nil {
		t.Fatal("expected duplicate category error")
	}

	_, err = Parse([]byte(`
[[blocks]]
name = "x"
[[blocks]]
name = "x"
`))
	if err == nil {
		t.Fatal("expected duplicate block error")
	}
}

func TestParseRejectsEmptyIdentifiers(t *testing.T) {
	if _, err := Parse([]byte("[[categories]]\nlabel = \"A\"\n")); err == nil {
		t.Fatal("expected empty category id error")
	}
	if _, err := Parse([]byte("[[blocks]]\ncategory = \"a\"\n")); err == nil {
		t.Fatal("expected empty block name error")
	}
}

func TestSnapshotReload(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	snap, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := len(snap.Current().Blocks); got != 2 {
		t.Fatalf("got %d blocks", got)
	}

	// A bad reload keeps the previous snapshot.
	if err := os.WriteFile(path, []byte("[[categories]]\nlabel = \"broken\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := snap.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if got := len(snap.Current().Blocks); got != 2 {
		t.Errorf("failed reload must not replace snapshot, got %d blocks", got)
	}

	// A good reload swaps the whole snapshot.
	if err := os.WriteFile(path, []byte("[[blocks]]\nname = \"solo\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := snap.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := len(snap.Current().Blocks); got != 1 {
		t.Errorf("got %d blocks after reload, want 1", got)
	}
}
