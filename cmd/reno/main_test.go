package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/renolabs/reno/internal/catalog"
	"github.com/renolabs/reno/internal/note"
	"github.com/renolabs/reno/internal/session"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	content := `
[contacts]
names = ["Ada Lovelace"]

[services]
names = ["billing-api", "ingest-worker"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exportedNote(t *testing.T, path string) string {
	t.Helper()
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(cat)
	if err := sess.Mutate(func(r *note.Release) error {
		return r.AddService("billing-api")
	}); err != nil {
		t.Fatal(err)
	}
	if err := sess.Mutate(func(r *note.Release) error {
		return r.SetRisk("billing-api", note.RiskHigh)
	}); err != nil {
		t.Fatal(err)
	}
	out, err := sess.Export()
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeCommandAcceptsValidString(t *testing.T) {
	path := writeCatalog(t)
	transport := exportedNote(t, path)
	out, err := runCommand(t, "decode", "--catalog", path, transport)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "ok: 1 service(s)") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDecodeCommandRejectsGarbage(t *testing.T) {
	path := writeCatalog(t)
	if _, err := runCommand(t, "decode", "--catalog", path, "not-valid-base-payload!!"); err == nil {
		t.Fatal("garbage transport string must fail")
	}
}

func TestShowCommandRendersNote(t *testing.T) {
	path := writeCatalog(t)
	transport := exportedNote(t, path)
	out, err := runCommand(t, "show", "--catalog", path, transport)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"billing-api", "High"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestInitWritesLoadableCatalog(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	if _, err := runCommand(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := catalog.Load(filepath.Join(dir, catalog.DefaultFile)); err != nil {
		t.Fatalf("generated catalog must load: %v", err)
	}
	// Running init again must refuse to clobber the file.
	if _, err := runCommand(t, "init"); err == nil {
		t.Fatal("second init must fail")
	}
}

func TestMissingCatalogGivesGuidance(t *testing.T) {
	_, err := runCommand(t, "decode", "--catalog", filepath.Join(t.TempDir(), "nope.toml"), "AAAA")
	if err == nil || !strings.Contains(err.Error(), "reno init") {
		t.Fatalf("missing catalog error should mention reno init, got: %v", err)
	}
}
