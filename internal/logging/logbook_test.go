package logging

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reno.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	book.Warn("watch out")
	book.Error("it broke")

	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("tail = %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "entry-4") {
		t.Fatalf("unexpected first tail line: %s", lines[0])
	}
	if !strings.Contains(lines[1], "WARN") || !strings.Contains(lines[1], "watch out") {
		t.Fatalf("unexpected warn line: %s", lines[1])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("unexpected error line: %s", lines[2])
	}
}

func TestTailOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reno.log")
	book, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := book.Tail(10); lines != nil {
		t.Fatalf("tail before any append = %v, want nil", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if book.Path() != "" {
		t.Fatal("nil logbook path should be empty")
	}
	if book.Tail(5) != nil {
		t.Fatal("nil logbook tail should be nil")
	}
}
