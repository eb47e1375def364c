package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveToFileSortsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white_openings.txt")

	lines := []string{"e4 e5 Nf3", "c4 e5", "d4 d5", "e4 c5"}
	if err := SaveToFile(path, lines); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	want := "c4 e5\nd4 d5\ne4 c5\ne4 e5 Nf3\n"
	if string(got) != want {
		t.Fatalf("expected %q, got %q", want, string(got))
	}
}

func TestSaveToFileKeepsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")

	if err := SaveToFile(path, []string{"e4 c5", "e4 c5"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(got) != "e4 c5\ne4 c5\n" {
		t.Fatalf("duplicate lines must be preserved, got %q", string(got))
	}
}

func TestSaveToFileDoesNotReorderCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")

	lines := []string{"e4", "c4"}
	if err := SaveToFile(path, lines); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if lines[0] != "e4" || lines[1] != "c4" {
		t.Fatalf("caller slice was reordered: %v", lines)
	}
}
