package csvdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scrub/internal/table"
)

func TestStoreTable(t *testing.T) {
	dir := t.TempDir()
	repo, err := Open(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	tbl := table.New(2)
	v := "x"
	if err := tbl.SetColumn("a", table.Column{&v, nil}); err != nil {
		t.Fatal(err)
	}

	if err := repo.StoreTable(context.Background(), "clean_batch_001", tbl, ""); err != nil {
		t.Fatalf("StoreTable: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "out", "clean_batch_001.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "a\nx\n\n"; string(got) != want {
		t.Fatalf("file = %q, want %q", got, want)
	}

	// Storing again replaces the file.
	if err := repo.StoreTable(context.Background(), "clean_batch_001", tbl, "file_index"); err != nil {
		t.Fatalf("StoreTable replace: %v", err)
	}
	got, err = os.ReadFile(filepath.Join(dir, "out", "clean_batch_001.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "file_index,a\n0,x\n1,\n"; string(got) != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir entries = %d, want 1", len(entries))
	}
}

func TestOpenEmptyDir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("empty dir: want error")
	}
}
