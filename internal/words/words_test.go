package words

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SweetyAngel/egerus/internal/config"
	"github.com/SweetyAngel/egerus/internal/stress"
)

func TestParse(t *testing.T) {
	in := "зАмок;  старинная крепость \n\n   \n  замОк\nмукА;\n;сирота\n"
	got := ParseString(in)
	want := []Entry{
		{Word: "зАмок", Context: "старинная крепость"},
		{Word: "замОк"},
		{Word: "мукА"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseSplitsOnFirstSemicolon(t *testing.T) {
	got := ParseString("ворОта;въезд; во двор")
	if len(got) != 1 || got[0].Context != "въезд; во двор" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestEmbeddedListIsWellFormed(t *testing.T) {
	list, err := LoadFrom(context.Background(), EmbeddedSource{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, e := range list {
		if _, ok := stress.Locate(e.Word); !ok {
			t.Errorf("embedded word %q has no stress mark", e.Word)
		}
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("тОрты\nбАнты;мн. ч.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := LoadFrom(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list) != 2 || list[1].Context != "мн. ч." {
		t.Fatalf("unexpected: %+v", list)
	}
}

func TestLoadFromEmptyIsErrNoWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(context.Background(), FileSource{Path: path}); !errors.Is(err, ErrNoWords) {
		t.Fatalf("expected ErrNoWords, got %v", err)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.txt")}.Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestInitSeedsDatabaseOnce(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(file, []byte("тОрты\nшАрфы\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{WordsDB: filepath.Join(dir, "words.db"), WordsFile: file}

	list, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 seeded words, got %d", len(list))
	}
	if n, src := Stats(); n != 2 || src != "sqlite" {
		t.Fatalf("stats = (%d, %q)", n, src)
	}

	// A second start must not re-seed: the file changes, the table does not.
	if err := os.WriteFile(file, []byte("крАны\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err = Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("init again: %v", err)
	}
	if len(list) != 2 || list[0].Word != "тОрты" {
		t.Fatalf("unexpected reload: %+v", list)
	}
}

func TestInitFallsBackToEmbedded(t *testing.T) {
	list, err := Init(context.Background(), config.Config{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected embedded words")
	}
	if _, src := Stats(); src != "embedded" {
		t.Fatalf("source = %q", src)
	}
}
