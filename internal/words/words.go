// internal/words/words.go
//
// Word source for the quiz.
//
// Responsibilities:
//   - Parse the "word" / "word;context" line format.
//   - Load entries from a file, the embedded default list, or SQLite.
//   - Pick the configured source at startup (Init).
//
// Record format:
//   - One record per line; blank lines are ignored.
//   - "word;context" splits on the first ';'. Both fields are trimmed.
//   - The stressed vowel is the single upper-case vowel of word. Entries are
//     not validated here; the engine skips malformed ones when drawing.

package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SweetyAngel/egerus/assets"
)

// ErrNoWords means the source loaded but produced no entries.
var ErrNoWords = errors.New("words: word list is empty")

// Entry is one quiz word with an optional disambiguating context.
type Entry struct {
	Word    string `json:"word"`
	Context string `json:"context,omitempty"`
}

// Source supplies the word list.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
}

// Parse reads records from r.
func Parse(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if e, ok := parseLine(sc.Text()); ok {
			out = append(out, e)
		}
	}
	return out, sc.Err()
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) []Entry {
	out, _ := Parse(strings.NewReader(s))
	return out
}

func parseLine(line string) (Entry, bool) {
	if strings.TrimSpace(line) == "" {
		return Entry{}, false
	}
	word, ctx, _ := strings.Cut(line, ";")
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}, false
	}
	return Entry{Word: word, Context: strings.TrimSpace(ctx)}, true
}

// FileSource reads a word list from disk.
type FileSource struct{ Path string }

func (s FileSource) Load(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", s.Path, err)
	}
	defer f.Close()
	return Parse(f)
}

// EmbeddedSource reads the word list compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(ctx context.Context) ([]Entry, error) {
	f, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("words: embedded list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// LoadFrom loads src and rejects an empty result with ErrNoWords.
func LoadFrom(ctx context.Context, src Source) ([]Entry, error) {
	list, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoWords
	}
	return list, nil
}
