package words

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/SweetyAngel/egerus/assets"
	"github.com/SweetyAngel/egerus/internal/config"
	"github.com/SweetyAngel/egerus/internal/db"
)

var (
	mu     sync.RWMutex
	loaded []Entry
	origin string
)

// Init loads the configured word list.
//
//  1. WORDS_DB set: open and migrate the database; if its table is empty,
//     seed it from WORDS_FILE (or the embedded list), then read it.
//  2. WORDS_FILE set: read that file.
//  3. Otherwise: the embedded default list.
//
// An unreachable or empty source is fatal for the game; the error wraps
// ErrNoWords in the empty case.
func Init(ctx context.Context, cfg config.Config) ([]Entry, error) {
	src, name, closeFn, err := pick(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	list, err := LoadFrom(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s words: %w", name, err)
	}

	mu.Lock()
	loaded, origin = list, name
	mu.Unlock()
	log.Info().Str("source", name).Int("count", len(list)).Msg("word list loaded")
	return list, nil
}

func pick(ctx context.Context, cfg config.Config) (Source, string, func(), error) {
	var fallback Source = EmbeddedSource{}
	if cfg.WordsFile != "" {
		fallback = FileSource{Path: cfg.WordsFile}
	}

	if cfg.WordsDB == "" {
		if cfg.WordsFile != "" {
			return fallback, "file", func() {}, nil
		}
		return fallback, "embedded", func() {}, nil
	}

	conn, err := db.Open(cfg.WordsDB)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open words db: %w", err)
	}
	closeFn := func() { _ = conn.Close() }
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		closeFn()
		return nil, "", nil, fmt.Errorf("migrate words db: %w", err)
	}
	src := SQLiteSource{DB: conn}
	if n, err := src.Count(ctx); err == nil && n == 0 {
		seed, err := fallback.Load(ctx)
		if err != nil {
			closeFn()
			return nil, "", nil, fmt.Errorf("seed words db: %w", err)
		}
		if _, err := src.Import(ctx, seed); err != nil {
			closeFn()
			return nil, "", nil, fmt.Errorf("seed words db: %w", err)
		}
	}
	return src, "sqlite", closeFn, nil
}

// Stats reports the loaded word count and where it came from.
func Stats() (count int, source string) {
	mu.RLock()
	defer mu.RUnlock()
	return len(loaded), origin
}
