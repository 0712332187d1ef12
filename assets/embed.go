// assets/embed.go
//
// Files compiled into the binary: the default word list (used when no
// WORDS_FILE/WORDS_DB is configured) and the SQLite migrations.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

// Words opens the embedded default word list.
func Words() (fs.File, error) {
	return FS.Open("words.txt")
}

// Migrations returns the embedded SQL migrations rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is part of the embed pattern; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
