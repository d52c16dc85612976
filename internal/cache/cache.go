// Package cache provides SQLite-backed caching of extracted header IR.
// The cache is stored in .doxir/cache.db. An entry is reused only when both
// the XML content hash and the extraction options match, so editing a
// header or changing the container keyword forces a fresh extraction.
package cache

import (
	"database/sql"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// FileName is the cache database file inside the .doxir directory.
const FileName = "cache.db"

// Cache manages the .doxir/cache.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in the given directory.
// It initializes the schema if the database is new.
func Open(dir string) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open cache db")
	}

	// WAL lets parse workers read while another stores.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set busy timeout")
	}

	cache := &Cache{db: db, dbPath: dbPath}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes every cached document.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM documents"); err != nil {
		return errors.Wrap(err, "clear cache")
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats describes cache contents.
type Stats struct {
	Documents int64 `yaml:"documents" json:"documents"`
	// IRBytes is the total size of the stored IR JSON.
	IRBytes int64  `yaml:"ir_bytes" json:"ir_bytes"`
	Path    string `yaml:"path" json:"path"`
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	stats := Stats{Path: c.dbPath}
	err := c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(ir)), 0) FROM documents").
		Scan(&stats.Documents, &stats.IRBytes)
	if err != nil {
		return nil, errors.Wrap(err, "count documents")
	}
	return &stats, nil
}
