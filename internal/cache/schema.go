package cache

// schemaSQL defines the SQLite schema for the cache database.
// Tables:
//   - documents: extracted IR per input file, keyed by path and valid for
//     one content hash and one options fingerprint
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    file_path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    options_key TEXT NOT NULL,
    ir TEXT NOT NULL,
    extracted_at TEXT NOT NULL
);
`

// initSchema creates the database tables if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
