package cache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/markup"
)

// Key identifies one extraction of one file.
type Key struct {
	Path string
	// ContentHash is ContentHash of the XML bytes.
	ContentHash string
	// Options is OptionsKey of the extraction options.
	Options string
}

// ContentHash returns the hex sha256 of an input file's bytes.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// OptionsKey fingerprints the extraction options that change the IR.
func OptionsKey(opts extract.Options) string {
	return string(opts.FailurePolicy) + "\x00" + opts.ContainerKeyword + "\x00" + opts.DisambiguationMarker
}

// Lookup returns the cached IR for key. The boolean is false on a miss,
// including when the file is cached under a different hash or options.
func (c *Cache) Lookup(key Key) (*extract.HeaderDocument, bool, error) {
	var ir string
	err := c.db.QueryRow(`
		SELECT ir FROM documents
		WHERE file_path = ? AND content_hash = ? AND options_key = ?`,
		key.Path, key.ContentHash, key.Options).Scan(&ir)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "lookup %s", key.Path)
	}

	var doc extract.HeaderDocument
	if err := json.Unmarshal([]byte(ir), &doc); err != nil {
		return nil, false, errors.Wrapf(err, "decode cached IR for %s", key.Path)
	}
	return &doc, true, nil
}

// Store records the IR for key, replacing any earlier entry for the path.
// Documents with skipped declarations are not cached, so their problems are
// reported again on the next run.
func (c *Cache) Store(key Key, doc *extract.HeaderDocument) error {
	if len(doc.Skipped) > 0 {
		return nil
	}
	ir, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encode IR for %s", key.Path)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO documents (file_path, content_hash, options_key, ir, extracted_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.Path, key.ContentHash, key.Options, string(ir), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "store %s", key.Path)
	}
	return nil
}

// Delete removes a file from the cache.
func (c *Cache) Delete(path string) error {
	if _, err := c.db.Exec("DELETE FROM documents WHERE file_path = ?", path); err != nil {
		return errors.Wrapf(err, "delete %s", path)
	}
	return nil
}

// ExtractFile extracts a HeaderDoc XML file through the cache. A nil Cache
// extracts directly. The boolean reports a cache hit. Cache read and write
// failures are logged and never fail the extraction.
func (c *Cache) ExtractFile(path string, opts extract.Options) (*extract.HeaderDocument, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}

	var key Key
	if c != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		key = Key{Path: abs, ContentHash: ContentHash(content), Options: OptionsKey(opts)}
		doc, ok, err := c.Lookup(key)
		if err != nil {
			logger.Logger.Warnw("cache lookup failed", "file", path, "error", err)
		} else if ok {
			logger.Logger.Debugw("cache hit", "file", path)
			return doc, true, nil
		}
	}

	doc, err := markup.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, false, errors.Wrapf(err, "parsing %s", path)
	}
	doc.Path = path

	out, err := extract.Extract(doc, opts)
	if err != nil {
		return nil, false, err
	}

	if c != nil {
		if err := c.Store(key, out); err != nil {
			logger.Logger.Warnw("cache store failed", "file", path, "error", err)
		}
	}
	return out, false, nil
}
