package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sitescout/sitescout/internal/types"
)

// SQLiteIndex is an optional queryable index of crawled pages and their
// links, kept alongside the flat-file artifacts.
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex opens (and if needed creates) the page index at dbPath.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		status_code INTEGER,
		depth INTEGER NOT NULL,
		load_time_ms INTEGER,
		word_count INTEGER,
		content_hash TEXT,
		UNIQUE (crawl_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_crawl ON pages(crawl_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON pages(content_hash);

	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id TEXT NOT NULL,
		source_url TEXT NOT NULL,
		target_url TEXT NOT NULL,
		anchor_text TEXT,
		is_internal INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_links_source ON links(crawl_id, source_url);
	CREATE INDEX IF NOT EXISTS idx_links_target ON links(crawl_id, target_url);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// IndexCrawl stores every page and link of a finished crawl.
func (s *SQLiteIndex) IndexCrawl(result *types.CrawlResult, pageLinks map[string][]types.ExtractedLink) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pageStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO pages
		(crawl_id, url, title, status_code, depth, load_time_ms, word_count, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pageStmt.Close()

	linkStmt, err := tx.Prepare(`
		INSERT INTO links (crawl_id, source_url, target_url, anchor_text, is_internal)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for _, page := range result.Pages {
		if _, err := pageStmt.Exec(result.ID, page.URL, page.Title, page.StatusCode,
			page.Depth, page.LoadTimeMs, page.WordCount, page.ContentHash); err != nil {
			return err
		}
		for _, link := range pageLinks[page.URL] {
			internal := 0
			if link.IsInternal {
				internal = 1
			}
			if _, err := linkStmt.Exec(result.ID, page.URL, link.Href, link.Text, internal); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// PagesByDepth returns crawled page URLs at the given BFS depth.
func (s *SQLiteIndex) PagesByDepth(crawlID string, depth int) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT url FROM pages WHERE crawl_id = ? AND depth = ? ORDER BY id", crawlID, depth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// InboundCount returns the number of distinct pages linking to targetURL
// within one crawl.
func (s *SQLiteIndex) InboundCount(crawlID, targetURL string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT source_url) FROM links
		WHERE crawl_id = ? AND target_url = ? AND is_internal = 1 AND source_url != ?`,
		crawlID, targetURL, targetURL).Scan(&count)
	return count, err
}

// Stats summarizes one crawl's index.
func (s *SQLiteIndex) Stats(crawlID string) (map[string]int, error) {
	stats := make(map[string]int)

	var pages int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM pages WHERE crawl_id = ?", crawlID).Scan(&pages); err != nil {
		return nil, err
	}
	stats["pages"] = pages

	var links int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM links WHERE crawl_id = ?", crawlID).Scan(&links); err != nil {
		return nil, err
	}
	stats["links"] = links

	var duplicates int
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pages WHERE crawl_id = ? AND content_hash IN (
			SELECT content_hash FROM pages WHERE crawl_id = ?
			GROUP BY content_hash HAVING COUNT(*) > 1
		)`, crawlID, crawlID).Scan(&duplicates); err != nil {
		return nil, err
	}
	stats["duplicate_content_pages"] = duplicates

	return stats, nil
}

// Close closes the database connection
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
