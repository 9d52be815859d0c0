package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sitescout/sitescout/internal/types"
)

// File names written under the data directory.
const (
	pagesLogFile      = "pages.jsonl"
	crawlResultFile   = "crawl.json"
	linkMapFile       = "linkmap.json"
	knowledgeBaseFile = "knowledge.json"
)

// Storage persists crawl artifacts as flat files in a data directory.
// Pages stream to a JSONL log while the crawl runs; the final CrawlResult,
// LinkMap and knowledge base land as JSON documents.
type Storage struct {
	dataDir string
	mu      sync.Mutex
	jsonl   *os.File
}

// New creates a storage instance rooted at dataDir.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	jsonlPath := filepath.Join(dataDir, pagesLogFile)
	file, err := os.OpenFile(jsonlPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open page log: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		jsonl:   file,
	}, nil
}

// WritePage appends one crawled page to the JSONL log. Satisfies the crawl
// engine's PageSink.
func (s *Storage) WritePage(page types.CrawledPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	if _, err := s.jsonl.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// LoadPages reads back every page from the JSONL log in write order.
func (s *Storage) LoadPages() ([]types.CrawledPage, error) {
	path := filepath.Join(s.dataDir, pagesLogFile)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.CrawledPage{}, nil
		}
		return nil, fmt.Errorf("failed to open page log: %w", err)
	}
	defer file.Close()

	pages := make([]types.CrawledPage, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var page types.CrawledPage
		if err := json.Unmarshal(line, &page); err != nil {
			continue
		}
		pages = append(pages, page)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page log: %w", err)
	}
	return pages, nil
}

// SaveCrawlResult writes the final crawl result. Serialization is lossless
// for every CrawledPage field, so a load yields field-for-field equality.
func (s *Storage) SaveCrawlResult(result *types.CrawlResult) error {
	return s.writeJSON(crawlResultFile, result)
}

// LoadCrawlResult reads the saved crawl result.
func (s *Storage) LoadCrawlResult() (*types.CrawlResult, error) {
	var result types.CrawlResult
	if err := s.readJSON(crawlResultFile, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveLinkMap writes the derived link graph.
func (s *Storage) SaveLinkMap(lm *types.LinkMap) error {
	return s.writeJSON(linkMapFile, lm)
}

// LoadLinkMap reads the saved link graph.
func (s *Storage) LoadLinkMap() (*types.LinkMap, error) {
	var lm types.LinkMap
	if err := s.readJSON(linkMapFile, &lm); err != nil {
		return nil, err
	}
	return &lm, nil
}

// SaveKnowledgeBase writes the knowledge base summary as JSON.
func (s *Storage) SaveKnowledgeBase(v any) error {
	return s.writeJSON(knowledgeBaseFile, v)
}

// LoadKnowledgeBase reads the knowledge base summary into out.
func (s *Storage) LoadKnowledgeBase(out any) error {
	return s.readJSON(knowledgeBaseFile, out)
}

func (s *Storage) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Storage) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// Close closes the storage
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jsonl != nil {
		return s.jsonl.Close()
	}
	return nil
}
