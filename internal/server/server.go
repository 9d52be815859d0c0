// Package server exposes a crawl's artifacts over HTTP. Requests from
// known AI/search crawlers are detected by middleware and served the
// generated markdown representation instead of JSON.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sitescout/sitescout/internal/generator"
	"github.com/sitescout/sitescout/internal/knowledge"
	"github.com/sitescout/sitescout/internal/types"
)

// Server serves the results of one crawl.
type Server struct {
	result  *types.CrawlResult
	linkMap *types.LinkMap
	base    *knowledge.Base
	logger  *log.Logger
	mux     *http.ServeMux
}

// New wires handlers onto an HTTP mux.
func New(result *types.CrawlResult, lm *types.LinkMap, base *knowledge.Base, logger *log.Logger) *Server {
	s := &Server{
		result:  result,
		linkMap: lm,
		base:    base,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	BotDetector(s.mux).ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/crawl", s.handleCrawl)
	s.mux.HandleFunc("/api/linkmap", s.handleLinkMap)
	s.mux.HandleFunc("/api/knowledge", s.handleKnowledge)
	s.mux.HandleFunc("/content", s.handleContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.result)
}

func (s *Server) handleLinkMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.linkMap)
}

func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.base)
}

// handleContent serves the knowledge-base summary: markdown for detected
// bots, JSON for everyone else.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	if r.Header.Get("X-Bot-Detected") == "1" {
		doc, err := generator.RenderSummary(s.base)
		if err != nil {
			s.logger.Error("summary render failed", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(doc))
		return
	}

	writeJSON(w, http.StatusOK, s.base)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
