package server

import (
	"net/http"
	"strings"
)

// botSignatures are user-agent substrings of known AI and search crawlers.
// Matching is case-insensitive substring containment.
var botSignatures = []string{
	"gptbot",
	"chatgpt-user",
	"oai-searchbot",
	"claudebot",
	"claude-web",
	"anthropic-ai",
	"perplexitybot",
	"google-extended",
	"googlebot",
	"bingbot",
	"ccbot",
	"bytespider",
	"amazonbot",
	"applebot",
	"duckduckbot",
}

// IsBot reports whether userAgent matches a known crawler signature.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// BotDetector tags requests from known crawlers with an X-Bot-Detected
// header before passing them on. Handlers use the header to decide whether
// to serve the bot-optimized representation.
func BotDetector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsBot(r.UserAgent()) {
			r.Header.Set("X-Bot-Detected", "1")
			w.Header().Set("X-Bot-Detected", "1")
		}
		next.ServeHTTP(w, r)
	})
}
