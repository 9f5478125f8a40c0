// Package scrape defines the data model and the component interfaces for
// capturing readable page content and persisting it to the local store.
package scrape

import (
	"errors"
	"strings"
	"unicode"
)

// DefaultRecentLimit is the number of records returned by recency queries
// when the caller does not choose a limit.
const DefaultRecentLimit = 50

// SaveAction is the action name carried by save requests on the wire.
const SaveAction = "saveScrapedContent"

// ScrapedContent represents one captured page.
// At most one record exists per distinct URL; the store enforces this.
type ScrapedContent struct {
	ID        int64  `json:"id,omitempty"` // Store-assigned, immutable once set
	URL       string `json:"url"`          // Canonical page URL, the natural key
	Title     string `json:"title"`        // Human-readable page title
	Text      string `json:"text"`         // Extracted plain-text body
	Timestamp int64  `json:"timestamp"`    // Unix milliseconds of the last write, store-assigned
}

// Validate reports whether the record is well-formed.
func (c *ScrapedContent) Validate() error {
	if c == nil {
		return errors.New("content is nil")
	}
	if strings.TrimSpace(c.URL) == "" {
		return ErrEmptyURL
	}
	if c.Timestamp < 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// SearchResult is one row of a search response: the matched record's
// identity plus a bounded preview of its text.
type SearchResult struct {
	ID      int64   `json:"id"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score,omitempty"` // Carried for API compatibility, not computed by the substring scan
}

// NewSearchResult builds a result row from a stored record, cutting the
// snippet at a word boundary within maxLen runes.
func NewSearchResult(c *ScrapedContent, maxLen int) SearchResult {
	return SearchResult{
		ID:      c.ID,
		URL:     c.URL,
		Title:   c.Title,
		Snippet: Snippet(c.Text, maxLen),
	}
}

// Snippet returns text truncated to at most maxLen runes, preferring to cut
// at whitespace and appending an ellipsis when truncated.
func Snippet(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if maxLen <= 0 || len(runes) <= maxLen {
		return text
	}

	cut := maxLen
	for i := maxLen; i > maxLen/2; i-- {
		if unicode.IsSpace(runes[i-1]) {
			cut = i - 1
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "…"
}

// Article is the output of the extraction step: the page distilled to a
// title and its readable text.
type Article struct {
	Title       string // Best-effort page title, may be empty
	TextContent string // Readable plain-text body
}

// SaveRequest is the message delivered from the capture context to the
// store-owning context.
type SaveRequest struct {
	Action  string         `json:"action"` // Always SaveAction
	Content ScrapedContent `json:"content"`
}

// SaveResponse acknowledges a save request.
type SaveResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StoreStats summarizes the store for status reporting.
type StoreStats struct {
	Records         int   `json:"records"`
	NewestTimestamp int64 `json:"newest_timestamp"` // 0 when the store is empty
}
