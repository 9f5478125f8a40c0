package scrape

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content ScrapedContent
		wantErr error
	}{
		{"valid", ScrapedContent{URL: "https://example.com", Title: "T", Text: "t"}, nil},
		{"empty title and text allowed", ScrapedContent{URL: "https://example.com"}, nil},
		{"missing url", ScrapedContent{Title: "T"}, ErrEmptyURL},
		{"whitespace url", ScrapedContent{URL: "   "}, ErrEmptyURL},
		{"negative timestamp", ScrapedContent{URL: "https://example.com", Timestamp: -1}, ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.content.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	t.Run("ShortTextUnchanged", func(t *testing.T) {
		if got := Snippet("short text", 50); got != "short text" {
			t.Errorf("Expected unchanged text, got %q", got)
		}
	})

	t.Run("CollapsesWhitespace", func(t *testing.T) {
		if got := Snippet("spaced \n  out\ttext", 50); got != "spaced out text" {
			t.Errorf("Expected collapsed whitespace, got %q", got)
		}
	})

	t.Run("TruncatesAtWordBoundary", func(t *testing.T) {
		got := Snippet("one two three four five six", 14)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("Expected ellipsis on truncated snippet, got %q", got)
		}
		body := strings.TrimSuffix(got, "…")
		if len([]rune(body)) > 14 {
			t.Errorf("Snippet body too long: %q", got)
		}
		if strings.HasSuffix(body, " ") {
			t.Errorf("Expected trimmed cut, got %q", got)
		}
	})

	t.Run("ZeroMaxMeansNoLimit", func(t *testing.T) {
		long := strings.Repeat("word ", 100)
		if got := Snippet(long, 0); strings.Contains(got, "…") {
			t.Errorf("Expected no truncation for zero max, got %q", got)
		}
	})
}

func TestNewSearchResult(t *testing.T) {
	c := &ScrapedContent{
		ID:    7,
		URL:   "https://example.com",
		Title: "Title",
		Text:  strings.Repeat("content ", 100),
	}

	r := NewSearchResult(c, 40)
	if r.ID != 7 || r.URL != c.URL || r.Title != c.Title {
		t.Errorf("Result identity mismatch: %+v", r)
	}
	if len([]rune(r.Snippet)) > 41 { // 40 plus the ellipsis
		t.Errorf("Snippet exceeds bound: %q", r.Snippet)
	}
}
