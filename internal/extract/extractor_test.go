package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/insightful/insightful/internal/scrape"
)

func TestExtract(t *testing.T) {
	r := NewReadability()

	t.Run("FullPage", func(t *testing.T) {
		page := `<!DOCTYPE html>
<html>
<head>
  <title>Building Effective Agents</title>
  <script>var tracking = "ignore me";</script>
  <style>body { color: red; }</style>
</head>
<body>
  <nav>Home | About | Contact</nav>
  <article>
    <h1>Building Effective Agents</h1>
    <p>Agents are programs that plan &amp; act.</p>
    <p style="display:none">This paragraph is hidden.</p>
    <p>Second   paragraph with
       odd whitespace.</p>
  </article>
  <footer>Copyright notice</footer>
</body>
</html>`

		article, err := r.Extract([]byte(page), "https://example.com/agents")
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}

		if article.Title != "Building Effective Agents" {
			t.Errorf("Unexpected title: %q", article.Title)
		}
		if !strings.Contains(article.TextContent, "plan & act") {
			t.Errorf("Expected unescaped entity in text, got %q", article.TextContent)
		}
		if !strings.Contains(article.TextContent, "Second paragraph with odd whitespace.") {
			t.Errorf("Expected normalized whitespace, got %q", article.TextContent)
		}
		for _, absent := range []string{"ignore me", "color: red", "Home | About", "Copyright", "hidden"} {
			if strings.Contains(article.TextContent, absent) {
				t.Errorf("Boilerplate %q leaked into text: %q", absent, article.TextContent)
			}
		}
	})

	t.Run("TitleFallsBackToOpenGraph", func(t *testing.T) {
		page := `<html><head><meta property="og:title" content="OG Title"></head>
<body><p>Some body text.</p></body></html>`

		article, err := r.Extract([]byte(page), "https://example.com")
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if article.Title != "OG Title" {
			t.Errorf("Expected og:title fallback, got %q", article.Title)
		}
	})

	t.Run("TitleFallsBackToHeading", func(t *testing.T) {
		page := `<html><body><h1>Heading Title</h1><p>Body.</p></body></html>`

		article, err := r.Extract([]byte(page), "https://example.com")
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if article.Title != "Heading Title" {
			t.Errorf("Expected h1 fallback, got %q", article.Title)
		}
	})

	t.Run("NoContent", func(t *testing.T) {
		cases := map[string]string{
			"empty body":  `<html><body></body></html>`,
			"script only": `<html><body><script>alert(1)</script></body></html>`,
			"blank":       ``,
		}
		for name, page := range cases {
			if _, err := r.Extract([]byte(page), "https://example.com"); !errors.Is(err, scrape.ErrNoContent) {
				t.Errorf("%s: expected ErrNoContent, got %v", name, err)
			}
		}
	})

	t.Run("MalformedHTMLStillExtracts", func(t *testing.T) {
		page := `<html><body><p>Unclosed paragraph<div>and a stray div`

		article, err := r.Extract([]byte(page), "https://example.com")
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if !strings.Contains(article.TextContent, "Unclosed paragraph") {
			t.Errorf("Expected text from malformed HTML, got %q", article.TextContent)
		}
	})

	t.Run("MainSubtreePreferredOverBody", func(t *testing.T) {
		page := `<html><body>
<div>Sidebar noise</div>
<main><p>The real content.</p></main>
</body></html>`

		article, err := r.Extract([]byte(page), "https://example.com")
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if !strings.Contains(article.TextContent, "The real content.") {
			t.Errorf("Expected main content, got %q", article.TextContent)
		}
		if strings.Contains(article.TextContent, "Sidebar noise") {
			t.Errorf("Expected sidebar to be excluded, got %q", article.TextContent)
		}
	})
}
