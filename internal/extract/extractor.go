// Package extract turns raw page HTML into a readable title/text pair.
// It walks the DOM, prefers the article or main subtree, and drops
// boilerplate and hidden elements.
package extract

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/insightful/insightful/internal/scrape"
)

// Elements whose subtrees never contribute readable text.
var skippedAtoms = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
	atom.Button:   true,
}

// Block-level elements delimit lines in the extracted text.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Li: true, atom.Tr: true,
	atom.Blockquote: true, atom.Pre: true, atom.Br: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Figcaption: true,
}

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
}

// Readability is the default scrape.Extractor. Page HTML is untrusted, so
// every extracted string passes through a strict sanitization policy before
// it leaves this package.
type Readability struct {
	policy *bluemonday.Policy
}

var _ scrape.Extractor = (*Readability)(nil)

// NewReadability creates an extractor with the strict sanitization policy.
func NewReadability() *Readability {
	return &Readability{policy: bluemonday.StrictPolicy()}
}

// Extract parses the document and returns its title and readable text.
// Returns scrape.ErrNoContent when no usable text is found.
func (r *Readability) Extract(htmlBody []byte, pageURL string) (*scrape.Article, error) {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", pageURL, err)
	}

	text := r.clean(collectText(contentRoot(doc)))
	if text == "" {
		return nil, fmt.Errorf("%w: %s", scrape.ErrNoContent, pageURL)
	}

	return &scrape.Article{
		Title:       r.clean(findTitle(doc)),
		TextContent: text,
	}, nil
}

// clean strips any markup that survived extraction and undoes the entity
// escaping the sanitizer applies to plain text.
func (r *Readability) clean(s string) string {
	return strings.TrimSpace(stdhtml.UnescapeString(r.policy.Sanitize(s)))
}

// contentRoot picks the subtree to extract from: <article>, then <main>,
// then <body>, then the document itself.
func contentRoot(doc *html.Node) *html.Node {
	for _, a := range []atom.Atom{atom.Article, atom.Main, atom.Body} {
		if n := findElement(doc, a); n != nil {
			return n
		}
	}
	return doc
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findTitle returns the <title> text, falling back to the og:title meta
// property and then the first <h1>.
func findTitle(doc *html.Node) string {
	if t := findElement(doc, atom.Title); t != nil && t.FirstChild != nil {
		if title := strings.TrimSpace(t.FirstChild.Data); title != "" {
			return title
		}
	}
	if title := findMetaProperty(doc, "og:title"); title != "" {
		return title
	}
	if h1 := findElement(doc, atom.H1); h1 != nil {
		return strings.Join(strings.Fields(collectText(h1)), " ")
	}
	return ""
}

func findMetaProperty(n *html.Node, property string) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
		var prop, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "property", "name":
				prop = strings.ToLower(attr.Val)
			case "content":
				content = attr.Val
			}
		}
		if prop == property {
			return strings.TrimSpace(content)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMetaProperty(c, property); found != "" {
			return found
		}
	}
	return ""
}

func hasHiddenStyle(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		for _, pat := range hiddenStylePatterns {
			if pat.MatchString(a.Val) {
				return true
			}
		}
	}
	return false
}

// collectText walks the subtree and gathers visible text, one line per
// block-level element, whitespace-normalized.
func collectText(root *html.Node) string {
	var b strings.Builder
	walkText(root, &b)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func walkText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.ElementNode:
		if skippedAtoms[n.DataAtom] || hasHiddenStyle(n) {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	isBlock := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
	if isBlock {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}
	if isBlock {
		b.WriteByte('\n')
	}
}
