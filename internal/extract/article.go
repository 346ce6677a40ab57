// Package extract fetches article pages and reduces them to the readable
// text an analysis prompt needs.
package extract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxTextRunes caps the article text handed to a prompt
const MaxTextRunes = 24000

// ErrNoText is returned when a page has no readable body text
var ErrNoText = errors.New("no readable text in page")

// Article is the readable part of an HTML page
type Article struct {
	Title     string
	Published string // as found in the page, unparsed
	Text      string
	Truncated bool

	// Links to research hosts found in the body, resolved and deduplicated
	Citations []string
}

// ParseArticle extracts title, publication date, body text and research
// links from htmlContent. The body prefers <article>, then <main>, then
// <body>.
func ParseArticle(htmlContent, sourceURL string) (*Article, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	a := &Article{
		Title:     pageTitle(doc),
		Published: publishedDate(doc),
	}

	root := findFirst(doc, atom.Article)
	if root == nil {
		root = findFirst(doc, atom.Main)
	}
	if root == nil {
		root = findFirst(doc, atom.Body)
	}
	if root == nil {
		root = doc
	}

	text := visibleText(root)
	if text == "" {
		return nil, ErrNoText
	}
	a.Text, a.Truncated = truncateRunes(text, MaxTextRunes)

	a.Citations, err = Citations(root, sourceURL)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// skipped elements never contribute text
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Iframe: true,
	atom.Nav: true, atom.Header: true, atom.Footer: true, atom.Aside: true,
	atom.Form: true, atom.Svg: true, atom.Button: true, atom.Template: true,
}

// block elements end a line
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Section: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Figcaption: true, atom.Tr: true, atom.Pre: true,
}

// visibleText collects text nodes, one line per block element, with runs of
// whitespace collapsed and blank lines dropped
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.DataAtom] {
				return
			}
			if block[n.DataAtom] {
				buf.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				buf.WriteString(text)
				buf.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block[n.DataAtom] {
			buf.WriteByte('\n')
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func pageTitle(doc *html.Node) string {
	if og := metaContent(doc, "og:title"); og != "" {
		return og
	}
	if t := findFirst(doc, atom.Title); t != nil {
		return strings.Join(strings.Fields(visibleText(t)), " ")
	}
	if h := findFirst(doc, atom.H1); h != nil {
		return visibleText(h)
	}
	return ""
}

func publishedDate(doc *html.Node) string {
	for _, name := range []string{"article:published_time", "datePublished", "date", "dc.date"} {
		if v := metaContent(doc, name); v != "" {
			return v
		}
	}
	if t := findFirst(doc, atom.Time); t != nil {
		if v := attr(t, "datetime"); v != "" {
			return v
		}
	}
	return ""
}

// metaContent returns the content of the first <meta> whose property or
// name equals key (case-insensitive)
func metaContent(doc *html.Node, key string) string {
	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
			if strings.EqualFold(attr(n, "property"), key) || strings.EqualFold(attr(n, "name"), key) ||
				strings.EqualFold(attr(n, "itemprop"), key) {
				found = strings.TrimSpace(attr(n, "content"))
				return found != ""
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return found
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func truncateRunes(s string, max int) (string, bool) {
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:max]), true
}
