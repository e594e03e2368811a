package semantic

import (
	"bytes"
	"regexp"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// UnknownTagCounter aggregates element names the decoder encountered but
// had no mapping for, across an entire run. Decode may be called
// concurrently across multiple articles (--workers N), so every access is
// mutex-guarded.
type UnknownTagCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewUnknownTagCounter returns an empty counter.
func NewUnknownTagCounter() *UnknownTagCounter {
	return &UnknownTagCounter{counts: make(map[string]int)}
}

func (c *UnknownTagCounter) record(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[tag]++
}

// Counts returns a snapshot of tag → occurrence count.
func (c *UnknownTagCounter) Counts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

var headerTagRe = regexp.MustCompile(`^h([0-9]+)$`)

var structuralPassthrough = map[string]bool{
	"blockquote": true, "ul": true, "ol": true, "dl": true,
	"li": true, "dt": true, "dd": true,
}

var stripKeepText = map[string]bool{
	"b": true, "bdi": true, "big": true, "del": true, "dfn": true,
	"em": true, "font": true, "i": true, "ins": true, "mark": true,
	"rb": true, "ruby": true, "s": true, "small": true, "span": true,
	"strong": true, "u": true, "wbr": true,
}

var dropWithContents = map[string]bool{
	"audio": true, "center": true, "hr": true, "img": true,
	"meta": true, "pre": true, "rp": true, "rt": true, "rtc": true,
	"table": true,
}

var codeAliases = map[string]bool{
	"code": true, "kbd": true, "tt": true, "var": true,
}

// Decode parses an article's HTML body, locates the element with id
// "mw-content-text" (first match), and builds a semantic root node from
// its children. If no such element exists, the returned root has no
// content. counter, if non-nil, accumulates tags the decoder did not
// recognize.
func Decode(htmlBytes []byte, counter *UnknownTagCounter) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return nil, err
	}

	root := newNode(TagRoot)
	sel := doc.Find("#mw-content-text").First()
	if sel.Length() == 0 {
		return root, nil
	}

	container := sel.Get(0)
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		decodeInto(root, child, counter)
	}
	return root, nil
}

// decodeInto classifies one HTML node per the disposition table and, for
// emitted nodes, appends the result (plus any trailing text up to the next
// sibling) to parent.Content.
func decodeInto(parent *Node, n *html.Node, counter *UnknownTagCounter) {
	switch n.Type {
	case html.TextNode:
		parent.append(n.Data)
		return
	case html.ElementNode:
		// handled below
	default:
		return // comments and other non-element, non-text nodes are dropped
	}

	tag := n.Data
	switch {
	case headerTagRe.MatchString(tag):
		level := headerTagRe.FindStringSubmatch(tag)[1]
		h := newNode(TagH)
		h.setAttr("level", level)
		decodeChildren(h, n, counter)
		parent.append(h)

	case structuralPassthrough[tag]:
		out := newNode(tag)
		decodeChildren(out, n, counter)
		parent.append(out)

	case tag == "div" || tag == "p":
		p := newNode(TagP)
		decodeChildren(p, n, counter)
		parent.append(p)

	case tag == "a":
		a := newNode(TagA)
		a.setAttr("href", attr(n, "href"))
		decodeChildren(a, n, counter)
		parent.append(a)

	case tag == "abbr":
		ab := newNode(TagAbbr)
		ab.setAttr("title", attr(n, "title"))
		decodeChildren(ab, n, counter)
		parent.append(ab)

	case tag == "time":
		t := newNode(TagTime)
		t.setAttr("datetime", attr(n, "datetime"))
		decodeChildren(t, n, counter)
		parent.append(t)

	case tag == "cite" || tag == "q" || tag == "sub" || tag == "sup":
		out := newNode(tag)
		decodeChildren(out, n, counter)
		parent.append(out)

	case codeAliases[tag]:
		c := newNode(TagCode)
		decodeChildren(c, n, counter)
		parent.append(c)

	case tag == "br" || tag == "math":
		parent.append(newNode(tag))

	case stripKeepText[tag]:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			decodeInto(parent, child, counter)
		}

	case dropWithContents[tag]:
		// dropped entirely

	default:
		if counter != nil {
			counter.record(tag)
		}
	}
}

func decodeChildren(out *Node, n *html.Node, counter *UnknownTagCounter) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		decodeInto(out, child, counter)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
