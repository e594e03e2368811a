package semantic

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// licenseFooterPrefix marks an article's final paragraph as the CC-BY-SA
// attribution boilerplate ZIM dumps append to every article; it carries no
// corpus content and is stripped.
const licenseFooterPrefix = "This article is issued from"

// logger is the package-level warning sink; tests may swap it out the same
// way the rest of this module overrides loggers for quiet test output.
var logger = log.New(os.Stderr, "", log.LstdFlags)

// Tree is the intermediate tree the encoder builds from a cleaned event
// stream before serialization: unlike Node, it carries lxml-style text/tail
// fields rather than an interleaved content list, since the encoder's
// header/term-inlining and footer-stripping rules operate on exactly that
// shape.
type Tree struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Tail     string
	Children []*Tree
}

func outputTag(n *Node) string {
	if n.Tag == TagRoot {
		return "article"
	}
	return n.Tag
}

// BuildArticleTree wraps a cleaned event stream with a synthetic root event
// pair (tag "root", carrying url/title), reconstructs an lxml-style tree
// from it, applies header/term paragraph inlining and license-footer
// stripping, and returns the resulting <article> tree.
func BuildArticleTree(url, title string, cleaned []Event) *Tree {
	root := newNode(TagRoot)
	root.setAttr("url", url)
	root.setAttr("title", title)

	wrapped := make([]Event, 0, len(cleaned)+2)
	wrapped = append(wrapped, openEvent(root))
	wrapped = append(wrapped, cleaned...)
	wrapped = append(wrapped, closeEvent(root))

	pos := 0
	tree := parseTree(wrapped, &pos)
	inlineHeaderParagraphs(tree)
	stripLicenseFooter(tree)
	return tree
}

func parseTree(events []Event, pos *int) *Tree {
	openEv := events[*pos]
	srcNode := openEv.Node
	node := &Tree{Tag: outputTag(srcNode), Attrs: srcNode.Attrs}
	*pos++

	var textBuf strings.Builder
	var lastChild *Tree
	for {
		e := events[*pos]
		if e.Kind == Close && e.Node == srcNode {
			*pos++
			break
		}
		if e.Node == nil {
			textBuf.WriteString(e.Text)
			*pos++
			continue
		}
		child := parseTree(events, pos)
		if lastChild == nil {
			node.Text = textBuf.String()
		} else {
			lastChild.Tail = textBuf.String()
		}
		textBuf.Reset()
		node.Children = append(node.Children, child)
		lastChild = child
	}
	if lastChild != nil {
		lastChild.Tail = textBuf.String()
	} else {
		node.Text = textBuf.String()
	}
	return node
}

// inlineHeaderParagraphs walks the tree and, for every h/dt element whose
// first child is a p, adopts that paragraph's text and children directly
// onto the header/term, discarding the paragraph wrapper. A header/term
// with more than one paragraph child only ever inlines the first; the rest
// are dropped silently but the event is logged, matching the reference
// implementation's own (likely unintentional) behavior.
func inlineHeaderParagraphs(n *Tree) {
	for _, c := range n.Children {
		inlineHeaderParagraphs(c)
	}
	if n.Tag != TagH && n.Tag != TagDT {
		return
	}
	if len(n.Children) == 0 || n.Children[0].Tag != TagP {
		return
	}
	if len(n.Children) > 1 {
		logger.Printf("semantic: multiple paragraphs inside <%s>, keeping only the first", n.Tag)
	}
	firstP := n.Children[0]
	n.Text = firstP.Text
	n.Children = firstP.Children
}

// stripLicenseFooter removes the article's trailing CC-BY-SA attribution
// paragraph, if present.
func stripLicenseFooter(article *Tree) {
	if len(article.Children) == 0 {
		return
	}
	last := article.Children[len(article.Children)-1]
	if last.Tag == TagP && strings.HasPrefix(last.Text, licenseFooterPrefix) {
		article.Children = article.Children[:len(article.Children)-1]
	}
}

// Encoder streams redirects and articles into a single gzipped
// <wikipedia> XML document. NewEncoder writes the document header, so
// callers create it before any WriteRedirect/WriteArticle call, and call
// Close exactly once when done.
type Encoder struct {
	w   io.Writer
	enc *xml.Encoder
}

// NewEncoder wraps w (expected to be a gzip writer, so the caller controls
// compression level and flushing) and writes the XML declaration and the
// opening <wikipedia> tag.
func NewEncoder(w io.Writer, articleCount, redirectCount int, lang string) (*Encoder, error) {
	header := fmt.Sprintf(
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<wikipedia article=\"%d\" redirect=\"%d\" lang=\"%s\">\n",
		articleCount, redirectCount, xmlEscapeAttr(lang))
	if _, err := io.WriteString(w, header); err != nil {
		return nil, err
	}
	return &Encoder{w: w, enc: xml.NewEncoder(w)}, nil
}

// WriteRedirect emits one self-closing <redirect url title target/> entry.
func (e *Encoder) WriteRedirect(url, title, target string) error {
	line := fmt.Sprintf("<redirect url=\"%s\" title=\"%s\" target=\"%s\"/>\n",
		xmlEscapeAttr(url), xmlEscapeAttr(title), xmlEscapeAttr(target))
	_, err := io.WriteString(e.w, line)
	return err
}

// WriteArticle serializes one article tree as an <article> element
// followed by a newline.
func (e *Encoder) WriteArticle(tree *Tree) error {
	if err := writeXMLNode(e.enc, tree); err != nil {
		return err
	}
	if err := e.enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\n")
	return err
}

// Close emits the closing </wikipedia> tag. It does not close the
// underlying writer.
func (e *Encoder) Close() error {
	_, err := io.WriteString(e.w, "</wikipedia>\n")
	return err
}

func writeXMLNode(enc *xml.Encoder, n *Tree) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: n.Attrs[k]})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := writeXMLNode(enc, c); err != nil {
			return err
		}
		if c.Tail != "" {
			if err := enc.EncodeToken(xml.CharData(c.Tail)); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

func xmlEscapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
