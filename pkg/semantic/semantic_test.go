package semantic

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

// renderXML runs one article's already-cleaned tree through the same
// token-writer the real Encoder uses, without any gzip wrapping, so tests
// can assert on exact output text.
func renderXML(t *testing.T, tree *Tree) string {
	t.Helper()
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := writeXMLNode(enc, tree); err != nil {
		t.Fatalf("writeXMLNode: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return buf.String()
}

func pipeline(t *testing.T, body string) *Tree {
	t.Helper()
	full := `<html><body><div id="mw-content-text">` + body + `</div></body></html>`
	root, err := Decode([]byte(full), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	events := Flatten(root)
	cleaned := Clean(events)
	return BuildArticleTree("Test_Page", "Test Page", cleaned)
}

func TestHeaderInlinesStrippedFormatting(t *testing.T) {
	tree := pipeline(t, `<h2><p>Hello <b>World</b></p></h2>`)
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d: %+v", len(tree.Children), tree.Children)
	}
	h := tree.Children[0]
	if h.Tag != TagH {
		t.Fatalf("expected h tag, got %q", h.Tag)
	}
	if h.Attrs["level"] != "2" {
		t.Errorf("level attr = %q, want 2", h.Attrs["level"])
	}
	if h.Text != "Hello World" {
		t.Errorf("header text = %q, want %q", h.Text, "Hello World")
	}
	if len(h.Children) != 0 {
		t.Errorf("expected b's formatting to vanish, got children %+v", h.Children)
	}
}

func TestNestedDivsSplitIntoSiblingParagraphs(t *testing.T) {
	tree := pipeline(t, `<div><p>A <div>B</div> C</p></div>`)

	var paragraphs []*Tree
	var collect func(*Tree)
	collect = func(n *Tree) {
		if n.Tag == TagP {
			paragraphs = append(paragraphs, n)
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(tree)

	// The outer wrapper paragraph is empty (split entirely around the
	// inner div) and dropped by the cleaner; what remains is the "A"
	// text, the inner div's own paragraph rendering, and the "C" text —
	// three siblings with no paragraph nested inside another.
	if len(paragraphs) < 2 {
		t.Fatalf("expected at least 2 sibling paragraphs, got %d: %+v", len(paragraphs), paragraphs)
	}
	first, last := paragraphs[0], paragraphs[len(paragraphs)-1]
	if first.Text != "A" {
		t.Errorf("first paragraph text = %q, want %q", first.Text, "A")
	}
	if last.Text != "C" {
		t.Errorf("last paragraph text = %q, want %q", last.Text, "C")
	}
	for _, p := range paragraphs {
		for _, c := range p.Children {
			if c.Tag == TagP {
				t.Fatalf("found nested <p> inside <p>: %+v", p)
			}
		}
	}
}

func TestLicenseFooterStripped(t *testing.T) {
	tree := pipeline(t, `<p>Real content.</p><p>This article is issued from Wikipedia under license.</p>`)
	for _, c := range tree.Children {
		if strings.HasPrefix(c.Text, licenseFooterPrefix) {
			t.Fatalf("license footer paragraph was not stripped: %+v", c)
		}
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected only the real paragraph to remain, got %d children", len(tree.Children))
	}
}

func TestEmptyParagraphsPruned(t *testing.T) {
	tree := pipeline(t, `<p>   </p><p>Kept</p>`)
	if len(tree.Children) != 1 {
		t.Fatalf("expected empty paragraph to be pruned, got %d children: %+v", len(tree.Children), tree.Children)
	}
	if tree.Children[0].Text != "Kept" {
		t.Errorf("remaining paragraph text = %q, want %q", tree.Children[0].Text, "Kept")
	}
}

func TestWhitespaceCollapsed(t *testing.T) {
	tree := pipeline(t, "<p>  Hello   \n\t  World  </p>")
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "Hello World" {
		t.Errorf("text = %q, want %q", tree.Children[0].Text, "Hello World")
	}
}

func TestUnknownTagRecorded(t *testing.T) {
	counter := NewUnknownTagCounter()
	full := `<html><body><div id="mw-content-text"><p>ok</p><marquee>nope</marquee></div></body></html>`
	root, err := Decode([]byte(full), counter)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	counts := counter.Counts()
	if counts["marquee"] != 1 {
		t.Errorf("expected marquee to be recorded once, got %d (all: %+v)", counts["marquee"], counts)
	}
	_ = root
}

func TestRenderXMLProducesWellFormedOutput(t *testing.T) {
	tree := pipeline(t, `<p>Hello</p>`)
	out := renderXML(t, tree)
	if !strings.Contains(out, "<article") {
		t.Errorf("rendered output missing article element: %s", out)
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("rendered output missing text: %s", out)
	}
}
