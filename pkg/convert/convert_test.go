package convert

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipXML(t *testing.T, xml string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(xml)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestToPlainTextEmitsOneLinePerParagraph(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<wikipedia article="1" redirect="0" lang="en">
<article title="Test" url="Test">
<h level="2">A Header</h>
<p>First paragraph with a <a href="X">link</a> inside.</p>
<p>Second paragraph.</p>
</article>
</wikipedia>
`
	var out bytes.Buffer
	if err := ToPlainText(gzipXML(t, doc), &out); err != nil {
		t.Fatalf("ToPlainText: %v", err)
	}

	want := "First paragraph with a link inside.\nSecond paragraph.\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestToPlainTextIgnoresRedirects(t *testing.T) {
	doc := `<wikipedia article="0" redirect="1" lang="en">
<redirect url="A" title="A" target="B"/>
</wikipedia>
`
	var out bytes.Buffer
	if err := ToPlainText(gzipXML(t, doc), &out); err != nil {
		t.Fatalf("ToPlainText: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output for redirect-only document, got %q", out.String())
	}
}
