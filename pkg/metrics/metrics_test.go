package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSummaryReflectsIncrements(t *testing.T) {
	reg := NewRegistry()
	reg.ArticlesWritten.Add(3)
	reg.RedirectsWritten.Inc()
	reg.UnknownTagsObserved.Add(2)

	var buf bytes.Buffer
	if err := reg.WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "zimcorpus_articles_written_total 3") {
		t.Errorf("summary missing articles counter: %s", out)
	}
	if !strings.Contains(out, "zimcorpus_redirects_written_total 1") {
		t.Errorf("summary missing redirects counter: %s", out)
	}
	if !strings.Contains(out, "zimcorpus_unknown_html_tags_total 2") {
		t.Errorf("summary missing unknown tags counter: %s", out)
	}
}

func TestWriteSummaryZeroValueCounters(t *testing.T) {
	reg := NewRegistry()
	var buf bytes.Buffer
	if err := reg.WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "zimcorpus_cluster_cache_hits_total 0") {
		t.Errorf("expected zero-value counter to still be reported, got: %s", buf.String())
	}
}
