// Package metrics collects run counters for the extractor using the
// Prometheus client library, and dumps a plain-text summary at the end of
// a run without standing up an HTTP server.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry bundles the counters a single extraction run updates.
type Registry struct {
	reg *prometheus.Registry

	ArticlesWritten     prometheus.Counter
	RedirectsWritten    prometheus.Counter
	UnknownTagsObserved prometheus.Counter
	BytesDecompressed   prometheus.Counter
	ClusterCacheHits    prometheus.Counter
	ClusterCacheMisses  prometheus.Counter
}

// NewRegistry constructs a fresh, unregistered-elsewhere counter set.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		ArticlesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_articles_written_total",
			Help: "Number of articles serialized to the output corpus.",
		}),
		RedirectsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_redirects_written_total",
			Help: "Number of redirect records serialized to the output corpus.",
		}),
		UnknownTagsObserved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_unknown_html_tags_total",
			Help: "Number of HTML elements the semantic decoder had no disposition for.",
		}),
		BytesDecompressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_cluster_bytes_decompressed_total",
			Help: "Total bytes of article HTML read out of clusters.",
		}),
		ClusterCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_cluster_cache_hits_total",
			Help: "Cluster cache hits during blob retrieval.",
		}),
		ClusterCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimcorpus_cluster_cache_misses_total",
			Help: "Cluster cache misses during blob retrieval.",
		}),
	}

	reg.MustRegister(
		r.ArticlesWritten,
		r.RedirectsWritten,
		r.UnknownTagsObserved,
		r.BytesDecompressed,
		r.ClusterCacheHits,
		r.ClusterCacheMisses,
	)
	return r
}

// WriteSummary dumps every counter's current value to w in Prometheus text
// exposition format, the same representation a scrape endpoint would serve,
// without ever starting a listener.
func (r *Registry) WriteSummary(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gathering: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
