// Package extract orchestrates the full ZIM-to-gzipped-XML pipeline:
// scanning the archive, decoding each article's HTML into a semantic tree,
// flattening/cleaning it, and streaming the result through the encoder in
// the order the LZMA cluster sub-streams require.
package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wikixtract/zimcorpus/pkg/corpusio"
	"github.com/wikixtract/zimcorpus/pkg/metrics"
	"github.com/wikixtract/zimcorpus/pkg/semantic"
	"github.com/wikixtract/zimcorpus/pkg/zim"
)

// logger is package-level and test-overridable, following the same
// convention the rest of this module uses for quiet test runs.
var logger = log.New(os.Stderr, "", log.LstdFlags)

// Options configures one extraction run.
type Options struct {
	Lang    string
	Workers int // 0 or 1 = sequential; >1 enables the concurrent decode pipeline
	Metrics *metrics.Registry
	// Dictzip writes the output through the random-access dictzip format
	// instead of plain gzip.
	Dictzip bool
	// Progress, if non-nil, is called with a human-readable status line no
	// more often than a few times a second.
	Progress func(line string)
}

// decoded pairs one article's cleaned event stream with its source
// reference, so concurrent decode results can be re-serialized back into
// ascending cluster/blob order.
type decoded struct {
	ref    zim.ArticleRef
	events []semantic.Event
	err    error
}

// Run performs a full extraction: it opens zimPath, scans its directory,
// and streams a gzipped <wikipedia> document to outPath containing every
// redirect followed by every article, in the order §5 requires.
func Run(ctx context.Context, zimPath, outPath string, opts Options) error {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}

	limiter := rate.NewLimiter(rate.Limit(10), 1)
	progress := func(format string, args ...any) {
		if opts.Progress == nil {
			return
		}
		if !limiter.Allow() {
			return
		}
		opts.Progress(fmt.Sprintf(format, args...))
	}

	reader, err := zim.Open(zimPath, func(done, total int) {
		progress("scanning directory: %d/%d", done, total)
	})
	if err != nil {
		return fmt.Errorf("extract: opening %s: %w", zimPath, err)
	}
	defer reader.Close()
	reader.SetClusterCacheMetrics(opts.Metrics.ClusterCacheHits, opts.Metrics.ClusterCacheMisses)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("extract: creating %s: %w", outPath, err)
	}
	defer out.Close()

	gw, err := corpusio.NewWriter(out, opts.Dictzip)
	if err != nil {
		return fmt.Errorf("extract: opening compressed writer: %w", err)
	}
	defer gw.Close()

	enc, err := semantic.NewEncoder(gw, len(reader.Articles), len(reader.Redirects), opts.Lang)
	if err != nil {
		return fmt.Errorf("extract: writing header: %w", err)
	}

	for i, rd := range reader.Redirects {
		target, err := reader.ResolveRedirect(rd)
		if err != nil {
			return fmt.Errorf("extract: resolving redirect %q: %w", rd.URL, err)
		}
		if err := enc.WriteRedirect(rd.URL, rd.Title, target); err != nil {
			return fmt.Errorf("extract: writing redirect %q: %w", rd.URL, err)
		}
		opts.Metrics.RedirectsWritten.Inc()
		progress("writing redirects: %d/%d", i+1, len(reader.Redirects))
	}

	ordered := orderArticles(reader, reader.Articles)

	counter := semantic.NewUnknownTagCounter()
	decodeOne := func(ref zim.ArticleRef) decoded {
		html, err := reader.ArticleHTML(ref)
		if err != nil {
			return decoded{ref: ref, err: err}
		}
		opts.Metrics.BytesDecompressed.Add(float64(len(html)))

		root, err := semantic.Decode(html, counter)
		if err != nil {
			logger.Printf("extract: %q: html parse failed, writing it with no content: %v", ref.URL, err)
			return decoded{ref: ref, events: nil}
		}
		events := semantic.Clean(semantic.Flatten(root))
		return decoded{ref: ref, events: events}
	}

	var results []decoded
	if opts.Workers > 1 {
		results, err = decodeConcurrent(ctx, ordered, opts.Workers, decodeOne)
	} else {
		results = make([]decoded, len(ordered))
		for i, ref := range ordered {
			results[i] = decodeOne(ref)
		}
	}
	if err != nil {
		return err
	}

	for i, d := range results {
		if d.err != nil {
			return fmt.Errorf("extract: reading article %q: %w", d.ref.URL, d.err)
		}
		tree := semantic.BuildArticleTree(d.ref.URL, d.ref.Title, d.events)
		if err := enc.WriteArticle(tree); err != nil {
			return fmt.Errorf("extract: writing article %q: %w", d.ref.URL, err)
		}
		opts.Metrics.ArticlesWritten.Inc()
		progress("writing articles: %d/%d", i+1, len(ordered))
	}

	for tag, count := range counter.Counts() {
		opts.Metrics.UnknownTagsObserved.Add(float64(count))
		logger.Printf("extract: unknown tag <%s>: %d occurrences", tag, count)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("extract: closing document: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("extract: closing gzip stream: %w", err)
	}
	return nil
}

// clusterOffsetter resolves a cluster index to its absolute file offset.
// zim.Reader satisfies it; tests can supply a lighter fake.
type clusterOffsetter interface {
	ClusterOffset(idx uint32) uint64
}

// orderArticles sorts article references into ascending cluster *file
// offset*, then ascending blob index within a cluster — the order §5
// requires so a forward-only LZMA cluster decoder never has to re-read a
// stream. Cluster index and on-disk cluster order need not coincide, so
// this sorts on the offset the directory's cluster-pointer table gives for
// each index rather than on the index itself.
func orderArticles(co clusterOffsetter, articles []zim.ArticleRef) []zim.ArticleRef {
	out := make([]zim.ArticleRef, len(articles))
	copy(out, articles)
	sort.Slice(out, func(i, j int) bool {
		oi, oj := co.ClusterOffset(out[i].ClusterIdx), co.ClusterOffset(out[j].ClusterIdx)
		if oi != oj {
			return oi < oj
		}
		return out[i].BlobIdx < out[j].BlobIdx
	})
	return out
}

// decodeConcurrent fans article decoding out across workers; results are
// collected into a slice indexed by input position, so downstream encoding
// still proceeds in the required cluster-by-cluster order. This is opt-in:
// the cluster store's own cache makes repeated sequential access to the
// same cluster cheap, so workers benefit mainly when clusters are large and
// CPU-bound HTML parsing dominates wall time.
func decodeConcurrent(ctx context.Context, refs []zim.ArticleRef, workers int, decodeOne func(zim.ArticleRef) decoded) ([]decoded, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]decoded, len(refs))
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = decodeOne(ref)
			if results[i].err != nil {
				return fmt.Errorf("extract: reading article %q: %w", ref.URL, results[i].err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
