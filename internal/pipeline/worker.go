package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/filingest/internal/chunker"
	"github.com/dgallion1/filingest/internal/edgar"
	"github.com/dgallion1/filingest/internal/outline"
	"github.com/dgallion1/filingest/internal/parser"
)

// Worker processes a single filing job.
type Worker struct {
	edgar    *edgar.Client
	jobs     *JobStore
	log      *slog.Logger
	chunkCfg chunker.Config
	stats    *ParseStats

	pdfFallback bool
}

func NewWorker(fetcher *edgar.Client, jobs *JobStore, log *slog.Logger, chunkCfg chunker.Config, stats *ParseStats, pdfFallback bool) *Worker {
	return &Worker{
		edgar:       fetcher,
		jobs:        jobs,
		log:         log,
		chunkCfg:    chunkCfg,
		stats:       stats,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Fetch (URL jobs only).
	if job.SourceURL != "" && len(job.FileData()) == 0 {
		job.SetStatus(StatusFetching, "fetching")
		if err := w.fetch(ctx, job, log); err != nil {
			log.Error("fetch failed", "url", job.SourceURL, "error", err)
			job.AddError(fmt.Sprintf("fetch: %s", err))
			job.SetStatus(StatusFailed, "fetching")
			return
		}
	}

	// Phase 2: Parse.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallback
	}

	start := time.Now()
	o, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	w.stats.Record(time.Since(start).Milliseconds())

	if job.Title != "" {
		o.Title = job.Title
	}

	// Dedup on the parsed text, not the raw bytes, so trivial markup
	// differences between copies of one filing still collapse.
	hash := ContentHashHex([]byte(flattenOutlineText(o)))
	job.SetContentHash(hash)
	if dup := w.jobs.FindCompletedByHash(hash, job.ID); dup != nil {
		log.Info("duplicate document, skipping", "existing_job_id", dup.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkOutline(o, w.chunkCfg)
	job.SetProgress(countSections(o), len(chunks))
	log.Info("structured document", "sections", countSections(o), "chunks", len(chunks))

	job.SetResult(&Result{
		Outline:  o,
		Chunks:   chunks,
		Markdown: o.Markdown(),
	})
	job.SetStatus(StatusCompleted, "done")
}

// fetch downloads the document with retries on transient EDGAR errors.
func (w *Worker) fetch(ctx context.Context, job *Job, log *slog.Logger) error {
	var data []byte
	var filename string
	var lastErr error

	for attempt := range MaxRetries {
		data, filename, lastErr = w.edgar.Fetch(ctx, job.SourceURL)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable fetch error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return lastErr
	}

	if !parser.IsSupportedExtension(filename) {
		// EDGAR index pages and extension-less documents are HTML.
		filename += ".html"
	}
	job.SetFileData(data)
	job.SetFilename(filename)
	return nil
}

func countSections(o *outline.Outline) int {
	n := 0
	var walk func([]*outline.Section)
	walk = func(secs []*outline.Section) {
		n += len(secs)
		for _, s := range secs {
			walk(s.Children)
		}
	}
	walk(o.Sections)
	return n
}

// flattenOutlineText extracts all text from an outline for hashing.
func flattenOutlineText(o *outline.Outline) string {
	var sb strings.Builder
	var walk func([]*outline.Section)
	walk = func(secs []*outline.Section) {
		for _, s := range secs {
			if s.Heading != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s.Heading)
			}
			if s.Text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s.Text)
			}
			walk(s.Children)
		}
	}
	walk(o.Sections)
	return sb.String()
}
