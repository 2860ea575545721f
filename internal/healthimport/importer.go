package healthimport

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/yourname/lifetrack/internal"
)

// Importer runs the four-stage pipeline: source reader, format parser,
// daily aggregator, reconciler. One Importer is safe to reuse across calls;
// all per-import state is local to HandleFileUpload.
type Importer struct {
	upserter   SleepUpserter
	logger     internal.Logger
	chunkBytes int
	batchSize  int
}

// Option configures an Importer.
type Option func(*Importer)

// WithChunkBytes overrides the streaming read size.
func WithChunkBytes(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.chunkBytes = n
		}
	}
}

// WithBatchSize overrides the rows-per-upsert-batch count.
func WithBatchSize(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func NewImporter(upserter SleepUpserter, logger internal.Logger, opts ...Option) *Importer {
	imp := &Importer{
		upserter:   upserter,
		logger:     logger,
		chunkBytes: defaultChunkBytes,
		batchSize:  150,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// HandleFileUpload imports one uploaded file for a user. The parser is
// selected by case-sensitive filename suffix (.csv, .json, .xml); XML is
// streamed, the others are decoded whole. Progress callbacks fire
// throughout; onProgress may be nil.
//
// Failure policy: a missing user or a read failure aborts with a single
// error; zero parsed entries is reported as an unsuccessful result rather
// than an error; individual bad rows are skipped silently; a failed write
// batch is recorded and the remaining batches proceed.
func (imp *Importer) HandleFileUpload(ctx context.Context, userID, filename string, src io.Reader, size int64, onProgress ProgressFunc) ImportResult {
	if userID == "" {
		return ImportResult{Success: false, Imported: 0, Errors: []string{"not authenticated"}}
	}

	entries, err := imp.parse(ctx, filename, src, size, onProgress)
	if err != nil {
		imp.logger.Errorf("import of %s failed: %v", filename, err)
		return ImportResult{Success: false, Imported: 0, Errors: []string{fmt.Sprintf("import failed: %v", err)}}
	}
	if len(entries) == 0 {
		return ImportResult{Success: false, Imported: 0, Errors: []string{"no valid sleep records found in file"}}
	}

	imp.logger.Infof("parsed %d sleep entries from %s", len(entries), filename)
	return imp.reconcile(ctx, userID, entries)
}

func (imp *Importer) parse(ctx context.Context, filename string, src io.Reader, size int64, onProgress ProgressFunc) ([]SleepEntry, error) {
	switch {
	case strings.HasSuffix(filename, ".xml"):
		return imp.parseStreamedXML(ctx, src, size, onProgress)
	case strings.HasSuffix(filename, ".json"):
		text, err := readAllText(ctx, src, size, onProgress)
		if err != nil {
			return nil, err
		}
		return parseJSON(text), nil
	case strings.HasSuffix(filename, ".csv"):
		text, err := readAllText(ctx, src, size, onProgress)
		if err != nil {
			return nil, err
		}
		return parseCSV(text), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// parseStreamedXML drives the incremental scanner over decoded chunks.
func (imp *Importer) parseStreamedXML(ctx context.Context, src io.Reader, size int64, onProgress ProgressFunc) ([]SleepEntry, error) {
	scanner := newXMLScanner()
	err := streamText(ctx, src, size, imp.chunkBytes, onProgress, func(text string) error {
		scanner.Feed(text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scanner.Entries(), nil
}

// reconcile writes entries in fixed-size batches, each through a single
// upsert-on-conflict call (no per-row existence checks). Batches are
// submitted sequentially; a batch that still fails after retries becomes one
// error string referencing its lead date and does not stop the rest.
func (imp *Importer) reconcile(ctx context.Context, userID string, entries []SleepEntry) ImportResult {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	imported := 0
	errs := []string{}
	for start := 0; start < len(entries); start += imp.batchSize {
		end := start + imp.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		var written int
		backoff := retry.WithMaxRetries(2, retry.NewFibonacci(100*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			n, upsertErr := imp.upserter.UpsertDailySleep(ctx, userID, batch)
			if upsertErr != nil {
				return retry.RetryableError(upsertErr)
			}
			written = n
			return nil
		})
		if err != nil {
			imp.logger.Warnf("sleep upsert batch starting %s failed: %v", batch[0].Date, err)
			errs = append(errs, fmt.Sprintf("batch starting %s: %v", batch[0].Date, err))
			continue
		}
		imported += written
	}

	return ImportResult{Success: imported > 0, Imported: imported, Errors: errs}
}
