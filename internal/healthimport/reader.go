package healthimport

import (
	"context"
	"io"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// defaultChunkBytes is the streaming read size. Peak memory for the XML
	// path is one chunk plus the longest unterminated record tail.
	defaultChunkBytes = 256 * 1024

	// smallFileBytes is the cutoff below which a source may be slurped
	// whole instead of streamed.
	smallFileBytes = 1 << 20

	// progressInterval throttles progress emissions so a multi-hundred-MB
	// scan does not flood the caller.
	progressInterval = 300 * time.Millisecond
)

// countingReader tracks raw bytes consumed from the underlying source, so
// progress reflects file bytes rather than decoded text length.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// progressEmitter throttles percentage callbacks to progressInterval and
// guarantees a final 100 on Finish.
type progressEmitter struct {
	fn       ProgressFunc
	total    int64
	lastEmit time.Time
	lastPct  int
}

func newProgressEmitter(fn ProgressFunc, total int64) *progressEmitter {
	return &progressEmitter{fn: fn, total: total, lastPct: -1}
}

func (p *progressEmitter) update(processed int64) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	if time.Since(p.lastEmit) < progressInterval {
		return
	}
	pct := int(math.Round(float64(processed) / float64(p.total) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct == p.lastPct {
		return
	}
	p.lastEmit = time.Now()
	p.lastPct = pct
	p.fn(pct)
}

func (p *progressEmitter) finish() {
	if p.fn == nil {
		return
	}
	p.fn(100)
}

// decodeReader wraps the source in a streaming-safe text decoder. Multi-byte
// sequences split across chunk edges are carried in the transformer's state,
// and a UTF-8/16 BOM is honored and stripped.
func decodeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// streamText pulls decoded text chunk by chunk, invoking fn per chunk and
// reporting throttled progress against total source bytes. The context is
// checked before every read so long imports can be canceled.
func streamText(ctx context.Context, src io.Reader, total int64, chunkBytes int, onProgress ProgressFunc, fn func(text string) error) error {
	if chunkBytes <= 0 {
		chunkBytes = defaultChunkBytes
	}
	counter := &countingReader{r: src}
	decoded := decodeReader(counter)
	emitter := newProgressEmitter(onProgress, total)

	buf := make([]byte, chunkBytes)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := decoded.Read(buf)
		if n > 0 {
			if cbErr := fn(string(buf[:n])); cbErr != nil {
				return cbErr
			}
			emitter.update(counter.n.Load())
		}
		if err == io.EOF {
			emitter.finish()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readAllText materializes the whole decoded source. Intended for sources at
// or below smallFileBytes; the streaming path must be used above it.
func readAllText(ctx context.Context, src io.Reader, total int64, onProgress ProgressFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(decodeReader(src))
	if err != nil {
		return "", err
	}
	newProgressEmitter(onProgress, total).finish()
	return string(data), nil
}
