package usecase

import (
	"context"
	"errors"
	"sync"

	"resume-service/internal/domain"
	"resume-service/internal/model"
)

// fakeRenderer "prints" the HTML into a minimal PDF envelope so tests can
// assert on the rendered text.
type fakeRenderer struct {
	err    error
	output []byte
	calls  int
}

func (r *fakeRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if r.output != nil {
		return r.output, nil
	}
	return []byte("%PDF-1.7\n" + html + "\n%%EOF"), nil
}

type staticSource struct {
	content model.Content
	err     error
	calls   int
}

func (s *staticSource) Load(ctx context.Context) (model.Content, error) {
	s.calls++
	return s.content, s.err
}

type countingStats struct {
	mu    sync.Mutex
	stats domain.DownloadStats
	calls int
	err   error
}

func (c *countingStats) Increment(ctx context.Context, v domain.Variant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return c.err
	}
	switch v {
	case domain.VariantAIOptimized:
		c.stats.AIOptimized++
	case domain.VariantTraditional:
		c.stats.Traditional++
	}
	c.stats.Total++
	return nil
}

func (c *countingStats) Read(ctx context.Context) (domain.DownloadStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DownloadEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev domain.DownloadEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

// flushFailWriter accepts writes but fails to flush, like a buffered writer on
// a connection the client already closed.
type flushFailWriter struct{ written int }

func (w *flushFailWriter) Write(p []byte) (int, error) {
	w.written += len(p)
	return len(p), nil
}

func (w *flushFailWriter) Flush() error { return errors.New("broken pipe") }
