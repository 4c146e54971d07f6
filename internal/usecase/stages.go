package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"resume-service/internal/domain"

	"go.uber.org/zap"
)

// Stage is the position of a download in its pipeline:
// Rendering -> Producing -> Streaming -> Counted, or Failed from any of them.
type Stage int

const (
	StagePending Stage = iota
	StageRendering
	StageProducing
	StageStreaming
	StageCounted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageRendering:
		return "rendering"
	case StageProducing:
		return "producing"
	case StageStreaming:
		return "streaming"
	case StageCounted:
		return "counted"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrStageOrder is returned when a download step is attempted out of order,
// e.g. counting a download that was never fully streamed.
var ErrStageOrder = errors.New("download stage out of order")

type flusher interface {
	Flush() error
}

// Download is one produced artifact on its way to a client. A Download is
// counted at most once, and only after every byte was written.
type Download struct {
	Variant     domain.Variant
	FileName    string
	ContentType string

	svc      *DownloadService
	artifact Artifact

	mu        sync.Mutex
	stage     Stage
	delivered bool
	failure   error
}

func (d *Download) Stage() Stage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stage
}

// Err returns the error that moved the download to StageFailed, if any.
func (d *Download) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failure
}

// Size is the artifact length in bytes.
func (d *Download) Size() int {
	return len(d.artifact.Bytes)
}

func (d *Download) advance(from, to Stage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != from {
		return fmt.Errorf("%w: %s -> %s while %s", ErrStageOrder, from, to, d.stage)
	}
	d.stage = to
	return nil
}

func (d *Download) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stage = StageFailed
	d.failure = err
}

// WriteTo streams the artifact to w. When w can be flushed it is flushed, and
// the download only counts as delivered once the flush succeeded. Any error
// or short write fails the download.
func (d *Download) WriteTo(w io.Writer) (int64, error) {
	if err := d.advance(StageProducing, StageStreaming); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, bytes.NewReader(d.artifact.Bytes))
	if err == nil && n != int64(len(d.artifact.Bytes)) {
		err = io.ErrShortWrite
	}
	if err == nil {
		if f, ok := w.(flusher); ok {
			err = f.Flush()
		}
	}
	if err != nil {
		d.fail(err)
		d.svc.metrics.Download(d.Variant.String(), "aborted")
		d.svc.log.Warn("download aborted while streaming",
			zap.String("variant", d.Variant.String()), zap.Int64("written", n), zap.Error(err))
		return n, err
	}

	d.mu.Lock()
	d.delivered = true
	d.mu.Unlock()
	return n, nil
}

// Complete records a fully delivered download. The increment is issued
// exactly once; later calls return ErrStageOrder without touching the stats.
func (d *Download) Complete(ctx context.Context) error {
	d.mu.Lock()
	if d.stage != StageStreaming || !d.delivered {
		stage := d.stage
		d.mu.Unlock()
		return fmt.Errorf("%w: cannot count download while %s", ErrStageOrder, stage)
	}
	d.stage = StageCounted
	d.mu.Unlock()

	if err := d.svc.stats.Increment(ctx, d.Variant); err != nil {
		d.fail(err)
		d.svc.metrics.Download(d.Variant.String(), "count_failed")
		d.svc.log.Error("download statistics increment failed", err, zap.String("variant", d.Variant.String()))
		return err
	}
	d.svc.metrics.Download(d.Variant.String(), "counted")

	if d.svc.events != nil {
		ev := domain.NewDownloadEvent(d.Variant, d.FileName, int64(d.Size()))
		if err := d.svc.events.Publish(ctx, ev); err != nil {
			d.svc.log.Warn("download event not published", zap.String("event_id", ev.ID.String()), zap.Error(err))
		}
	}
	return nil
}
