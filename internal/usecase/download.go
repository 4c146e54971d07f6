package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"resume-service/internal/domain"
	"resume-service/pkg/logger"
	"resume-service/pkg/metrics"

	"go.uber.org/zap"
)

// EventPublisher receives an event for every counted download.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.DownloadEvent) error
}

// DownloadService runs the render -> produce -> stream -> count pipeline.
// Every request renders from live content; nothing is cached between requests.
type DownloadService struct {
	content  *ContentStore
	producer *Producer
	stats    *StatsService
	events   EventPublisher
	metrics  *metrics.Recorder
	log      logger.Logger
}

func NewDownloadService(content *ContentStore, producer *Producer, stats *StatsService, log logger.Logger) *DownloadService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DownloadService{content: content, producer: producer, stats: stats, log: log}
}

// WithEvents sets the publisher notified after each counted download.
func (s *DownloadService) WithEvents(p EventPublisher) *DownloadService {
	s.events = p
	return s
}

func (s *DownloadService) WithMetrics(m *metrics.Recorder) *DownloadService {
	s.metrics = m
	return s
}

// Prepare validates the variant, loads content, renders and produces the
// artifact. Nothing is counted here; an error means no bytes may be sent.
func (s *DownloadService) Prepare(ctx context.Context, rawVariant string) (*Download, error) {
	v, err := domain.ParseVariant(rawVariant)
	if err != nil {
		s.log.Info("download rejected", zap.String("variant", rawVariant), zap.Error(err))
		return nil, err
	}

	d := &Download{Variant: v, svc: s}
	if err := s.build(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// build moves d from Pending through Rendering to Producing. Every step
// checks its transition; any failure leaves d in StageFailed.
func (s *DownloadService) build(ctx context.Context, d *Download) error {
	v := d.Variant
	start := time.Now()

	if err := d.advance(StagePending, StageRendering); err != nil {
		return s.failPrepare(d, err)
	}
	body, err := s.render(ctx, v)
	if err != nil {
		return s.failPrepare(d, err)
	}

	if err := d.advance(StageRendering, StageProducing); err != nil {
		return s.failPrepare(d, err)
	}
	art, err := s.producer.Produce(ctx, body)
	if err != nil {
		return s.failPrepare(d, err)
	}
	s.metrics.ObserveProduce(v.String(), time.Since(start))

	d.artifact = art
	d.FileName = art.FileName
	d.ContentType = art.ContentType
	s.log.Info("download prepared",
		zap.String("variant", v.String()),
		zap.String("file_name", art.FileName),
		zap.Int("bytes", len(art.Bytes)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Preview renders the document body for rawVariant without producing a PDF.
// Previews are never counted.
func (s *DownloadService) Preview(ctx context.Context, rawVariant string) (DocumentBody, error) {
	v, err := domain.ParseVariant(rawVariant)
	if err != nil {
		return DocumentBody{}, err
	}
	return s.render(ctx, v)
}

// Deliver runs the whole pipeline against w and counts the download once all
// bytes were written.
func (s *DownloadService) Deliver(ctx context.Context, rawVariant string, w io.Writer) (*Download, error) {
	d, err := s.Prepare(ctx, rawVariant)
	if err != nil {
		return nil, err
	}
	if _, err := d.WriteTo(w); err != nil {
		return d, err
	}
	if err := d.Complete(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func (s *DownloadService) render(ctx context.Context, v domain.Variant) (DocumentBody, error) {
	content, err := s.content.Load(ctx)
	if err != nil {
		return DocumentBody{}, err
	}
	return RenderDocument(v, content)
}

func (s *DownloadService) failPrepare(d *Download, err error) error {
	stage := d.Stage()
	d.fail(err)
	s.metrics.Download(d.Variant.String(), "failed")
	if errors.Is(err, domain.ErrInvalidVariant) {
		s.log.Info("download rejected", zap.String("variant", d.Variant.String()), zap.Error(err))
	} else {
		s.log.Error("download failed", err, zap.String("variant", d.Variant.String()), zap.String("stage", stage.String()))
	}
	return err
}
