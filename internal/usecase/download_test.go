package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"resume-service/internal/domain"
	"resume-service/internal/model"
	"resume-service/pkg/logger"
	"resume-service/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *DownloadService
	source   *staticSource
	renderer *fakeRenderer
	stats    *countingStats
	events   *recordingPublisher
}

func newHarness(c model.Content) *harness {
	h := &harness{
		source:   &staticSource{content: c},
		renderer: &fakeRenderer{},
		stats:    &countingStats{},
		events:   &recordingPublisher{},
	}
	h.svc = NewDownloadService(
		NewContentStore(h.source),
		NewProducer(h.renderer, 0),
		NewStatsService(h.stats),
		logger.NewNop(),
	).WithEvents(h.events).WithMetrics(metrics.NewRecorder())
	return h
}

func (h *harness) read(t *testing.T) domain.DownloadStats {
	t.Helper()
	s, err := h.stats.Read(context.Background())
	require.NoError(t, err)
	return s
}

func TestDeliverAIOptimizedOrdersExperiencesAndListsSkills(t *testing.T) {
	c := model.Content{
		PersonalInfo: model.PersonalInfo{Name: "Ada Lovelace", Title: "Engineer"},
		Experiences: []model.Experience{
			{Company: "Later Corp", Role: "Lead", Period: "2020", Order: 2},
			{Company: "Earlier Corp", Role: "Junior", Period: "2018", Order: 1},
		},
		Skills: []model.Skill{{Name: "Go", Order: 1}, {Name: "Rust", Order: 2}, {Name: "SQL", Order: 3}},
	}
	h := newHarness(c)

	var out bytes.Buffer
	d, err := h.svc.Deliver(context.Background(), "ai-optimized", &out)
	require.NoError(t, err)

	assert.Equal(t, StageCounted, d.Stage())
	assert.Equal(t, "ada-lovelace-resume-ai-optimized.pdf", d.FileName)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, out.Len(), d.Size())
	assertBefore(t, out.String(), "Earlier Corp", "Later Corp")
	for _, skill := range []string{"Go", "Rust", "SQL"} {
		assert.Contains(t, out.String(), skill)
	}
	assert.NotContains(t, out.String(), `class="education"`)
}

func TestDeliverTraditionalCountsExactlyOnce(t *testing.T) {
	h := newHarness(sampleContent())
	before := h.read(t)

	_, err := h.svc.Deliver(context.Background(), "traditional", &bytes.Buffer{})
	require.NoError(t, err)

	after := h.read(t)
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.Traditional+1, after.Traditional)
	assert.Equal(t, before.AIOptimized, after.AIOptimized)

	require.Len(t, h.events.events, 1)
	assert.Equal(t, "traditional", h.events.events[0].Variant)
	assert.Equal(t, "ada-lovelace-resume-traditional.pdf", h.events.events[0].FileName)
}

func TestDeliverUnknownVariantFailsFast(t *testing.T) {
	h := newHarness(sampleContent())

	d, err := h.svc.Deliver(context.Background(), "pdf-xyz", &bytes.Buffer{})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)
	assert.Equal(t, 0, h.source.calls, "content must not be loaded for an invalid variant")
	assert.Equal(t, 0, h.renderer.calls)
	assert.Equal(t, domain.DownloadStats{}, h.read(t))
	assert.Equal(t, 0, h.stats.calls)
}

func TestPrepareFailuresNeverCount(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(h *harness)
		target error
	}{
		{"data unavailable", func(h *harness) { h.source.err = errors.New("db down") }, domain.ErrDataUnavailable},
		{"missing personal info", func(h *harness) { h.source.content = model.Content{} }, domain.ErrDataUnavailable},
		{"backend error", func(h *harness) { h.renderer.err = errors.New("chrome crashed") }, domain.ErrRenderBackend},
		{"not a pdf", func(h *harness) { h.renderer.output = []byte("<html>") }, domain.ErrRenderBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(sampleContent())
			tc.setup(h)

			var out bytes.Buffer
			_, err := h.svc.Deliver(context.Background(), "traditional", &out)
			assert.ErrorIs(t, err, tc.target)
			assert.Zero(t, out.Len(), "no bytes may be streamed after a failure")
			assert.Equal(t, 0, h.stats.calls)
			assert.Empty(t, h.events.events)
		})
	}
}

func TestWriteFailureIsNotCounted(t *testing.T) {
	h := newHarness(sampleContent())
	d, err := h.svc.Prepare(context.Background(), "ai-optimized")
	require.NoError(t, err)
	assert.Equal(t, StageProducing, d.Stage())

	_, err = d.WriteTo(failingWriter{err: errors.New("connection reset")})
	require.Error(t, err)
	assert.Equal(t, StageFailed, d.Stage())
	assert.EqualError(t, d.Err(), "connection reset")

	assert.ErrorIs(t, d.Complete(context.Background()), ErrStageOrder)
	assert.Equal(t, 0, h.stats.calls)
}

func TestFlushFailureIsNotCounted(t *testing.T) {
	h := newHarness(sampleContent())
	d, err := h.svc.Prepare(context.Background(), "traditional")
	require.NoError(t, err)

	w := &flushFailWriter{}
	_, err = d.WriteTo(w)
	require.Error(t, err)
	assert.Equal(t, d.Size(), w.written)
	assert.ErrorIs(t, d.Complete(context.Background()), ErrStageOrder)
	assert.Equal(t, 0, h.stats.calls)
}

func TestCompleteRequiresStreaming(t *testing.T) {
	h := newHarness(sampleContent())
	d, err := h.svc.Prepare(context.Background(), "traditional")
	require.NoError(t, err)

	assert.ErrorIs(t, d.Complete(context.Background()), ErrStageOrder)
	assert.Equal(t, 0, h.stats.calls)
}

func TestCompleteTwiceCountsOnce(t *testing.T) {
	h := newHarness(sampleContent())
	d, err := h.svc.Prepare(context.Background(), "traditional")
	require.NoError(t, err)

	_, err = d.WriteTo(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, StageStreaming, d.Stage())

	require.NoError(t, d.Complete(context.Background()))
	assert.ErrorIs(t, d.Complete(context.Background()), ErrStageOrder)
	assert.Equal(t, 1, h.stats.calls)
	assert.Equal(t, int64(1), h.read(t).Total)
	assert.Len(t, h.events.events, 1)
}

func TestWriteToTwiceIsRejected(t *testing.T) {
	h := newHarness(sampleContent())
	d, err := h.svc.Prepare(context.Background(), "traditional")
	require.NoError(t, err)

	_, err = d.WriteTo(&bytes.Buffer{})
	require.NoError(t, err)
	_, err = d.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStageOrder)
}

func TestIncrementFailureSurfaces(t *testing.T) {
	h := newHarness(sampleContent())
	h.stats.err = errors.New("redis down")

	_, err := h.svc.Deliver(context.Background(), "traditional", &bytes.Buffer{})
	assert.EqualError(t, err, "redis down")
	assert.Equal(t, 1, h.stats.calls)
	assert.Empty(t, h.events.events)
}

func TestPublishFailureDoesNotUndoCount(t *testing.T) {
	h := newHarness(sampleContent())
	h.events.err = errors.New("kafka unavailable")

	d, err := h.svc.Deliver(context.Background(), "ai-optimized", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, StageCounted, d.Stage())
	assert.Equal(t, int64(1), h.read(t).AIOptimized)
}

func TestPreviewDoesNotCount(t *testing.T) {
	h := newHarness(sampleContent())

	body, err := h.svc.Preview(context.Background(), "traditional")
	require.NoError(t, err)
	assert.Contains(t, body.HTML, "Ada Lovelace")
	assert.Equal(t, 0, h.renderer.calls)
	assert.Equal(t, 0, h.stats.calls)

	_, err = h.svc.Preview(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "counted", StageCounted.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}

func TestBuildRejectsDownloadNotPending(t *testing.T) {
	h := newHarness(sampleContent())
	d := &Download{Variant: domain.VariantTraditional, svc: h.svc, stage: StageStreaming}

	err := h.svc.build(context.Background(), d)

	assert.ErrorIs(t, err, ErrStageOrder)
	assert.Equal(t, StageFailed, d.Stage())
	assert.ErrorIs(t, d.Err(), ErrStageOrder)
	assert.Zero(t, h.source.calls)
	assert.Zero(t, h.renderer.calls)
	assert.Equal(t, domain.DownloadStats{}, h.read(t))
}
