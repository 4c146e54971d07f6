package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-service/internal/domain"
	"resume-service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, logger.NewNop())
	ev := domain.NewDownloadEvent(domain.VariantTraditional, "ada-lovelace-resume-traditional.pdf", 1234)

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "traditional", string(w.msgs[0].Key))

	var got domain.DownloadEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.FileName, got.FileName)
	assert.Equal(t, int64(1234), got.Bytes)
	assert.True(t, ev.CompletedAt.Equal(got.CompletedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherPropagatesWriteError(t *testing.T) {
	p := newPublisher(&fakeWriter{err: errors.New("broker down")}, logger.NewNop())
	err := p.Publish(context.Background(), domain.NewDownloadEvent(domain.VariantAIOptimized, "x.pdf", 1))
	assert.EqualError(t, err, "broker down")
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "", nil)
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "", nil)
	require.NoError(t, err)
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, TopicDownloadEvents, w.Topic)
	assert.True(t, w.Async)
	require.NoError(t, p.Close())
}
