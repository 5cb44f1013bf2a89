package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	kafkaMock "github.com/techmajster/saas-leave-system/internal/messaging/kafka/mock"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	fail map[string]error
	sent []kafkago.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.fail[string(m.Key)]; err != nil {
			return err
		}
		w.sent = append(w.sent, m)
	}
	return nil
}

func newTestDispatcher(t *testing.T, writer MessageWriter) (*Dispatcher, *kafkaMock.MockOutboxRepository, time.Time) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	d := NewDispatcher(repo, writer, Options{BatchSize: 10, MaxRetries: 3}, zap.NewNop())
	d.now = func() time.Time { return now }
	return d, repo, now
}

func TestDispatcher_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks sent", func(t *testing.T) {
		writer := &fakeWriter{}
		d, repo, now := newTestDispatcher(t, writer)

		event, err := kafka.NewOutboxEvent("req-1", "leave_request", "lr-1", "leave_request.created", "leave.requests.v1", map[string]string{"id": "lr-1"})
		require.NoError(t, err)

		repo.EXPECT().ListPending(gomock.Any(), 10, now).Return([]kafka.OutboxEvent{event}, nil)
		repo.EXPECT().MarkSent(gomock.Any(), event.ID, now).Return(nil)

		sent, err := d.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		require.Len(t, writer.sent, 1)

		msg := writer.sent[0]
		assert.Equal(t, "leave.requests.v1", msg.Topic)
		assert.Equal(t, "lr-1", string(msg.Key))

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "leave_request.created", headers["event_type"])
		assert.Equal(t, "req-1", headers["request_id"])
		assert.Equal(t, event.ID.String(), headers["outbox_id"])
	})

	t.Run("failed publish is rescheduled and the batch continues", func(t *testing.T) {
		writer := &fakeWriter{fail: map[string]error{"bad": errors.New("broker down")}}
		d, repo, now := newTestDispatcher(t, writer)

		bad := kafka.OutboxEvent{ID: uuid.New(), AggregateID: "bad", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
		good := kafka.OutboxEvent{ID: uuid.New(), AggregateID: "good", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}

		gomock.InOrder(
			repo.EXPECT().ListPending(gomock.Any(), 10, now).Return([]kafka.OutboxEvent{bad, good}, nil),
			repo.EXPECT().MarkFailed(gomock.Any(), bad, "broker down", 3, now).Return(kafka.OutboxStatusFailed, nil),
			repo.EXPECT().MarkSent(gomock.Any(), good.ID, now).Return(nil),
		)

		sent, err := d.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("list error is returned", func(t *testing.T) {
		d, repo, now := newTestDispatcher(t, &fakeWriter{})
		repo.EXPECT().ListPending(gomock.Any(), 10, now).Return(nil, errors.New("db down"))

		_, err := d.ProcessBatch(ctx)
		assert.EqualError(t, err, "db down")
	})
}
