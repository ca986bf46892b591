package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func testEvent() domain.Event {
	res := &domain.Reservation{
		ID:       uuid.New(),
		CourtID:  7,
		PlayerID: 42,
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Start:    "09:00",
		End:      "10:00",
		Amount:   50,
	}
	return domain.NewReservationEvent(domain.EventReservationBooked, res, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC))
}

func TestPublisher_Publish(t *testing.T) {
	ch := &mockChannel{}
	event := testEvent()

	ch.On("PublishWithContext", "court.events", "reservation.booked", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var decoded domain.Event
		if err := json.Unmarshal(msg.Body, &decoded); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.MessageId == event.ID.String() &&
			decoded.CourtID == 7 &&
			decoded.Date == "2024-06-01" &&
			decoded.Start == "09:00"
	})).Return(nil).Once()

	p := NewPublisherWithChannel(ch, "court.events", time.Second)

	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", "court.events", "reservation.booked", mock.Anything).
		Return(errors.New("channel closed")).Once()

	p := NewPublisherWithChannel(ch, "court.events", time.Second)

	assert.ErrorIs(t, p.Publish(context.Background(), testEvent()), ErrPublish)
}

func TestPublisher_Close(t *testing.T) {
	ch := &mockChannel{}
	ch.On("Close").Return(nil).Once()

	p := NewPublisherWithChannel(ch, "court.events", time.Second)

	assert.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), testEvent()))
}
