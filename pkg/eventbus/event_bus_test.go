package eventbus

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type cadetCreated struct {
	Name string
}

type cadetDeleted struct{}

func newTestBus() EventBus {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEventPublisher(logger)
}

func TestPublishDispatchesByType(t *testing.T) {
	bus := newTestBus()

	var got []string
	bus.Subscribe(func(e cadetCreated) {
		got = append(got, e.Name)
	})
	bus.Subscribe(func(e cadetDeleted) {
		t.Fatal("wrong handler invoked")
	})

	bus.Publish(cadetCreated{Name: "Reyes"})
	bus.Publish(cadetCreated{Name: "Blake"})

	require.Equal(t, []string{"Reyes", "Blake"}, got)
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe(func(e cadetCreated) {
		panic("boom")
	})

	require.NotPanics(t, func() {
		bus.Publish(cadetCreated{Name: "Reyes"})
	})
}

func TestPublishEReturnsHandlerError(t *testing.T) {
	bus := newTestBus().(EventBusWithError)

	wantErr := errors.New("downstream unavailable")
	bus.Subscribe(func(e cadetCreated) error {
		return wantErr
	})

	err := bus.PublishE(cadetCreated{})
	require.ErrorIs(t, err, wantErr)
}

func TestPublishENoSubscribers(t *testing.T) {
	bus := newTestBus().(EventBusWithError)

	err := bus.PublishE(cadetCreated{})
	require.ErrorIs(t, err, ErrNoSubscribers)
}

func TestUnsubscribeAndClear(t *testing.T) {
	bus := newTestBus()

	handler := func(e cadetCreated) {}
	bus.Subscribe(handler)
	bus.Subscribe(func(e cadetDeleted) {})
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}
