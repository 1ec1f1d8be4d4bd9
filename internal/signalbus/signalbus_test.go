package signalbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func notifyAfter(bus *signalBus, name string, d time.Duration) {
	go func() {
		time.Sleep(d)
		bus.Notify(name)
	}()
}

func TestNewSignalBus(t *testing.T) {
	require := require.New(t)

	bus := NewSignalBus().(*signalBus)

	// it's ok to send notifications before subscriptions...
	bus.Notify("unknown")

	seats1 := bus.Subscribe("seats")
	notifyAfter(bus, "seats", 100*time.Millisecond)
	require.False(seats1.IsSignaled())
	require.Eventually(seats1.IsSignaled, 2*time.Second, time.Millisecond)

	require.Equal(1, len(bus.signals))
	seats2 := bus.Subscribe("seats")
	users := bus.Subscribe("users")
	require.Equal(2, len(bus.signals))

	bus.Notify("seats")
	require.True(seats1.IsSignaled())
	require.True(seats2.IsSignaled())
	require.False(users.IsSignaled())

	bus.NotifyAll()
	require.True(seats1.IsSignaled())
	require.True(users.IsSignaled())

	seats1.Close()
	require.Equal(2, len(bus.signals))
	seats2.Close()
	seats2.Close()
	require.Equal(1, len(bus.signals))
	users.Close()
	require.Equal(0, len(bus.signals))
}
