package natsserver

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribeAndStats(t *testing.T) {
	srv, err := New(Config{Port: -1})
	require.NoError(t, err)
	defer srv.Shutdown()

	assert.Greater(t, srv.Port(), 0, "random port resolves to the bound one")
	assert.Contains(t, srv.Address(), "nats://127.0.0.1:")

	received := make(chan []byte, 1)
	_, err = srv.Subscribe("alerts.test", func(msg *nats.Msg) {
		received <- msg.Data
	})
	require.NoError(t, err)

	require.NoError(t, srv.Publish("alerts.test", []byte(`{"ok":true}`)))

	select {
	case data := <-received:
		assert.JSONEq(t, `{"ok":true}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message never arrived")
	}

	stats := srv.GetStats()
	assert.Equal(t, uint64(1), stats.EventsPublished)
	assert.Equal(t, uint64(0), stats.EventsDropped)
}
